package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/standup-bot/internal/chat"
	"github.com/example/standup-bot/internal/constants"
	"github.com/example/standup-bot/internal/database"
	"github.com/example/standup-bot/internal/dto"
	"github.com/example/standup-bot/internal/models"
	"github.com/example/standup-bot/internal/repository"
	"github.com/example/standup-bot/internal/services"
)

// fakeSender records outbound room messages instead of sending them.
type fakeSender struct {
	created []chat.Message
	updated map[string]chat.Message
	fail    bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{updated: make(map[string]chat.Message)}
}

func (f *fakeSender) Create(_ context.Context, msg chat.Message) (string, error) {
	if f.fail {
		return "", fmt.Errorf("send failed")
	}
	f.created = append(f.created, msg)
	return fmt.Sprintf("messages/%d", len(f.created)), nil
}

func (f *fakeSender) Update(_ context.Context, ref string, msg chat.Message) error {
	if f.fail {
		return fmt.Errorf("send failed")
	}
	f.updated[ref] = msg
	return nil
}

type webhookTestEnv struct {
	db         *gorm.DB
	handler    *WebhookHandler
	sender     *fakeSender
	membership *services.MembershipService
	questions  *services.QuestionService
	standups   *services.StandupService
}

func setupWebhookTestEnv(t *testing.T) webhookTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, database.MigrateDB(db))
	database.SetDB(db)

	teamRepo := repository.NewTeamRepository(db)
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	standupRepo := repository.NewStandupRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	membership := services.NewMembershipService(teamRepo, userRepo)
	questions := services.NewQuestionService(questionRepo, teamRepo)
	standups := services.NewStandupService(standupRepo, questionRepo, userRepo)
	schedules := services.NewScheduleService(scheduleRepo, userRepo)

	sender := newFakeSender()
	handler := NewWebhookHandler(membership, questions, standups, schedules, sender)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return webhookTestEnv{
		db:         db,
		handler:    handler,
		sender:     sender,
		membership: membership,
		questions:  questions,
		standups:   standups,
	}
}

func postEvent(t *testing.T, env webhookTestEnv, event dto.ChatEvent) (int, string) {
	t.Helper()

	body, err := json.Marshal(event)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	env.handler.HandleEvent(c)

	if w.Code != http.StatusOK {
		return w.Code, w.Body.String()
	}

	var resp dto.TextResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp.Text
}

func dmEvent(eventType, externalID string) dto.ChatEvent {
	return dto.ChatEvent{
		Type: eventType,
		User: dto.EventUser{
			Name:        externalID,
			DisplayName: "Test User",
			Email:       "test@example.com",
		},
		Space: dto.EventSpace{Name: "spaces/dm-" + externalID, Type: "DM"},
	}
}

func commandEvent(externalID, commandID, argument string) dto.ChatEvent {
	event := dmEvent(constants.EventMessage, externalID)
	event.Message = &dto.EventMessage{
		Text:         argument,
		ArgumentText: argument,
		SlashCommand: &dto.SlashCommand{CommandID: commandID},
	}
	return event
}

func registerWebhookUser(t *testing.T, env webhookTestEnv, externalID string) {
	t.Helper()
	status, _ := postEvent(t, env, dmEvent(constants.EventAddedToSpace, externalID))
	require.Equal(t, http.StatusOK, status)
}

func TestWebhookHandler_InvalidPayload(t *testing.T) {
	env := setupWebhookTestEnv(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewReader([]byte("not json")))
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	env.handler.HandleEvent(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_UnknownEventType(t *testing.T) {
	env := setupWebhookTestEnv(t)

	status, _ := postEvent(t, env, dmEvent("SOMETHING_ELSE", "users/100"))
	require.Equal(t, http.StatusBadRequest, status)
}

func TestWebhookHandler_AddedToSpace_RegistersUser(t *testing.T) {
	env := setupWebhookTestEnv(t)

	status, text := postEvent(t, env, dmEvent(constants.EventAddedToSpace, "users/100"))
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, text, "/add_team")

	users, err := env.membership.ListUsers("")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "users/100", users[0].ExternalID)
	require.True(t, users[0].Active)
}

func TestWebhookHandler_AddedToSpace_RoomDoesNotRegister(t *testing.T) {
	env := setupWebhookTestEnv(t)

	event := dmEvent(constants.EventAddedToSpace, "users/100")
	event.Space = dto.EventSpace{Name: "spaces/room-1", Type: constants.SpaceTypeRoom}

	status, _ := postEvent(t, env, event)
	require.Equal(t, http.StatusOK, status)

	users, err := env.membership.ListUsers("")
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestWebhookHandler_RemovedFromSpace_DisablesUser(t *testing.T) {
	env := setupWebhookTestEnv(t)

	registerWebhookUser(t, env, "users/100")

	status, text := postEvent(t, env, dmEvent(constants.EventRemovedFromSpace, "users/100"))
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, text)

	var user models.User
	require.NoError(t, env.db.Where("external_id = ?", "users/100").First(&user).Error)
	require.False(t, user.Active)
}

func TestWebhookHandler_RemovedFromSpace_UnbindsRoom(t *testing.T) {
	env := setupWebhookTestEnv(t)

	_, err := env.membership.AddTeam("backend")
	require.NoError(t, err)
	require.NoError(t, env.membership.BindRoom("backend", "spaces/room-1"))

	event := dmEvent(constants.EventRemovedFromSpace, "users/100")
	event.Space = dto.EventSpace{Name: "spaces/room-1", Type: constants.SpaceTypeRoom}

	status, _ := postEvent(t, env, event)
	require.Equal(t, http.StatusOK, status)

	team, err := env.membership.ListTeams()
	require.NoError(t, err)
	require.Nil(t, team[0].Space)
}

func TestWebhookHandler_AddTeamCommand(t *testing.T) {
	env := setupWebhookTestEnv(t)

	status, text := postEvent(t, env, commandEvent("users/100", constants.CommandAddTeam, "backend"))
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, text, "added the new team 'backend'")

	// A second add with the same name declines.
	_, text = postEvent(t, env, commandEvent("users/100", constants.CommandAddTeam, "backend"))
	require.Contains(t, text, "couldn't add")
}

func TestWebhookHandler_JoinTeamCommand(t *testing.T) {
	env := setupWebhookTestEnv(t)

	registerWebhookUser(t, env, "users/100")
	_, err := env.membership.AddTeam("backend")
	require.NoError(t, err)

	_, text := postEvent(t, env, commandEvent("users/100", constants.CommandJoinTeam, "backend"))
	require.Contains(t, text, "joined the team 'backend'")

	team, err := env.membership.TeamOfUser("users/100")
	require.NoError(t, err)
	require.Equal(t, "backend", team.Name)
}

func TestWebhookHandler_JoinTeamCommand_Room(t *testing.T) {
	env := setupWebhookTestEnv(t)

	_, err := env.membership.AddTeam("backend")
	require.NoError(t, err)

	event := commandEvent("users/100", constants.CommandJoinTeam, "backend")
	event.Space = dto.EventSpace{Name: "spaces/room-1", Type: constants.SpaceTypeRoom}

	_, text := postEvent(t, env, event)
	require.Contains(t, text, "room has joined the team 'backend'")

	teams, err := env.membership.ListTeams()
	require.NoError(t, err)
	require.NotNil(t, teams[0].Space)
	require.Equal(t, "spaces/room-1", *teams[0].Space)
}

func TestWebhookHandler_RemoveTeamCommand_WithMembers(t *testing.T) {
	env := setupWebhookTestEnv(t)

	registerWebhookUser(t, env, "users/100")
	_, err := env.membership.AddTeam("backend")
	require.NoError(t, err)
	require.NoError(t, env.membership.JoinTeam("users/100", "backend"))

	_, text := postEvent(t, env, commandEvent("users/100", constants.CommandRemoveTeam, "backend"))
	require.Contains(t, text, "still has members")
}

func TestWebhookHandler_StandupAndAnswerFlow(t *testing.T) {
	env := setupWebhookTestEnv(t)

	registerWebhookUser(t, env, "users/100")
	team, err := env.membership.AddTeam("backend")
	require.NoError(t, err)
	require.NoError(t, env.membership.JoinTeam("users/100", "backend"))
	_, err = env.questions.AddQuestion(team.ID, "What did you do?")
	require.NoError(t, err)
	_, err = env.questions.AddQuestion(team.ID, "Any blockers?")
	require.NoError(t, err)

	_, text := postEvent(t, env, commandEvent("users/100", constants.CommandStandup, ""))
	require.Contains(t, text, "_What did you do?_")

	answer := dmEvent(constants.EventMessage, "users/100")
	answer.Message = &dto.EventMessage{Text: "fixed the build"}
	_, text = postEvent(t, env, answer)
	require.Contains(t, text, "_Any blockers?_")

	answer.Message = &dto.EventMessage{Text: "none"}
	_, text = postEvent(t, env, answer)
	require.Contains(t, text, "That was the last question")
	require.Contains(t, text, "fixed the build")

	// Answering past the end points at the publish action.
	answer.Message = &dto.EventMessage{Text: "one more"}
	_, text = postEvent(t, env, answer)
	require.Contains(t, text, "already complete")
}

func TestWebhookHandler_AnswerWithoutSession(t *testing.T) {
	env := setupWebhookTestEnv(t)

	registerWebhookUser(t, env, "users/100")

	event := dmEvent(constants.EventMessage, "users/100")
	event.Message = &dto.EventMessage{Text: "hello there"}

	_, text := postEvent(t, env, event)
	require.Equal(t, noAnswerText, text)
}

func TestWebhookHandler_FreeTextInRoomIsIgnored(t *testing.T) {
	env := setupWebhookTestEnv(t)

	event := dmEvent(constants.EventMessage, "users/100")
	event.Space = dto.EventSpace{Name: "spaces/room-1", Type: constants.SpaceTypeRoom}
	event.Message = &dto.EventMessage{Text: "chatter"}

	_, text := postEvent(t, env, event)
	require.Equal(t, noAnswerText, text)
}

func TestWebhookHandler_ScheduleCommands(t *testing.T) {
	env := setupWebhookTestEnv(t)

	registerWebhookUser(t, env, "users/100")

	_, text := postEvent(t, env, commandEvent("users/100", constants.CommandDisableSchedule, "monday"))
	require.Contains(t, text, "'Monday' is disabled")

	_, text = postEvent(t, env, commandEvent("users/100", constants.CommandChangeScheduleTime, "tuesday 10:30:00"))
	require.Contains(t, text, "'Tuesday' is now '10:30:00'")

	_, text = postEvent(t, env, commandEvent("users/100", constants.CommandChangeScheduleTime, "someday 10:30:00"))
	require.Contains(t, text, "couldn't change")

	_, text = postEvent(t, env, commandEvent("users/100", constants.CommandSchedules, ""))
	require.Contains(t, text, "Monday")
	require.Contains(t, text, "10:30:00")
}

func TestWebhookHandler_QuestionCommands(t *testing.T) {
	env := setupWebhookTestEnv(t)

	registerWebhookUser(t, env, "users/100")
	_, err := env.membership.AddTeam("backend")
	require.NoError(t, err)
	require.NoError(t, env.membership.JoinTeam("users/100", "backend"))

	_, text := postEvent(t, env, commandEvent("users/100", constants.CommandAddQuestion, "What did you do?"))
	require.Contains(t, text, "added the new question")

	_, text = postEvent(t, env, commandEvent("users/100", constants.CommandQuestions, ""))
	require.Contains(t, text, "What did you do?")
}

func TestWebhookHandler_PublishAnswers(t *testing.T) {
	env := setupWebhookTestEnv(t)

	registerWebhookUser(t, env, "users/100")
	team, err := env.membership.AddTeam("backend")
	require.NoError(t, err)
	require.NoError(t, env.membership.JoinTeam("users/100", "backend"))
	require.NoError(t, env.membership.BindRoom("backend", "spaces/room-1"))
	_, err = env.questions.AddQuestion(team.ID, "What did you do?")
	require.NoError(t, err)

	require.NoError(t, env.standups.StartSession("users/100"))
	_, err = env.standups.RecordAnswer("users/100", "fixed the build")
	require.NoError(t, err)

	click := dmEvent(constants.EventCardClicked, "users/100")
	click.Action = &dto.EventAction{ActionMethodName: constants.ActionSendAnswers}

	_, text := postEvent(t, env, click)
	require.Contains(t, text, "published in your team room")
	require.Len(t, env.sender.created, 1)
	require.Equal(t, "spaces/room-1", env.sender.created[0].Space)
	require.Contains(t, env.sender.created[0].Text, "fixed the build")

	ref, err := env.standups.OutboundMessageRef("users/100")
	require.NoError(t, err)
	require.Equal(t, "messages/1", ref)

	// A second publish updates the message already posted.
	_, text = postEvent(t, env, click)
	require.Contains(t, text, "updated in your team room")
	require.Len(t, env.sender.created, 1)
	require.Contains(t, env.sender.updated, "messages/1")
}

func TestWebhookHandler_PublishAnswers_NoRoom(t *testing.T) {
	env := setupWebhookTestEnv(t)

	registerWebhookUser(t, env, "users/100")
	team, err := env.membership.AddTeam("backend")
	require.NoError(t, err)
	require.NoError(t, env.membership.JoinTeam("users/100", "backend"))
	_, err = env.questions.AddQuestion(team.ID, "What did you do?")
	require.NoError(t, err)

	require.NoError(t, env.standups.StartSession("users/100"))
	_, err = env.standups.RecordAnswer("users/100", "fixed the build")
	require.NoError(t, err)

	click := dmEvent(constants.EventCardClicked, "users/100")
	click.Action = &dto.EventAction{ActionMethodName: constants.ActionSendAnswers}

	_, text := postEvent(t, env, click)
	require.Contains(t, text, "does not have a room")
	require.Empty(t, env.sender.created)
}

func TestWebhookHandler_PublishAnswers_SendFailure(t *testing.T) {
	env := setupWebhookTestEnv(t)

	registerWebhookUser(t, env, "users/100")
	team, err := env.membership.AddTeam("backend")
	require.NoError(t, err)
	require.NoError(t, env.membership.JoinTeam("users/100", "backend"))
	require.NoError(t, env.membership.BindRoom("backend", "spaces/room-1"))
	_, err = env.questions.AddQuestion(team.ID, "What did you do?")
	require.NoError(t, err)

	require.NoError(t, env.standups.StartSession("users/100"))
	_, err = env.standups.RecordAnswer("users/100", "fixed the build")
	require.NoError(t, err)

	env.sender.fail = true

	click := dmEvent(constants.EventCardClicked, "users/100")
	click.Action = &dto.EventAction{ActionMethodName: constants.ActionSendAnswers}

	_, text := postEvent(t, env, click)
	require.Contains(t, text, "couldn't reach your team room")

	// Nothing recorded, so the next try creates instead of updating.
	ref, err := env.standups.OutboundMessageRef("users/100")
	require.NoError(t, err)
	require.Empty(t, ref)
}
