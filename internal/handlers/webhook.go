package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/standup-bot/internal/chat"
	"github.com/example/standup-bot/internal/constants"
	"github.com/example/standup-bot/internal/dto"
	apierrors "github.com/example/standup-bot/internal/errors"
	"github.com/example/standup-bot/internal/logging"
	"github.com/example/standup-bot/internal/models"
	"github.com/example/standup-bot/internal/services"
	"github.com/example/standup-bot/internal/utils"
)

const noAnswerText = "Sorry, I don't have an answer for that."

// WebhookHandler dispatches chat events into the membership, question,
// standup, and schedule services. Every reply is a plain text payload; the
// handler never keeps state between events.
type WebhookHandler struct {
	membership *services.MembershipService
	questions  *services.QuestionService
	standups   *services.StandupService
	schedules  *services.ScheduleService
	sender     chat.Sender
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(
	membership *services.MembershipService,
	questions *services.QuestionService,
	standups *services.StandupService,
	schedules *services.ScheduleService,
	sender chat.Sender,
) *WebhookHandler {
	return &WebhookHandler{
		membership: membership,
		questions:  questions,
		standups:   standups,
		schedules:  schedules,
		sender:     sender,
	}
}

// HandleEvent handles one chat event delivered by the transport.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	var event dto.ChatEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		apierrors.BadRequest(c, "Invalid event payload")
		return
	}

	logging.L().WithField("type", event.Type).WithField("user", event.User.Name).
		Debug("webhook event")

	var text string
	switch event.Type {
	case constants.EventAddedToSpace:
		text = h.handleAddedToSpace(event)
	case constants.EventRemovedFromSpace:
		text = h.handleRemovedFromSpace(event)
	case constants.EventMessage:
		text = h.handleMessage(c.Request.Context(), event)
	case constants.EventCardClicked:
		text = h.handleCardClicked(c.Request.Context(), event)
	default:
		apierrors.BadRequest(c, "Unknown event type")
		return
	}

	c.JSON(http.StatusOK, dto.TextResponse{Text: text})
}

func (h *WebhookHandler) handleAddedToSpace(event dto.ChatEvent) string {
	if !event.Space.IsRoom() {
		if _, err := h.membership.UpsertUser(services.UpsertUserInput{
			ExternalID: event.User.Name,
			Name:       event.User.DisplayName,
			Email:      event.User.Email,
			AvatarURL:  event.User.AvatarURL,
			Space:      event.Space.Name,
		}); err != nil {
			logging.L().WithError(err).Warn("failed to register user")
			return "Sorry, I couldn't register you. Please try again later."
		}
	}

	teams, err := h.membership.ListTeams()
	if err != nil || len(teams) == 0 {
		return "Hi! Create a team with `/add_team NAME`, then join it with `/join_team NAME`."
	}
	return "Hi! Join one of the existing teams with `/join_team NAME`:\n" + formatTeams(teams)
}

func (h *WebhookHandler) handleRemovedFromSpace(event dto.ChatEvent) string {
	if event.Space.IsRoom() {
		if err := h.membership.UnbindRoom(event.Space.Name); err != nil &&
			!errors.Is(err, services.ErrRoomNotBound) {
			logging.L().WithError(err).Warn("failed to unbind room")
		}
		return ""
	}

	if err := h.membership.DisableUser(event.User.Name); err != nil &&
		!errors.Is(err, services.ErrUserNotFound) {
		logging.L().WithError(err).Warn("failed to disable user")
	}
	return ""
}

func (h *WebhookHandler) handleMessage(ctx context.Context, event dto.ChatEvent) string {
	if event.Message == nil {
		return noAnswerText
	}
	if event.Message.SlashCommand != nil {
		return h.handleCommand(ctx, event)
	}
	if event.Space.IsRoom() {
		return noAnswerText
	}
	return h.handleAnswer(ctx, event.User, event.Message.Text)
}

func (h *WebhookHandler) handleCommand(ctx context.Context, event dto.ChatEvent) string {
	arg := utils.CleanArgument(event.Message.ArgumentText)
	externalID := event.User.Name
	isRoom := event.Space.IsRoom()

	switch event.Message.SlashCommand.CommandID {
	case constants.CommandAddTeam:
		if arg == "" {
			return "Sorry, I couldn't add the team. Use `/add_team NAME`."
		}
		if _, err := h.membership.AddTeam(arg); err != nil {
			return "Sorry, I couldn't add the new team '" + arg + "'."
		}
		return "I successfully added the new team '" + arg + "'."

	case constants.CommandTeams:
		teams, err := h.membership.ListTeams()
		if err != nil {
			return "Sorry, I couldn't list the teams."
		}
		if len(teams) == 0 {
			return "There are no teams yet. Create one with `/add_team NAME`."
		}
		return "These teams exist:\n" + formatTeams(teams)

	case constants.CommandJoinTeam:
		return h.joinTeam(event, arg, isRoom)

	case constants.CommandLeaveTeam:
		if isRoom {
			if err := h.membership.UnbindRoom(event.Space.Name); err != nil {
				return "Sorry, this room is not part of a team."
			}
			return "The room is no longer part of a team. Run `/join_team NAME` to join the room to another team."
		}
		if err := h.membership.LeaveTeam(externalID); err != nil {
			return "Sorry, I couldn't remove you from your team."
		}
		return "You left the team. Run `/join_team NAME` to join another team."

	case constants.CommandRemoveTeam:
		return h.removeTeam(arg)

	case constants.CommandUsers:
		users, err := h.membership.ListUsers(arg)
		if err != nil {
			return "Sorry, I couldn't list the users."
		}
		if len(users) == 0 {
			return "I don't know any users there yet."
		}
		return "I know these users:\n" + formatUsers(users)

	case constants.CommandStandup:
		if isRoom {
			return "Sorry, but this command has no effect in a room."
		}
		return h.startStandup(externalID)

	case constants.CommandQuestions:
		questions, err := h.questions.ListQuestionsForUser(externalID)
		if err != nil || len(questions) == 0 {
			return "Sorry, I couldn't find any questions for you. " +
				"Make sure you joined a team with `/join_team NAME` and add questions with `/add_question QUESTION`."
		}
		return "Your team asks:\n" + formatQuestions(questions)

	case constants.CommandAddQuestion:
		if _, err := h.questions.AddQuestionForUser(externalID, arg); err != nil {
			return "Sorry, I couldn't add the question '" + arg + "'. " +
				"Make sure you joined a team with `/join_team NAME`."
		}
		return "I successfully added the new question '" + arg + "'."

	case constants.CommandRemoveQuestion:
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return "Sorry, I need a question id. List them with `/questions`."
		}
		if err := h.questions.RemoveQuestion(id); err != nil {
			return "Sorry, I couldn't remove that question."
		}
		return "I removed the question."

	case constants.CommandReorderQuestions:
		return h.reorderQuestion(externalID, arg)

	case constants.CommandEnableSchedule:
		return h.enableSchedule(externalID, arg, true, isRoom)

	case constants.CommandDisableSchedule:
		return h.enableSchedule(externalID, arg, false, isRoom)

	case constants.CommandChangeScheduleTime:
		if isRoom {
			return "Sorry, but this command has no effect in a room."
		}
		dayArg, timeArg, ok := utils.SplitScheduleArgs(event.Message.ArgumentText)
		day, known := models.ParseWeekday(dayArg)
		if !ok || !known {
			return "Sorry, I couldn't change your standup schedule time. Use e.g. `/change_schedule_time monday 09:00:00`."
		}
		if err := h.schedules.SetScheduleTime(externalID, day, timeArg); err != nil {
			return "Sorry, I couldn't change your standup schedule time. Use e.g. `/change_schedule_time monday 09:00:00`."
		}
		return "Your standup schedule time for '" + string(day) + "' is now '" + timeArg + "'."

	case constants.CommandSchedules:
		if isRoom {
			return "Sorry, but this command has no effect in a room."
		}
		schedules, err := h.schedules.ListSchedules(externalID)
		if err != nil {
			return "Sorry, I couldn't list your schedules."
		}
		return "Your standup schedules:\n" + formatSchedules(schedules)

	default:
		return noAnswerText
	}
}

func (h *WebhookHandler) joinTeam(event dto.ChatEvent, teamName string, isRoom bool) string {
	if teamName == "" {
		return "Sorry, I need a team name. Use `/join_team NAME`."
	}

	if isRoom {
		if err := h.membership.BindRoom(teamName, event.Space.Name); err != nil {
			return "Sorry, I couldn't add this room to the team '" + teamName + "'."
		}
		return "This room has joined the team '" + teamName + "'."
	}

	if err := h.membership.JoinTeam(event.User.Name, teamName); err != nil {
		return "Sorry, I couldn't add you to the team '" + teamName + "'."
	}
	return "You have joined the team '" + teamName + "'."
}

func (h *WebhookHandler) removeTeam(teamName string) string {
	err := h.membership.RemoveTeam(teamName)
	switch {
	case err == nil:
		return "I successfully removed the team '" + teamName + "'."
	case errors.Is(err, services.ErrTeamHasMembers):
		return "Sorry, the team '" + teamName + "' still has members."
	case errors.Is(err, services.ErrTeamHasRoom):
		return "Sorry, the team '" + teamName + "' still has a room. Run `/leave_team` in that room first."
	default:
		return "Sorry, I couldn't remove the team '" + teamName + "'."
	}
}

func (h *WebhookHandler) startStandup(externalID string) string {
	if err := h.standups.StartSession(externalID); err != nil {
		if errors.Is(err, services.ErrNoTeam) || errors.Is(err, services.ErrUserNotFound) {
			return "Sorry, you did not yet join a team. Use `/join_team NAME` to join one."
		}
		return "Sorry, I couldn't start your standup."
	}

	question, err := h.standups.CurrentQuestion(externalID)
	if err != nil || question == nil {
		return "Sorry, I could not find a standup question. Add new questions with `/add_question QUESTION`."
	}
	return "You requested to do the standup.\n\n_" + question.Text + "_"
}

func (h *WebhookHandler) reorderQuestion(externalID, arg string) string {
	idArg, orderArg, ok := utils.SplitScheduleArgs(arg)
	if !ok {
		return "Sorry, I need a question id and a new position. Use `/reorder_questions ID POSITION`."
	}
	id, errID := strconv.ParseUint(idArg, 10, 64)
	order, errOrder := strconv.Atoi(orderArg)
	if errID != nil || errOrder != nil {
		return "Sorry, I need a question id and a new position. Use `/reorder_questions ID POSITION`."
	}

	team, err := h.membership.TeamOfUser(externalID)
	if err != nil {
		return "Sorry, you did not yet join a team. Use `/join_team NAME` to join one."
	}
	if err := h.questions.ReorderQuestion(team.ID, id, order); err != nil {
		return "Sorry, I couldn't reorder your team's questions."
	}

	questions, err := h.questions.ListQuestions(team.ID)
	if err != nil {
		return "I reordered your team's questions."
	}
	return "I reordered your team's questions:\n" + formatQuestions(questions)
}

func (h *WebhookHandler) enableSchedule(externalID, arg string, enable bool, isRoom bool) string {
	verb := "enable"
	if !enable {
		verb = "disable"
	}
	if isRoom {
		return "Sorry, but this command has no effect in a room."
	}

	day, known := models.ParseWeekday(arg)
	if !known {
		return "Sorry, I couldn't " + verb + " your standup schedule for '" + arg + "'. " +
			"Use e.g. `/" + verb + "_schedule monday`."
	}
	if err := h.schedules.EnableSchedule(externalID, day, enable); err != nil {
		return "Sorry, I couldn't " + verb + " your standup schedule for '" + string(day) + "'."
	}

	if enable {
		return "Your standup schedule for '" + string(day) + "' is enabled."
	}
	return "Your standup schedule for '" + string(day) + "' is disabled."
}

func (h *WebhookHandler) handleAnswer(ctx context.Context, user dto.EventUser, text string) string {
	next, err := h.standups.RecordAnswer(user.Name, text)
	switch {
	case err == nil && next != nil:
		return "_" + next.Text + "_"
	case err == nil:
		return h.completeSession(user)
	case errors.Is(err, services.ErrSessionComplete):
		return "Your standup is already complete. Publish it with the *send answers* action, or restart with `/standup`."
	case errors.Is(err, services.ErrNoQuestions):
		return "Sorry, I could not find a standup question. Add new questions with `/add_question QUESTION`."
	default:
		return noAnswerText
	}
}

func (h *WebhookHandler) completeSession(user dto.EventUser) string {
	answers, err := h.standups.CollectedAnswers(user.Name)
	if err != nil {
		return "That was the last question."
	}
	return "That was the last question. Here is what I collected:\n" + formatAnswers(answers) +
		"\nUse the *send answers* action to publish them in your team room."
}

func (h *WebhookHandler) handleCardClicked(ctx context.Context, event dto.ChatEvent) string {
	if event.Action == nil {
		return noAnswerText
	}
	isRoom := event.Space.IsRoom()

	switch event.Action.ActionMethodName {
	case constants.ActionJoinTeam:
		return h.joinTeam(event, event.Action.Parameter(0), isRoom)

	case constants.ActionRemoveTeam:
		return h.removeTeam(event.Action.Parameter(0))

	case constants.ActionSendAnswers:
		if isRoom {
			return "Sorry, something went wrong."
		}
		return h.publishAnswers(ctx, event.User)

	case constants.ActionRemoveQuestion:
		id, err := strconv.ParseUint(event.Action.Parameter(0), 10, 64)
		if err != nil {
			return "Sorry, I couldn't remove that question."
		}
		question := event.Action.Parameter(1)
		if err := h.questions.RemoveQuestion(id); err != nil {
			return "Sorry, I couldn't remove the question '" + question + "'."
		}
		return "I removed successfully the question '" + question + "'."

	case constants.ActionReorderQuestions:
		externalID := event.User.Name
		arg := event.Action.Parameter(0) + " " + event.Action.Parameter(2)
		return h.reorderQuestion(externalID, arg)

	default:
		return noAnswerText
	}
}

// publishAnswers sends (or re-sends) today's completed answer set to the
// user's team room and records the returned message reference, so a
// republish after edits updates the earlier message in place.
func (h *WebhookHandler) publishAnswers(ctx context.Context, user dto.EventUser) string {
	answers, err := h.standups.CollectedAnswers(user.Name)
	if err != nil || len(answers) == 0 {
		return "Sorry, you did not answer any standup question today. Start with `/standup`."
	}

	team, err := h.membership.TeamOfUser(user.Name)
	if err != nil {
		return "Sorry, you did not yet join a team. Use `/join_team NAME` to join a team."
	}
	if team.Space == nil || *team.Space == "" {
		return "Sorry, your team does not have a room yet. Add me to your team room " +
			"and run `/join_team " + team.Name + "` there."
	}

	msg := chat.Message{
		Space:     *team.Space,
		Text:      "I just received the standup answers from *" + user.DisplayName + "*:\n" + formatAnswers(answers),
		ThreadKey: time.Now().Format("20060102"),
	}

	ref, err := h.standups.OutboundMessageRef(user.Name)
	if err != nil {
		return "Sorry, something went wrong."
	}

	if ref != "" {
		if err := h.sender.Update(ctx, ref, msg); err != nil {
			logging.L().WithError(err).Warn("failed to update published answers")
			return "Sorry, I couldn't reach your team room. Please try again."
		}
		return "Your standup answers have been updated in your team room."
	}

	newRef, err := h.sender.Create(ctx, msg)
	if err != nil {
		logging.L().WithError(err).Warn("failed to publish answers")
		return "Sorry, I couldn't reach your team room. Please try again."
	}
	if err := h.standups.MarkPublished(user.Name, newRef); err != nil {
		logging.L().WithError(err).Warn("failed to record message reference")
	}
	return "Your standup answers have been published in your team room."
}
