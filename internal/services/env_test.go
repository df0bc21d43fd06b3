package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/standup-bot/internal/database"
	"github.com/example/standup-bot/internal/models"
	"github.com/example/standup-bot/internal/repository"
)

type serviceTestEnv struct {
	db         *gorm.DB
	membership *MembershipService
	questions  *QuestionService
	standups   *StandupService
	schedules  *ScheduleService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return serviceTestEnv{
		db:         db,
		membership: NewMembershipService(teamRepo, userRepo),
		questions:  NewQuestionService(questionRepo, teamRepo),
		standups:   NewStandupService(standupRepo, questionRepo, userRepo),
		schedules:  NewScheduleService(scheduleRepo, userRepo),
	}
}

// createTestUser registers a user through the upsert path, so the default
// schedules exist, and optionally joins it to a team.
func createTestUser(t *testing.T, env serviceTestEnv, externalID, teamName string) *models.User {
	t.Helper()

	space := "spaces/dm-" + externalID
	user, err := env.membership.UpsertUser(UpsertUserInput{
		ExternalID: externalID,
		Name:       "User " + externalID,
		Email:      externalID + "@example.com",
		Space:      space,
	})
	require.NoError(t, err)

	if teamName != "" {
		require.NoError(t, env.membership.JoinTeam(externalID, teamName))
	}
	return user
}

// createTestTeam creates a team with the given real questions.
func createTestTeam(t *testing.T, env serviceTestEnv, name string, questions ...string) *models.Team {
	t.Helper()

	team, err := env.membership.AddTeam(name)
	require.NoError(t, err)
	for _, text := range questions {
		_, err := env.questions.AddQuestion(team.ID, text)
		require.NoError(t, err)
	}
	return team
}

func questionOrders(questions []models.Question) []int {
	orders := make([]int, len(questions))
	for i, q := range questions {
		orders[i] = q.Order
	}
	return orders
}
