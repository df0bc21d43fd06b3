// The trigger job runs periodically (e.g. once per minute from cron) in a
// separate process from the webhook server. It shares nothing with the
// server but the database: which users still need a prompt today is decided
// entirely by the due-user query, so a crashed or repeated run never prompts
// anyone twice.
package main

import (
	"context"
	"time"

	"github.com/example/standup-bot/internal/chat"
	"github.com/example/standup-bot/internal/config"
	"github.com/example/standup-bot/internal/database"
	"github.com/example/standup-bot/internal/logging"
	"github.com/example/standup-bot/internal/models"
	"github.com/example/standup-bot/internal/repository"
	"github.com/example/standup-bot/internal/services"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	log := logging.L()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := database.GetDB()

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	standupRepo := repository.NewStandupRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	standupService := services.NewStandupService(standupRepo, questionRepo, userRepo)
	scheduleService := services.NewScheduleService(scheduleRepo, userRepo)

	sender := chat.NewRetryingSender(
		chat.NewHTTPSender(cfg.ChatBaseURL, cfg.ChatToken),
		chat.RetryPolicy{
			Attempts:  cfg.ChatRetryAttempts,
			BaseDelay: cfg.ChatRetryBaseDelay,
			MaxDelay:  cfg.ChatRetryMaxDelay,
		},
	)

	now := time.Now()
	day := models.Weekday(now.Weekday().String())
	timeOfDay := now.Format("15:04:05")

	users, err := scheduleService.DueUsers(day, timeOfDay)
	if err != nil {
		log.Fatalf("Failed to query due users: %v", err)
	}
	if len(users) == 0 {
		return
	}

	ctx := context.Background()
	for _, user := range users {
		if user.Space == nil || *user.Space == "" {
			continue
		}
		log.WithField("user", user.ExternalID).Info("triggering standup")

		if err := standupService.StartSession(user.ExternalID); err != nil {
			// Not applied at all; the next tick picks the user up again.
			log.WithError(err).WithField("user", user.ExternalID).
				Warn("failed to start session")
			continue
		}

		text := "*Hi " + user.Name + "!*\nIt is standup time.\n\n"
		question, err := standupService.CurrentQuestion(user.ExternalID)
		if err != nil || question == nil {
			text = "Sorry, I could not find a standup question. " +
				"Add new questions with `/add_question QUESTION`."
		} else {
			text += "_" + question.Text + "_"
		}

		if _, err := sender.Create(ctx, chat.Message{Space: *user.Space, Text: text}); err != nil {
			log.WithError(err).WithField("user", user.ExternalID).
				Warn("failed to deliver standup prompt")
		}
	}
}
