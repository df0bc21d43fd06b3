package handlers

import (
	"fmt"
	"strings"

	"github.com/example/standup-bot/internal/models"
	"github.com/example/standup-bot/internal/repository"
)

// Text list rendering for chat replies. Richer card markup belongs to the
// rendering collaborator, not here.

func formatTeams(teams []models.Team) string {
	var b strings.Builder
	for _, team := range teams {
		b.WriteString("- " + team.Name)
		if team.Space != nil && *team.Space != "" {
			b.WriteString(" (room bound)")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatUsers(users []models.User) string {
	var b strings.Builder
	for _, user := range users {
		b.WriteString("- " + user.Name)
		if user.Team != nil {
			b.WriteString(" (" + user.Team.Name + ")")
		}
		if !user.Active {
			b.WriteString(" [inactive]")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatQuestions(questions []models.Question) string {
	var b strings.Builder
	for _, q := range questions {
		fmt.Fprintf(&b, "%d. %s (id %d)\n", q.Order, q.Text, q.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSchedules(schedules []models.Schedule) string {
	var b strings.Builder
	for _, s := range schedules {
		state := "enabled"
		if !s.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(&b, "- %s at %s (%s)\n", s.Day, s.Time, state)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAnswers(answers []repository.StandupAnswer) string {
	var b strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&b, "*%s*\n%s\n", a.Question, a.Answer)
	}
	return strings.TrimRight(b.String(), "\n")
}
