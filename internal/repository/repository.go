package repository

import (
	"time"

	"github.com/example/standup-bot/internal/models"
)

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// CreateWithSentinel creates a team together with its hidden order-0
	// question within a single transaction.
	CreateWithSentinel(team *models.Team) error

	// FindByID finds a team by ID
	FindByID(id uint64) (*models.Team, error)

	// FindByName finds a team by its unique display name
	FindByName(name string) (*models.Team, error)

	// FindByUserExternalID finds the team a user currently belongs to
	FindByUserExternalID(externalID string) (*models.Team, error)

	// List lists all teams ordered by name
	List() ([]models.Team, error)

	// CountMembers counts users currently referencing the team
	CountMembers(teamID uint64) (int64, error)

	// DeleteWithQuestions deletes a team and its questions atomically
	DeleteWithQuestions(id uint64) error

	// BindSpace binds a room to the team, stealing it from any other team
	// first. Fails with ErrTeamBound if the team already has a different
	// room. The whole sequence is one transaction.
	BindSpace(teamID uint64, space string) error

	// ReleaseSpace clears the binding of a room wherever it is bound.
	// Reports whether any team was actually holding it.
	ReleaseSpace(space string) (bool, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Upsert creates or refreshes a user keyed by external identifier,
	// always reactivating it. First-time creation also seeds the seven
	// per-weekday schedule rows inside the same transaction.
	Upsert(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByExternalID finds a user by its stable external identifier
	FindByExternalID(externalID string) (*models.User, error)

	// List lists users ordered by name, optionally restricted to a team name
	List(teamName string) ([]models.User, error)

	// SetTeam assigns or clears (nil) the user's team reference.
	// Reports whether a matching user row existed.
	SetTeam(externalID string, teamID *uint64) (bool, error)

	// Disable soft-deletes the user: active off, team reference cleared.
	// Reports whether a matching user row existed.
	Disable(externalID string) (bool, error)
}

// QuestionRepository defines the interface for the per-team question list
type QuestionRepository interface {
	// ListByTeam lists the real questions (order > 0) ascending by order
	ListByTeam(teamID uint64) ([]models.Question, error)

	// FindByID finds a question by ID
	FindByID(id uint64) (*models.Question, error)

	// FindSentinel finds the team's order-0 marker question
	FindSentinel(teamID uint64) (*models.Question, error)

	// Append inserts a question at max(order)+1 for the team. Fails with
	// gorm.ErrRecordNotFound when the team has no question rows at all
	// (the sentinel is missing).
	Append(teamID uint64, text string) (*models.Question, error)

	// Delete deletes a question by id without renumbering the remaining
	// orders; gaps are left behind. Reports whether a row existed.
	Delete(id uint64) (bool, error)

	// Reorder moves a question to newOrder, shifting every question at
	// order >= newOrder up by one first (highest order first, to dodge the
	// unique index). The whole sequence runs in one transaction.
	Reorder(teamID, questionID uint64, newOrder int) error
}

// StandupAnswer is one (question, answer) pair of a day's collected session.
type StandupAnswer struct {
	Order    int
	Question string
	Answer   string
}

// StandupRepository defines the interface for daily session entries
type StandupRepository interface {
	// CreateEntry persists one session step
	CreateEntry(entry *models.StandupEntry) error

	// LatestToday returns the newest entry dated today with its question,
	// or gorm.ErrRecordNotFound when the user has not started today.
	LatestToday(userID uint64) (*models.StandupEntry, error)

	// NextQuestion returns the lowest-order question of the team with
	// order > afterOrder, or gorm.ErrRecordNotFound when none remains.
	NextQuestion(teamID uint64, afterOrder int) (*models.Question, error)

	// HasEntryToday reports whether the user has any entry dated today
	HasEntryToday(userID uint64) (bool, error)

	// AnswersToday returns today's latest answer per real question,
	// ascending by question order. The sentinel entry is excluded.
	AnswersToday(userID uint64) ([]StandupAnswer, error)

	// MessageRefToday returns the outbound message reference recorded on
	// today's session, or "" when it has not been published.
	MessageRefToday(userID uint64) (string, error)

	// SetMessageRefToday stores (or overwrites) the outbound message
	// reference on all of today's entries. Reports whether any entry
	// existed today.
	SetMessageRefToday(userID uint64, ref string) (bool, error)
}

// ScheduleRepository defines the interface for per-weekday trigger schedules
type ScheduleRepository interface {
	// ListByUser lists the user's schedule rows in weekday-creation order
	ListByUser(userID uint64) ([]models.Schedule, error)

	// SetEnabled flips the enabled flag for the user's weekday row.
	// Reports whether a matching row existed.
	SetEnabled(externalID string, day models.Weekday, enabled bool) (bool, error)

	// SetTime updates the trigger time for the user's weekday row.
	// Reports whether a matching row existed.
	SetTime(externalID string, day models.Weekday, timeOfDay string) (bool, error)

	// DueUsers returns active users whose enabled schedule for the weekday
	// has a trigger time <= timeOfDay and who have no entry dated today.
	// No ordering is guaranteed.
	DueUsers(day models.Weekday, timeOfDay string) ([]models.User, error)
}

// todayRange bounds the current calendar date as [start, end).
func todayRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
