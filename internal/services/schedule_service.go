package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/standup-bot/internal/models"
	"github.com/example/standup-bot/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrScheduleNotFound = errors.New("no schedule for that user and weekday")
	ErrInvalidTime      = errors.New("time must be in HH:MM:SS form")
)

// ScheduleService answers "who is due now" for the periodic trigger job and
// manages the per-weekday trigger configuration.
type ScheduleService struct {
	scheduleRepo repository.ScheduleRepository
	userRepo     repository.UserRepository
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(scheduleRepo repository.ScheduleRepository, userRepo repository.UserRepository) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
	}
}

// DueUsers returns the active users whose enabled schedule for the weekday
// has passed and who have not started a session today. Repeated calls within
// one day never return a user again once their session has started, which is
// the only duplicate-prompt protection there is. No order is guaranteed.
func (s *ScheduleService) DueUsers(day models.Weekday, timeOfDay string) ([]models.User, error) {
	if !validTimeOfDay(timeOfDay) {
		return nil, ErrInvalidTime
	}

	users, err := s.scheduleRepo.DueUsers(day, timeOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query due users: %w", err)
	}
	return users, nil
}

// EnableSchedule flips the enabled flag of the user's weekday schedule.
func (s *ScheduleService) EnableSchedule(externalID string, day models.Weekday, enabled bool) error {
	ok, err := s.scheduleRepo.SetEnabled(externalID, day, enabled)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if !ok {
		return ErrScheduleNotFound
	}
	return nil
}

// SetScheduleTime updates the trigger time of the user's weekday schedule.
func (s *ScheduleService) SetScheduleTime(externalID string, day models.Weekday, timeOfDay string) error {
	if !validTimeOfDay(timeOfDay) {
		return ErrInvalidTime
	}

	ok, err := s.scheduleRepo.SetTime(externalID, day, timeOfDay)
	if err != nil {
		return fmt.Errorf("failed to update schedule time: %w", err)
	}
	if !ok {
		return ErrScheduleNotFound
	}
	return nil
}

// ListSchedules lists the user's seven weekday schedules.
func (s *ScheduleService) ListSchedules(externalID string) ([]models.Schedule, error) {
	user, err := s.userRepo.FindByExternalID(externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	schedules, err := s.scheduleRepo.ListByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// validTimeOfDay accepts fixed-width 24h "HH:MM:SS" strings. The fixed width
// is what makes the lexicographic comparison in the due-user query correct.
func validTimeOfDay(s string) bool {
	if len(s) != 8 {
		return false
	}
	_, err := time.Parse("15:04:05", s)
	return err == nil
}
