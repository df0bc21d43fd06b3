package repository

import (
	"time"

	"github.com/example/standup-bot/internal/models"
	"gorm.io/gorm"
)

// GormScheduleRepository is a GORM implementation of ScheduleRepository
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// ListByUser lists the user's schedule rows in weekday-creation order
func (r *GormScheduleRepository) ListByUser(userID uint64) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := r.db.
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// SetEnabled flips the enabled flag on the user's weekday row
func (r *GormScheduleRepository) SetEnabled(externalID string, day models.Weekday, enabled bool) (bool, error) {
	return r.updateByUserDay(externalID, day, map[string]interface{}{"enabled": enabled})
}

// SetTime updates the trigger time on the user's weekday row
func (r *GormScheduleRepository) SetTime(externalID string, day models.Weekday, timeOfDay string) (bool, error) {
	return r.updateByUserDay(externalID, day, map[string]interface{}{"time": timeOfDay})
}

func (r *GormScheduleRepository) updateByUserDay(externalID string, day models.Weekday, values map[string]interface{}) (bool, error) {
	userSubQuery := r.db.Model(&models.User{}).
		Select("id").
		Where("external_id = ?", externalID)

	res := r.db.Model(&models.Schedule{}).
		Where("user_id = (?) AND day = ?", userSubQuery, day).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DueUsers returns every active user whose enabled schedule for the weekday
// has a trigger time <= timeOfDay and who has no entry dated today. Users
// whose session has already started are excluded, which is what keeps the
// periodic trigger from prompting the same user twice per day.
func (r *GormScheduleRepository) DueUsers(day models.Weekday, timeOfDay string) ([]models.User, error) {
	start, end := todayRange(time.Now())

	entrySubQuery := r.db.Model(&models.StandupEntry{}).
		Select("1").
		Where("standup_entries.user_id = users.id").
		Where("standup_entries.added >= ? AND standup_entries.added < ?", start, end)

	var users []models.User
	if err := r.db.Model(&models.User{}).
		Joins("JOIN schedules ON schedules.user_id = users.id AND schedules.day = ? AND schedules.enabled = ? AND schedules.time <= ?",
			day, true, timeOfDay).
		Where("users.active = ?", true).
		Where("NOT EXISTS (?)", entrySubQuery).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
