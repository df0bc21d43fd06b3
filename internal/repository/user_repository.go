package repository

import (
	"errors"
	"fmt"

	"github.com/example/standup-bot/internal/constants"
	"github.com/example/standup-bot/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateUser is returned when inserting the user row fails inside the upsert transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateSchedules is returned when seeding the default schedule rows fails inside the upsert transaction.
	ErrCreateSchedules = errors.New("user repository: create default schedules failed")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Upsert creates or refreshes a user keyed by external id, reactivating it.
// A brand new user also gets one schedule row per weekday, Monday through
// Friday enabled, all inside the same transaction.
func (r *GormUserRepository) Upsert(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("external_id = ?", user.ExternalID).First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Updates(map[string]interface{}{
				"name":       user.Name,
				"email":      user.Email,
				"avatar_url": user.AvatarURL,
				"space":      user.Space,
				"active":     true,
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user.Active = true
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		schedules := make([]models.Schedule, len(models.Weekdays))
		for i, day := range models.Weekdays {
			schedules[i] = models.Schedule{
				UserID:  user.ID,
				Day:     day,
				Time:    constants.DefaultScheduleTime,
				Enabled: i < constants.DefaultEnabledDays,
			}
		}
		if err := tx.Create(&schedules).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateSchedules, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByExternalID finds a user by its stable external identifier
func (r *GormUserRepository) FindByExternalID(externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List lists users ordered by name, optionally restricted to one team
func (r *GormUserRepository) List(teamName string) ([]models.User, error) {
	var users []models.User
	query := r.db.Preload("Team").Order("users.name ASC")
	if teamName != "" {
		query = query.
			Joins("JOIN teams ON teams.id = users.team_id").
			Where("teams.name = ?", teamName)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetTeam assigns or clears the user's team reference
func (r *GormUserRepository) SetTeam(externalID string, teamID *uint64) (bool, error) {
	res := r.db.Model(&models.User{}).
		Where("external_id = ?", externalID).
		Update("team_id", teamID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Disable soft-deletes the user: active off, team reference cleared
func (r *GormUserRepository) Disable(externalID string) (bool, error) {
	res := r.db.Model(&models.User{}).
		Where("external_id = ?", externalID).
		Updates(map[string]interface{}{
			"active":  false,
			"team_id": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
