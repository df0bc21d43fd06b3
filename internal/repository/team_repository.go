package repository

import (
	"errors"

	"github.com/example/standup-bot/internal/models"
	"gorm.io/gorm"
)

// ErrTeamBound is returned by BindSpace when the team already has a different
// room bound to it.
var ErrTeamBound = errors.New("team repository: team already bound to a room")

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateWithSentinel creates the team and its order-0 marker question atomically.
func (r *GormTeamRepository) CreateWithSentinel(team *models.Team) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		sentinel := models.Question{
			TeamID: team.ID,
			Text:   "",
			Order:  models.SentinelOrder,
		}
		return tx.Create(&sentinel).Error
	})
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByName finds a team by its unique display name
func (r *GormTeamRepository) FindByName(name string) (*models.Team, error) {
	var team models.Team
	if err := r.db.Where("name = ?", name).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByUserExternalID finds the team of the user with the given external id
func (r *GormTeamRepository) FindByUserExternalID(externalID string) (*models.Team, error) {
	var team models.Team
	if err := r.db.
		Joins("JOIN users ON users.team_id = teams.id").
		Where("users.external_id = ?", externalID).
		First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List lists all teams ordered by name
func (r *GormTeamRepository) List() ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Order("name ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// CountMembers counts users currently referencing the team
func (r *GormTeamRepository) CountMembers(teamID uint64) (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).
		Where("team_id = ?", teamID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteWithQuestions deletes the team and its questions in one transaction
func (r *GormTeamRepository) DeleteWithQuestions(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Team{}, id).Error
	})
}

// BindSpace binds a room to the team within a single transaction. A room may
// move from one team to another, but a team never trades its room implicitly.
func (r *GormTeamRepository) BindSpace(teamID uint64, space string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, teamID).Error; err != nil {
			return err
		}
		if team.Space != nil && *team.Space != "" && *team.Space != space {
			return ErrTeamBound
		}

		// Steal the room from whichever team currently holds it.
		if err := tx.Model(&models.Team{}).
			Where("space = ?", space).
			Update("space", nil).Error; err != nil {
			return err
		}

		return tx.Model(&models.Team{}).
			Where("id = ?", teamID).
			Update("space", space).Error
	})
}

// ReleaseSpace clears the binding of a room wherever it is bound
func (r *GormTeamRepository) ReleaseSpace(space string) (bool, error) {
	res := r.db.Model(&models.Team{}).
		Where("space = ?", space).
		Update("space", nil)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
