package repository

import (
	"github.com/example/standup-bot/internal/models"
	"gorm.io/gorm"
)

// GormQuestionRepository is a GORM implementation of QuestionRepository
type GormQuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &GormQuestionRepository{db: db}
}

// ListByTeam lists the real questions of the team ascending by order
func (r *GormQuestionRepository) ListByTeam(teamID uint64) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.
		Where("team_id = ? AND question_order > ?", teamID, models.SentinelOrder).
		Order("question_order ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// FindByID finds a question by ID
func (r *GormQuestionRepository) FindByID(id uint64) (*models.Question, error) {
	var question models.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// FindSentinel finds the team's order-0 marker question
func (r *GormQuestionRepository) FindSentinel(teamID uint64) (*models.Question, error) {
	var question models.Question
	if err := r.db.
		Where("team_id = ? AND question_order = ?", teamID, models.SentinelOrder).
		First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// Append inserts a question at max(order)+1 for the team. Appending is the
// only path that keeps orders contiguous; deletes may leave gaps behind.
func (r *GormQuestionRepository) Append(teamID uint64, text string) (*models.Question, error) {
	question := &models.Question{TeamID: teamID, Text: text}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var last models.Question
		if err := tx.
			Where("team_id = ?", teamID).
			Order("question_order DESC").
			First(&last).Error; err != nil {
			// Includes ErrRecordNotFound: a team without even the
			// sentinel row cannot take questions.
			return err
		}

		question.Order = last.Order + 1
		return tx.Create(question).Error
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

// Delete deletes a question by id. Remaining orders are not renumbered.
func (r *GormQuestionRepository) Delete(id uint64) (bool, error) {
	res := r.db.Delete(&models.Question{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Reorder moves a question to newOrder inside a single transaction. Every
// question at order >= newOrder shifts up by one first, processed from the
// highest order down so the (team, order) unique index never trips.
func (r *GormQuestionRepository) Reorder(teamID, questionID uint64, newOrder int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint64
		if err := tx.Model(&models.Question{}).
			Where("team_id = ? AND question_order >= ?", teamID, newOrder).
			Order("question_order DESC").
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		for _, id := range ids {
			if err := tx.Model(&models.Question{}).
				Where("id = ?", id).
				UpdateColumn("question_order", gorm.Expr("question_order + 1")).Error; err != nil {
				return err
			}
		}

		res := tx.Model(&models.Question{}).
			Where("id = ? AND team_id = ?", questionID, teamID).
			UpdateColumn("question_order", newOrder)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
