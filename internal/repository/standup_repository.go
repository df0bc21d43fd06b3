package repository

import (
	"errors"
	"time"

	"github.com/example/standup-bot/internal/models"
	"gorm.io/gorm"
)

// GormStandupRepository is a GORM implementation of StandupRepository
type GormStandupRepository struct {
	db *gorm.DB
}

// NewStandupRepository creates a new StandupRepository
func NewStandupRepository(db *gorm.DB) StandupRepository {
	return &GormStandupRepository{db: db}
}

// CreateEntry persists one session step
func (r *GormStandupRepository) CreateEntry(entry *models.StandupEntry) error {
	if entry.Added.IsZero() {
		entry.Added = time.Now()
	}
	return r.db.Create(entry).Error
}

// LatestToday returns the newest entry dated today with its question loaded
func (r *GormStandupRepository) LatestToday(userID uint64) (*models.StandupEntry, error) {
	start, end := todayRange(time.Now())

	var entry models.StandupEntry
	if err := r.db.Preload("Question").
		Where("user_id = ? AND added >= ? AND added < ?", userID, start, end).
		Order("added DESC, id DESC").
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// NextQuestion returns the team's lowest-order question above afterOrder
func (r *GormStandupRepository) NextQuestion(teamID uint64, afterOrder int) (*models.Question, error) {
	var question models.Question
	if err := r.db.
		Where("team_id = ? AND question_order > ?", teamID, afterOrder).
		Order("question_order ASC").
		First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// HasEntryToday reports whether the user has any entry dated today
func (r *GormStandupRepository) HasEntryToday(userID uint64) (bool, error) {
	start, end := todayRange(time.Now())

	var count int64
	if err := r.db.Model(&models.StandupEntry{}).
		Where("user_id = ? AND added >= ? AND added < ?", userID, start, end).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AnswersToday returns today's latest answer per real question, ascending by
// question order. If a question was somehow answered twice the most recent
// entry wins.
func (r *GormStandupRepository) AnswersToday(userID uint64) ([]StandupAnswer, error) {
	start, end := todayRange(time.Now())

	var entries []models.StandupEntry
	if err := r.db.Preload("Question").
		Joins("JOIN questions ON questions.id = standup_entries.question_id").
		Where("standup_entries.user_id = ? AND standup_entries.added >= ? AND standup_entries.added < ?", userID, start, end).
		Where("questions.question_order > ?", models.SentinelOrder).
		Order("questions.question_order ASC, standup_entries.added ASC, standup_entries.id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	// Later entries overwrite earlier ones for the same question.
	answers := make([]StandupAnswer, 0, len(entries))
	byOrder := make(map[int]int, len(entries))
	for _, entry := range entries {
		answer := ""
		if entry.Answer != nil {
			answer = *entry.Answer
		}
		if i, ok := byOrder[entry.Question.Order]; ok {
			answers[i].Answer = answer
			continue
		}
		byOrder[entry.Question.Order] = len(answers)
		answers = append(answers, StandupAnswer{
			Order:    entry.Question.Order,
			Question: entry.Question.Text,
			Answer:   answer,
		})
	}
	return answers, nil
}

// MessageRefToday returns the outbound message reference recorded today
func (r *GormStandupRepository) MessageRefToday(userID uint64) (string, error) {
	start, end := todayRange(time.Now())

	var entry models.StandupEntry
	err := r.db.
		Where("user_id = ? AND added >= ? AND added < ? AND message_ref IS NOT NULL", userID, start, end).
		Order("added DESC, id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if entry.MessageRef == nil {
		return "", nil
	}
	return *entry.MessageRef, nil
}

// SetMessageRefToday stores the outbound message reference on all of today's
// entries, overwriting any previous reference.
func (r *GormStandupRepository) SetMessageRefToday(userID uint64, ref string) (bool, error) {
	start, end := todayRange(time.Now())

	res := r.db.Model(&models.StandupEntry{}).
		Where("user_id = ? AND added >= ? AND added < ?", userID, start, end).
		Update("message_ref", ref)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
