package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/standup-bot/internal/models"
	"github.com/example/standup-bot/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionExists   = errors.New("the team already has that question")
	ErrInvalidQuestion  = errors.New("question text cannot be empty")
	ErrInvalidOrder     = errors.New("question order must be at least 1")
	ErrNoTeam           = errors.New("user has not joined a team")
)

// QuestionService maintains the per-team ordered question list.
type QuestionService struct {
	questionRepo repository.QuestionRepository
	teamRepo     repository.TeamRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo repository.QuestionRepository, teamRepo repository.TeamRepository) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		teamRepo:     teamRepo,
	}
}

// ListQuestions returns the team's real questions ascending by order. The
// order-0 marker is never included.
func (s *QuestionService) ListQuestions(teamID uint64) ([]models.Question, error) {
	questions, err := s.questionRepo.ListByTeam(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// ListQuestionsForUser resolves the user's team and lists its questions.
func (s *QuestionService) ListQuestionsForUser(externalID string) ([]models.Question, error) {
	team, err := s.teamRepo.FindByUserExternalID(externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoTeam
		}
		return nil, fmt.Errorf("failed to find team of user: %w", err)
	}
	return s.ListQuestions(team.ID)
}

// AddQuestion appends a question at the end of the team's list.
func (s *QuestionService) AddQuestion(teamID uint64, text string) (*models.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidQuestion
	}

	question, err := s.questionRepo.Append(teamID, text)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrQuestionExists
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Not even the sentinel row exists for this team.
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to add question: %w", err)
	}
	return question, nil
}

// AddQuestionForUser resolves the user's team and appends a question to it.
func (s *QuestionService) AddQuestionForUser(externalID, text string) (*models.Question, error) {
	team, err := s.teamRepo.FindByUserExternalID(externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoTeam
		}
		return nil, fmt.Errorf("failed to find team of user: %w", err)
	}
	return s.AddQuestion(team.ID, text)
}

// RemoveQuestion deletes a question by id. The remaining orders are left as
// they are; only appending keeps the sequence contiguous.
func (s *QuestionService) RemoveQuestion(questionID uint64) error {
	ok, err := s.questionRepo.Delete(questionID)
	if err != nil {
		return fmt.Errorf("failed to remove question: %w", err)
	}
	if !ok {
		return ErrQuestionNotFound
	}
	return nil
}

// ReorderQuestion moves a question to newOrder, shifting everything at or
// above that order up by one.
func (s *QuestionService) ReorderQuestion(teamID, questionID uint64, newOrder int) error {
	if newOrder <= models.SentinelOrder {
		return ErrInvalidOrder
	}

	if err := s.questionRepo.Reorder(teamID, questionID, newOrder); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to reorder question: %w", err)
	}
	return nil
}
