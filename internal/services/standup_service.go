package services

import (
	"errors"
	"fmt"

	"github.com/example/standup-bot/internal/logging"
	"github.com/example/standup-bot/internal/models"
	"github.com/example/standup-bot/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSessionNotStarted = errors.New("no standup session in progress today")
	ErrSessionComplete   = errors.New("today's standup session is already complete")
	ErrNoQuestions       = errors.New("no questions configured for the team")
)

// SessionState is the derived position of a user's session today. It is never
// stored; both the webhook process and the trigger job recompute it from the
// entry rows dated today.
type SessionState string

const (
	SessionNotStarted SessionState = "not_started"
	SessionInProgress SessionState = "in_progress"
	SessionComplete   SessionState = "complete"
	SessionPublished  SessionState = "published"
)

// StandupService walks users through their team's question sequence, one
// calendar day at a time.
type StandupService struct {
	standupRepo  repository.StandupRepository
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
}

// NewStandupService creates a new StandupService.
func NewStandupService(standupRepo repository.StandupRepository, questionRepo repository.QuestionRepository, userRepo repository.UserRepository) *StandupService {
	return &StandupService{
		standupRepo:  standupRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
	}
}

func (s *StandupService) teamUser(externalID string) (*models.User, error) {
	user, err := s.userRepo.FindByExternalID(externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.TeamID == nil {
		return nil, ErrNoTeam
	}
	return user, nil
}

// StartSession records the hidden order-0 entry that opens today's session.
// Calling it again mid-session restarts the walk from the beginning; the
// earlier entries remain but the latest entry wins.
func (s *StandupService) StartSession(externalID string) error {
	user, err := s.teamUser(externalID)
	if err != nil {
		return err
	}

	sentinel, err := s.questionRepo.FindSentinel(*user.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoQuestions
		}
		return fmt.Errorf("failed to find sentinel question: %w", err)
	}

	entry := &models.StandupEntry{
		UserID:     user.ID,
		QuestionID: sentinel.ID,
	}
	if err := s.standupRepo.CreateEntry(entry); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	logging.L().WithField("user", externalID).Info("started standup session")
	return nil
}

// PreviousQuestion returns the question the latest entry today points at,
// i.e. the question that was last asked (or the sentinel right after a
// restart).
func (s *StandupService) PreviousQuestion(externalID string) (*models.Question, error) {
	user, err := s.teamUser(externalID)
	if err != nil {
		return nil, err
	}

	entry, err := s.standupRepo.LatestToday(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotStarted
		}
		return nil, fmt.Errorf("failed to find latest entry: %w", err)
	}
	return &entry.Question, nil
}

// CurrentQuestion returns the next unanswered question after the latest
// entry today. A nil question with a nil error means today's session is
// complete. A team without any real questions reports ErrNoQuestions.
func (s *StandupService) CurrentQuestion(externalID string) (*models.Question, error) {
	user, err := s.teamUser(externalID)
	if err != nil {
		return nil, err
	}

	entry, err := s.standupRepo.LatestToday(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotStarted
		}
		return nil, fmt.Errorf("failed to find latest entry: %w", err)
	}

	next, err := s.standupRepo.NextQuestion(*user.TeamID, entry.Question.Order)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if entry.Question.IsSentinel() {
				return nil, ErrNoQuestions
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find next question: %w", err)
	}
	return next, nil
}

// RecordAnswer stores text as the answer to the question currently being
// asked and advances the walk. It returns the new current question, or nil
// when the session just completed.
func (s *StandupService) RecordAnswer(externalID, text string) (*models.Question, error) {
	user, err := s.teamUser(externalID)
	if err != nil {
		return nil, err
	}

	current, err := s.CurrentQuestion(externalID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrSessionComplete
	}

	entry := &models.StandupEntry{
		UserID:     user.ID,
		QuestionID: current.ID,
		Answer:     &text,
	}
	if err := s.standupRepo.CreateEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	next, err := s.standupRepo.NextQuestion(*user.TeamID, current.Order)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find next question: %w", err)
	}
	return next, nil
}

// CollectedAnswers returns today's (question, answer) pairs in question
// order, the most recent entry winning per question.
func (s *StandupService) CollectedAnswers(externalID string) ([]repository.StandupAnswer, error) {
	user, err := s.teamUser(externalID)
	if err != nil {
		return nil, err
	}

	answers, err := s.standupRepo.AnswersToday(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect answers: %w", err)
	}
	return answers, nil
}

// OutboundMessageRef returns the message reference stored on today's
// session, or "" when it has not been published yet.
func (s *StandupService) OutboundMessageRef(externalID string) (string, error) {
	user, err := s.teamUser(externalID)
	if err != nil {
		return "", err
	}

	ref, err := s.standupRepo.MessageRefToday(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to read message reference: %w", err)
	}
	return ref, nil
}

// MarkPublished stores the outbound message reference on today's entries.
// Publishing again with a new reference overwrites the old one.
func (s *StandupService) MarkPublished(externalID, ref string) error {
	user, err := s.teamUser(externalID)
	if err != nil {
		return err
	}

	ok, err := s.standupRepo.SetMessageRefToday(user.ID, ref)
	if err != nil {
		return fmt.Errorf("failed to mark session published: %w", err)
	}
	if !ok {
		return ErrSessionNotStarted
	}
	return nil
}

// State derives the user's session state for today.
func (s *StandupService) State(externalID string) (SessionState, error) {
	current, err := s.CurrentQuestion(externalID)
	if err != nil {
		if errors.Is(err, ErrSessionNotStarted) {
			return SessionNotStarted, nil
		}
		return "", err
	}
	if current != nil {
		return SessionInProgress, nil
	}

	ref, err := s.OutboundMessageRef(externalID)
	if err != nil {
		return "", err
	}
	if ref != "" {
		return SessionPublished, nil
	}
	return SessionComplete, nil
}
