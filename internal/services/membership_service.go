package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/standup-bot/internal/logging"
	"github.com/example/standup-bot/internal/models"
	"github.com/example/standup-bot/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrTeamExists      = errors.New("a team with that name already exists")
	ErrTeamHasMembers  = errors.New("team still has members")
	ErrTeamHasRoom     = errors.New("team still has a room bound")
	ErrInvalidTeamName = errors.New("team name cannot be empty")
	ErrUserNotFound    = errors.New("user not found")
	ErrRoomNotBound    = errors.New("room is not bound to any team")
)

// MembershipService provides team, room, and user lifecycle logic.
type MembershipService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *MembershipService {
	return &MembershipService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// AddTeam creates a team together with its hidden order-0 question. The new
// team has no real questions yet.
func (s *MembershipService) AddTeam(name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidTeamName
	}

	if _, err := s.teamRepo.FindByName(name); err == nil {
		return nil, ErrTeamExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}

	team := &models.Team{Name: name}
	if err := s.teamRepo.CreateWithSentinel(team); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeamExists
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	logging.L().WithField("team", name).Info("created team")
	return team, nil
}

// RemoveTeam deletes a team and its questions. It declines while any user
// still references the team or a room is still bound to it.
func (s *MembershipService) RemoveTeam(name string) error {
	team, err := s.teamRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}

	members, err := s.teamRepo.CountMembers(team.ID)
	if err != nil {
		return fmt.Errorf("failed to count team members: %w", err)
	}
	if members > 0 {
		return ErrTeamHasMembers
	}
	if team.Space != nil && *team.Space != "" {
		return ErrTeamHasRoom
	}

	if err := s.teamRepo.DeleteWithQuestions(team.ID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	logging.L().WithField("team", name).Info("removed team")
	return nil
}

// ListTeams returns all teams ordered by name.
func (s *MembershipService) ListTeams() ([]models.Team, error) {
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// JoinTeam assigns the named team to the user.
func (s *MembershipService) JoinTeam(externalID, teamName string) error {
	team, err := s.teamRepo.FindByName(teamName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}

	ok, err := s.userRepo.SetTeam(externalID, &team.ID)
	if err != nil {
		return fmt.Errorf("failed to join team: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// LeaveTeam clears the user's team reference.
func (s *MembershipService) LeaveTeam(externalID string) error {
	ok, err := s.userRepo.SetTeam(externalID, nil)
	if err != nil {
		return fmt.Errorf("failed to leave team: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// BindRoom binds a room to the named team. The room is first released from
// any other team; a team that already holds a different room declines.
func (s *MembershipService) BindRoom(teamName, space string) error {
	team, err := s.teamRepo.FindByName(teamName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}

	if err := s.teamRepo.BindSpace(team.ID, space); err != nil {
		if errors.Is(err, repository.ErrTeamBound) {
			return ErrTeamHasRoom
		}
		return fmt.Errorf("failed to bind room: %w", err)
	}

	logging.L().WithField("team", teamName).WithField("space", space).Info("bound room to team")
	return nil
}

// UnbindRoom clears the binding of a room wherever it is bound.
func (s *MembershipService) UnbindRoom(space string) error {
	ok, err := s.teamRepo.ReleaseSpace(space)
	if err != nil {
		return fmt.Errorf("failed to unbind room: %w", err)
	}
	if !ok {
		return ErrRoomNotBound
	}
	return nil
}

// UpsertUserInput carries the user descriptor of an "added to space" event.
type UpsertUserInput struct {
	ExternalID string
	Name       string
	Email      string
	AvatarURL  string
	Space      string
}

// UpsertUser creates or refreshes a user keyed by external identifier. New
// users get their default weekday schedules in the same unit of work.
func (s *MembershipService) UpsertUser(input UpsertUserInput) (*models.User, error) {
	if strings.TrimSpace(input.ExternalID) == "" {
		return nil, ErrUserNotFound
	}

	user := &models.User{
		ExternalID: input.ExternalID,
		Name:       input.Name,
		Email:      input.Email,
		AvatarURL:  input.AvatarURL,
	}
	if input.Space != "" {
		user.Space = &input.Space
	}

	if err := s.userRepo.Upsert(user); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	logging.L().WithField("user", input.ExternalID).Info("added or refreshed user")
	return s.userRepo.FindByExternalID(input.ExternalID)
}

// DisableUser soft-deletes the user on a "removed from space" event.
func (s *MembershipService) DisableUser(externalID string) error {
	ok, err := s.userRepo.Disable(externalID)
	if err != nil {
		return fmt.Errorf("failed to disable user: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}

	logging.L().WithField("user", externalID).Info("disabled user")
	return nil
}

// ListUsers lists users ordered by name, optionally restricted to one team.
func (s *MembershipService) ListUsers(teamName string) ([]models.User, error) {
	users, err := s.userRepo.List(teamName)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// TeamOfUser returns the team the user currently belongs to.
func (s *MembershipService) TeamOfUser(externalID string) (*models.Team, error) {
	team, err := s.teamRepo.FindByUserExternalID(externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team of user: %w", err)
	}
	return team, nil
}
