package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ffarena/progression/models"
	"github.com/ffarena/progression/repositories"
)

type TeamService interface {
	CreateTeam(ctx context.Context, name, tag string) (*models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	RenameTeam(ctx context.Context, id int, name, tag string) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
}

func NewTeamService(teamRepo repositories.TeamRepository) TeamService {
	return &teamService{teamRepo: teamRepo}
}

func (s *teamService) CreateTeam(ctx context.Context, name, tag string) (*models.Team, error) {
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	team := &models.Team{Name: name, Tag: tag}
	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return s.teamRepo.List(ctx)
}

func (s *teamService) RenameTeam(ctx context.Context, id int, name, tag string) (*models.Team, error) {
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	if err := s.teamRepo.UpdateName(ctx, id, name, tag); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return s.GetTeam(ctx, id)
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	return nil
}
