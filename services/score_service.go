package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ffarena/progression/brackets"
	"github.com/ffarena/progression/models"
	"github.com/ffarena/progression/repositories"
)

type ScoreService interface {
	// UpsertScore records or overwrites the single score for (match, team).
	// Placement 0 means not yet recorded; otherwise it must fall within the
	// match's participant count.
	UpsertScore(ctx context.Context, matchID, teamID, kills, placement int) (*models.Score, error)
	DeleteScore(ctx context.Context, matchID, teamID int) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.Score, error)
	ListByDay(ctx context.Context, dayID int) ([]*models.Score, error)
}

type scoreService struct {
	txRunner  repositories.TxRunner
	scoreRepo repositories.ScoreRepository
	matchRepo repositories.MatchRepository
	dayRepo   repositories.DayRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewScoreService(
	txRunner repositories.TxRunner,
	scoreRepo repositories.ScoreRepository,
	matchRepo repositories.MatchRepository,
	dayRepo repositories.DayRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) ScoreService {
	return &scoreService{
		txRunner:  txRunner,
		scoreRepo: scoreRepo,
		matchRepo: matchRepo,
		dayRepo:   dayRepo,
		hub:       hub,
		logger:    logger,
	}
}

// loadMutableMatch fetches the match and its day and runs the lock guards.
func (s *scoreService) loadMutableMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	day, err := s.dayRepo.GetByID(ctx, exec, match.DayID)
	if err != nil {
		if errors.Is(err, repositories.ErrDayNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	if err := guardMatchMutable(day, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *scoreService) UpsertScore(ctx context.Context, matchID, teamID, kills, placement int) (*models.Score, error) {
	if kills < 0 {
		return nil, ErrScoreKillsNegative
	}

	var score *models.Score
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.loadMutableMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if !match.HasTeam(teamID) {
			return ErrTeamNotInMatch
		}
		if placement < 0 || placement > len(match.TeamIDs) {
			return fmt.Errorf("%w: got %d for a %d-team match", ErrScorePlacementRange, placement, len(match.TeamIDs))
		}

		score = &models.Score{MatchID: matchID, TeamID: teamID, Kills: kills, Placement: placement}
		return s.scoreRepo.Upsert(ctx, exec, score)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("score upserted",
		slog.Int("match_id", matchID),
		slog.Int("team_id", teamID),
		slog.Int("kills", kills),
		slog.Int("placement", placement))
	if s.hub != nil {
		if match, err := s.matchRepo.GetByID(ctx, nil, matchID); err == nil {
			s.hub.BroadcastToDay(match.DayID, brackets.EventLeaderboardUpdated, score)
		}
	}
	return score, nil
}

func (s *scoreService) DeleteScore(ctx context.Context, matchID, teamID int) error {
	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.loadMutableMatch(ctx, exec, matchID); err != nil {
			return err
		}
		if err := s.scoreRepo.Delete(ctx, exec, matchID, teamID); err != nil {
			if errors.Is(err, repositories.ErrScoreNotFound) {
				return ErrScoreNotFound
			}
			return err
		}
		return nil
	})
}

func (s *scoreService) ListByMatch(ctx context.Context, matchID int) ([]*models.Score, error) {
	scores, err := s.scoreRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores for match %d: %w", matchID, err)
	}
	return scores, nil
}

func (s *scoreService) ListByDay(ctx context.Context, dayID int) ([]*models.Score, error) {
	scores, err := s.scoreRepo.ListByDay(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores for day %d: %w", dayID, err)
	}
	return scores, nil
}
