package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ffarena/progression/models"
	"github.com/ffarena/progression/repositories"
)

// matchTransitions: upcoming → live → finished, no regress.
var matchTransitions = map[models.MatchStatus][]models.MatchStatus{
	models.MatchStatusUpcoming: {models.MatchStatusLive},
	models.MatchStatusLive:     {models.MatchStatusFinished},
	models.MatchStatusFinished: {},
}

type MatchService interface {
	CreateMatch(ctx context.Context, dayID int, teamIDs []int, matchType models.MatchType) (*models.Match, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	ListByDay(ctx context.Context, dayID int) ([]*models.Match, error)
	ChangeStatus(ctx context.Context, matchID int, next models.MatchStatus) (*models.Match, error)
	// SetLocked toggles the per-match admin lock, independent of status.
	SetLocked(ctx context.Context, matchID int, locked bool) (*models.Match, error)
	DeleteMatch(ctx context.Context, matchID int) error
}

type matchService struct {
	txRunner  repositories.TxRunner
	matchRepo repositories.MatchRepository
	dayRepo   repositories.DayRepository
	logger    *slog.Logger
}

func NewMatchService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	dayRepo repositories.DayRepository,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		txRunner:  txRunner,
		matchRepo: matchRepo,
		dayRepo:   dayRepo,
		logger:    logger,
	}
}

func (s *matchService) getDay(ctx context.Context, exec repositories.SQLExecutor, dayID int) (*models.Day, error) {
	day, err := s.dayRepo.GetByID(ctx, exec, dayID)
	if err != nil {
		if errors.Is(err, repositories.ErrDayNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	return day, nil
}

func (s *matchService) CreateMatch(ctx context.Context, dayID int, teamIDs []int, matchType models.MatchType) (*models.Match, error) {
	if len(teamIDs) < 2 || len(teamIDs) > 12 {
		return nil, ErrMatchParticipantsRange
	}
	if matchType != models.MatchTypeBattleRoyale && matchType != models.MatchTypeClash {
		return nil, ErrMatchTypeInvalid
	}

	day, err := s.getDay(ctx, nil, dayID)
	if err != nil {
		return nil, err
	}
	if err := guardDayMutable(day); err != nil {
		return nil, err
	}

	match := &models.Match{
		DayID:   dayID,
		TeamIDs: teamIDs,
		Status:  models.MatchStatusUpcoming,
		Type:    matchType,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByDay(ctx context.Context, dayID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByDay(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for day %d: %w", dayID, err)
	}
	return matches, nil
}

func (s *matchService) ChangeStatus(ctx context.Context, matchID int, next models.MatchStatus) (*models.Match, error) {
	if _, ok := matchTransitions[next]; !ok {
		return nil, ErrMatchStatusInvalid
	}

	var match *models.Match
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		match, err = s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		day, err := s.getDay(ctx, exec, match.DayID)
		if err != nil {
			return err
		}
		if err := guardMatchMutable(day, match); err != nil {
			return err
		}

		allowed := false
		for _, to := range matchTransitions[match.Status] {
			if to == next {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: %s -> %s", ErrMatchInvalidTransition, match.Status, next)
		}

		match.Status = next
		return s.matchRepo.UpdateStatus(ctx, exec, matchID, next)
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) SetLocked(ctx context.Context, matchID int, locked bool) (*models.Match, error) {
	var match *models.Match
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		match, err = s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		day, err := s.getDay(ctx, exec, match.DayID)
		if err != nil {
			return err
		}
		// Unlocking must stay possible on a locked match; only the day-level
		// lock is absolute here.
		if err := guardDayMutable(day); err != nil {
			return err
		}

		match.Locked = locked
		return s.matchRepo.SetLocked(ctx, exec, matchID, locked)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("match lock changed", slog.Int("match_id", matchID), slog.Bool("locked", locked))
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, matchID int) error {
	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		day, err := s.getDay(ctx, exec, match.DayID)
		if err != nil {
			return err
		}
		if err := guardMatchMutable(day, match); err != nil {
			return err
		}
		return s.matchRepo.Delete(ctx, exec, matchID)
	})
}
