package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ffarena/progression/brackets"
	"github.com/ffarena/progression/models"
	"github.com/ffarena/progression/repositories"
	"golang.org/x/sync/errgroup"
)

// BracketRound groups one round's matches for the snapshot payload.
type BracketRound struct {
	Round   int                    `json:"round"`
	Matches []*models.BracketMatch `json:"matches"`
}

// BracketSnapshot is the outward view of a day's knockout stage: rounds in
// order plus the champion once the final is decided.
type BracketSnapshot struct {
	DayID      int            `json:"day_id"`
	Rounds     []BracketRound `json:"rounds"`
	ChampionID *int           `json:"champion_id,omitempty"`
	Teams      []*models.Team `json:"teams,omitempty"`
}

type BracketService interface {
	// InitializeBracket seeds a day's bracket from the ordered qualification
	// list. Fails if the day already has a bracket; reset first.
	InitializeBracket(ctx context.Context, dayID int, seeds []int) ([]*models.BracketMatch, error)
	// StartMatch moves an upcoming match with both slots populated to live.
	StartMatch(ctx context.Context, bracketMatchID int) (*models.BracketMatch, error)
	// SetWinnerAndAdvance decides a match and propagates the winner into its
	// next-round slot in the same transaction. Deciding straight from
	// upcoming is accepted; re-deciding a finished match is not.
	SetWinnerAndAdvance(ctx context.Context, bracketMatchID int, winnerID int) (*models.BracketMatch, error)
	// ResetBracket removes the whole bracket for a day. Irreversible.
	ResetBracket(ctx context.Context, dayID int) error
	// Champion returns the final's winner, nil until decided.
	Champion(ctx context.Context, dayID int) (*int, error)
	Snapshot(ctx context.Context, dayID int) (*BracketSnapshot, error)
}

type bracketService struct {
	txRunner    repositories.TxRunner
	bracketRepo repositories.BracketMatchRepository
	dayRepo     repositories.DayRepository
	teamRepo    repositories.TeamRepository
	hub         *brackets.Hub
	logger      *slog.Logger
}

func NewBracketService(
	txRunner repositories.TxRunner,
	bracketRepo repositories.BracketMatchRepository,
	dayRepo repositories.DayRepository,
	teamRepo repositories.TeamRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		txRunner:    txRunner,
		bracketRepo: bracketRepo,
		dayRepo:     dayRepo,
		teamRepo:    teamRepo,
		hub:         hub,
		logger:      logger,
	}
}

func (s *bracketService) loadMutableDay(ctx context.Context, exec repositories.SQLExecutor, dayID int) (*models.Day, error) {
	day, err := s.dayRepo.GetByID(ctx, exec, dayID)
	if err != nil {
		if errors.Is(err, repositories.ErrDayNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	if err := guardDayMutable(day); err != nil {
		return nil, err
	}
	return day, nil
}

func (s *bracketService) InitializeBracket(ctx context.Context, dayID int, seeds []int) ([]*models.BracketMatch, error) {
	structure, err := brackets.Build(dayID, seeds)
	if err != nil {
		return nil, err
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.loadMutableDay(ctx, exec, dayID); err != nil {
			return err
		}
		count, err := s.bracketRepo.CountByDay(ctx, exec, dayID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrBracketAlreadyExists
		}
		return s.bracketRepo.CreateAll(ctx, exec, structure)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket initialized", slog.Int("day_id", dayID), slog.Any("seeds", seeds))
	if s.hub != nil {
		s.hub.BroadcastToDay(dayID, brackets.EventBracketUpdated, structure)
	}
	return structure, nil
}

func (s *bracketService) getBracketMatch(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.BracketMatch, error) {
	match, err := s.bracketRepo.GetByID(ctx, exec, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBracketMatchNotFound) {
			return nil, ErrBracketMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *bracketService) StartMatch(ctx context.Context, bracketMatchID int) (*models.BracketMatch, error) {
	var match *models.BracketMatch
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		match, err = s.getBracketMatch(ctx, exec, bracketMatchID)
		if err != nil {
			return err
		}
		if _, err := s.loadMutableDay(ctx, exec, match.DayID); err != nil {
			return err
		}
		switch match.Status {
		case models.MatchStatusFinished:
			return ErrBracketMatchFinished
		case models.MatchStatusLive:
			return ErrBracketMatchNotUpcoming
		}
		if match.Team1ID == nil || match.Team2ID == nil {
			return ErrBracketSlotEmpty
		}

		match.Status = models.MatchStatusLive
		return s.bracketRepo.UpdateStatus(ctx, exec, bracketMatchID, models.MatchStatusLive)
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToDay(match.DayID, brackets.EventBracketUpdated, match)
	}
	return match, nil
}

func (s *bracketService) SetWinnerAndAdvance(ctx context.Context, bracketMatchID int, winnerID int) (*models.BracketMatch, error) {
	var (
		match    *models.BracketMatch
		champion bool
	)
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		match, err = s.getBracketMatch(ctx, exec, bracketMatchID)
		if err != nil {
			return err
		}
		if _, err := s.loadMutableDay(ctx, exec, match.DayID); err != nil {
			return err
		}
		if match.Status == models.MatchStatusFinished {
			return ErrBracketMatchFinished
		}
		if match.Team1ID == nil || match.Team2ID == nil {
			return ErrBracketSlotEmpty
		}
		if !match.HasTeam(winnerID) {
			return ErrWinnerNotInMatch
		}

		if match.NextMatchUID == nil {
			// The final: nothing to feed, the day gets its champion.
			if err := s.bracketRepo.SetWinner(ctx, exec, bracketMatchID, winnerID, models.MatchStatusFinished); err != nil {
				return err
			}
			match.WinnerID = &winnerID
			match.Status = models.MatchStatusFinished
			champion = true
			return nil
		}

		// Validate the propagation target before writing anything, so the
		// winner-set and the slot-fill land together or not at all.
		next, err := s.bracketRepo.GetByDayAndUID(ctx, exec, match.DayID, *match.NextMatchUID)
		if err != nil {
			if errors.Is(err, repositories.ErrBracketMatchNotFound) {
				return fmt.Errorf("%w: propagation target %s missing", ErrBracketNotInitialized, *match.NextMatchUID)
			}
			return err
		}

		var occupant *int
		switch *match.NextSlot {
		case 1:
			occupant = next.Team1ID
		case 2:
			occupant = next.Team2ID
		}
		if occupant != nil && *occupant != winnerID {
			// A different winner already advanced into this slot; refusing
			// here is what keeps racing decisions from clobbering it.
			return ErrBracketSlotTaken
		}

		if err := s.bracketRepo.SetWinner(ctx, exec, bracketMatchID, winnerID, models.MatchStatusFinished); err != nil {
			return err
		}
		match.WinnerID = &winnerID
		match.Status = models.MatchStatusFinished

		if occupant != nil {
			return nil
		}
		return s.bracketRepo.SetTeamSlot(ctx, exec, next.ID, *match.NextSlot, winnerID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket match decided",
		slog.Int("bracket_match_id", bracketMatchID),
		slog.String("uid", match.UID),
		slog.Int("winner_id", winnerID))
	if s.hub != nil {
		s.hub.BroadcastToDay(match.DayID, brackets.EventBracketUpdated, match)
		if champion {
			s.hub.BroadcastToDay(match.DayID, brackets.EventChampionDecided, winnerID)
		}
	}
	return match, nil
}

func (s *bracketService) ResetBracket(ctx context.Context, dayID int) error {
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.loadMutableDay(ctx, exec, dayID); err != nil {
			return err
		}
		return s.bracketRepo.DeleteByDay(ctx, exec, dayID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("bracket reset", slog.Int("day_id", dayID))
	if s.hub != nil {
		s.hub.BroadcastToDay(dayID, brackets.EventBracketUpdated, nil)
	}
	return nil
}

func (s *bracketService) Champion(ctx context.Context, dayID int) (*int, error) {
	final, err := s.bracketRepo.GetByDayAndUID(ctx, nil, dayID, brackets.MatchUID(models.RoundFinal, 1))
	if err != nil {
		if errors.Is(err, repositories.ErrBracketMatchNotFound) {
			return nil, ErrBracketNotInitialized
		}
		return nil, err
	}
	return final.WinnerID, nil
}

func (s *bracketService) Snapshot(ctx context.Context, dayID int) (*BracketSnapshot, error) {
	var (
		matches []*models.BracketMatch
		teams   []*models.Team
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.bracketRepo.ListByDay(gCtx, dayID)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.List(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load bracket snapshot for day %d: %w", dayID, err)
	}
	if len(matches) == 0 {
		return nil, ErrBracketNotInitialized
	}

	snapshot := &BracketSnapshot{DayID: dayID, Teams: teams}
	byRound := map[int][]*models.BracketMatch{}
	for _, m := range matches {
		byRound[m.Round] = append(byRound[m.Round], m)
		if m.Round == models.RoundFinal && m.WinnerID != nil {
			snapshot.ChampionID = m.WinnerID
		}
	}
	for round := models.RoundQuarterfinal; round <= models.RoundFinal; round++ {
		snapshot.Rounds = append(snapshot.Rounds, BracketRound{Round: round, Matches: byRound[round]})
	}
	return snapshot, nil
}
