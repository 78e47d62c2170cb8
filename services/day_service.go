package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ffarena/progression/brackets"
	"github.com/ffarena/progression/leaderboard"
	"github.com/ffarena/progression/models"
	"github.com/ffarena/progression/repositories"
	"golang.org/x/sync/errgroup"
)

// dayTransitions is the lifecycle table: upcoming → active ⇄ paused,
// active → completed ⇄ active (explicit reopen), completed → locked
// (terminal).
var dayTransitions = map[models.DayStatus][]models.DayStatus{
	models.DayStatusUpcoming:  {models.DayStatusActive},
	models.DayStatusActive:    {models.DayStatusPaused, models.DayStatusCompleted},
	models.DayStatusPaused:    {models.DayStatusActive},
	models.DayStatusCompleted: {models.DayStatusActive, models.DayStatusLocked},
	models.DayStatusLocked:    {},
}

// DayTransitionResult carries the updated day plus, when the transition was
// to completed, the qualified team ids in seed order.
type DayTransitionResult struct {
	Day       *models.Day `json:"day"`
	Qualified []int       `json:"qualified,omitempty"`
}

type DayService interface {
	CreateDay(ctx context.Context, sequence int, name string, qualifyCount int) (*models.Day, error)
	GetDay(ctx context.Context, id int) (*models.Day, error)
	ListDays(ctx context.Context) ([]*models.Day, error)
	// ChangeStatus validates and applies one lifecycle transition.
	// Completing a day resolves qualification first; if too few teams have
	// recorded participation the transition is rejected and nothing changes.
	ChangeStatus(ctx context.Context, dayID int, next models.DayStatus) (*DayTransitionResult, error)
	// QualifiedTeams recomputes the day's qualification from current scores.
	QualifiedTeams(ctx context.Context, dayID int) ([]int, error)
	CreateGroup(ctx context.Context, dayID int, name string, teamIDs []int) (*models.Group, error)
	ListGroups(ctx context.Context, dayID int) ([]*models.Group, error)
	DeleteGroup(ctx context.Context, groupID int) error
}

type dayService struct {
	txRunner  repositories.TxRunner
	dayRepo   repositories.DayRepository
	matchRepo repositories.MatchRepository
	scoreRepo repositories.ScoreRepository
	groupRepo repositories.GroupRepository
	scoring   leaderboard.Scoring
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewDayService(
	txRunner repositories.TxRunner,
	dayRepo repositories.DayRepository,
	matchRepo repositories.MatchRepository,
	scoreRepo repositories.ScoreRepository,
	groupRepo repositories.GroupRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) DayService {
	return &dayService{
		txRunner:  txRunner,
		dayRepo:   dayRepo,
		matchRepo: matchRepo,
		scoreRepo: scoreRepo,
		groupRepo: groupRepo,
		scoring:   leaderboard.DefaultScoring(),
		hub:       hub,
		logger:    logger,
	}
}

func (s *dayService) CreateDay(ctx context.Context, sequence int, name string, qualifyCount int) (*models.Day, error) {
	if name == "" {
		return nil, ErrDayNameRequired
	}
	if qualifyCount <= 0 {
		return nil, ErrDayQualifyCountInvalid
	}

	day := &models.Day{
		Sequence:     sequence,
		Name:         name,
		Status:       models.DayStatusUpcoming,
		QualifyCount: qualifyCount,
	}
	if err := s.dayRepo.Create(ctx, nil, day); err != nil {
		return nil, fmt.Errorf("failed to create day: %w", err)
	}
	return day, nil
}

func (s *dayService) GetDay(ctx context.Context, id int) (*models.Day, error) {
	day, err := s.dayRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDayNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	return day, nil
}

func (s *dayService) ListDays(ctx context.Context) ([]*models.Day, error) {
	days, err := s.dayRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list days: %w", err)
	}
	return days, nil
}

func isValidDayStatus(status models.DayStatus) bool {
	_, ok := dayTransitions[status]
	return ok
}

func canTransition(from, to models.DayStatus) bool {
	for _, allowed := range dayTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *dayService) ChangeStatus(ctx context.Context, dayID int, next models.DayStatus) (*DayTransitionResult, error) {
	if !isValidDayStatus(next) {
		return nil, ErrDayStatusInvalid
	}

	var result *DayTransitionResult
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		day, err := s.dayRepo.GetByID(ctx, exec, dayID)
		if err != nil {
			if errors.Is(err, repositories.ErrDayNotFound) {
				return ErrDayNotFound
			}
			return err
		}

		if day.Status == models.DayStatusLocked {
			return ErrDayLocked
		}
		if !canTransition(day.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrDayInvalidTransition, day.Status, next)
		}

		result = &DayTransitionResult{}
		switch next {
		case models.DayStatusActive:
			if day.Status == models.DayStatusUpcoming && day.StartTime == nil {
				now := timeNow()
				day.StartTime = &now
			}
			// Reopening a completed day discards its end timestamp; the
			// qualification outcome is a pure projection and needs no undo.
			if day.Status == models.DayStatusCompleted {
				day.EndTime = nil
			}
		case models.DayStatusCompleted:
			qualified, err := s.resolveQualification(ctx, day)
			if err != nil {
				return err
			}
			now := timeNow()
			day.EndTime = &now
			result.Qualified = qualified
		}

		day.Status = next
		if err := s.dayRepo.UpdateLifecycle(ctx, exec, day); err != nil {
			return err
		}
		result.Day = day
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("day status changed",
		slog.Int("day_id", dayID),
		slog.String("status", string(next)))
	if s.hub != nil {
		s.hub.BroadcastToDay(dayID, brackets.EventDayUpdated, result)
	}
	return result, nil
}

// resolveQualification computes the qualified-team list from current scores.
func (s *dayService) resolveQualification(ctx context.Context, day *models.Day) ([]int, error) {
	var (
		matches []*models.Match
		scores  []*models.Score
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByDay(gCtx, day.ID)
		return err
	})
	g.Go(func() error {
		var err error
		scores, err = s.scoreRepo.ListByDay(gCtx, day.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load day %d data for qualification: %w", day.ID, err)
	}

	entries := leaderboard.Compute(matches, scores, s.scoring)
	return leaderboard.Qualified(entries, day.QualifyCount)
}

func (s *dayService) QualifiedTeams(ctx context.Context, dayID int) ([]int, error) {
	day, err := s.GetDay(ctx, dayID)
	if err != nil {
		return nil, err
	}
	return s.resolveQualification(ctx, day)
}

func (s *dayService) CreateGroup(ctx context.Context, dayID int, name string, teamIDs []int) (*models.Group, error) {
	if name == "" {
		return nil, ErrGroupNameRequired
	}
	day, err := s.GetDay(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if day.Status == models.DayStatusLocked {
		return nil, ErrDayLocked
	}

	group := &models.Group{DayID: dayID, Name: name, TeamIDs: teamIDs}
	if err := s.groupRepo.Create(ctx, nil, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

func (s *dayService) ListGroups(ctx context.Context, dayID int) ([]*models.Group, error) {
	groups, err := s.groupRepo.ListByDay(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for day %d: %w", dayID, err)
	}
	return groups, nil
}

func (s *dayService) DeleteGroup(ctx context.Context, groupID int) error {
	if err := s.groupRepo.Delete(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	return nil
}
