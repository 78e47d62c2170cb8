package services

import (
	"context"
	"fmt"

	"github.com/ffarena/progression/leaderboard"
	"github.com/ffarena/progression/models"
	"github.com/ffarena/progression/repositories"
	"golang.org/x/sync/errgroup"
)

type LeaderboardService interface {
	// DayLeaderboard recomputes the ranked standings for one day's matches.
	DayLeaderboard(ctx context.Context, dayID int) ([]models.LeaderboardEntry, error)
	// OverallLeaderboard aggregates every match across all days.
	OverallLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type leaderboardService struct {
	matchRepo repositories.MatchRepository
	scoreRepo repositories.ScoreRepository
	teamRepo  repositories.TeamRepository
	scoring   leaderboard.Scoring
}

func NewLeaderboardService(
	matchRepo repositories.MatchRepository,
	scoreRepo repositories.ScoreRepository,
	teamRepo repositories.TeamRepository,
) LeaderboardService {
	return &leaderboardService{
		matchRepo: matchRepo,
		scoreRepo: scoreRepo,
		teamRepo:  teamRepo,
		scoring:   leaderboard.DefaultScoring(),
	}
}

func (s *leaderboardService) compute(ctx context.Context,
	listMatches func(context.Context) ([]*models.Match, error),
	listScores func(context.Context) ([]*models.Score, error),
) ([]models.LeaderboardEntry, error) {
	var (
		matches []*models.Match
		scores  []*models.Score
		teams   []*models.Team
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = listMatches(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		scores, err = listScores(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.List(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load leaderboard inputs: %w", err)
	}

	entries := leaderboard.Compute(matches, scores, s.scoring)

	teamsByID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}
	for i := range entries {
		entries[i].Team = teamsByID[entries[i].TeamID]
	}
	return entries, nil
}

func (s *leaderboardService) DayLeaderboard(ctx context.Context, dayID int) ([]models.LeaderboardEntry, error) {
	return s.compute(ctx,
		func(ctx context.Context) ([]*models.Match, error) { return s.matchRepo.ListByDay(ctx, dayID) },
		func(ctx context.Context) ([]*models.Score, error) { return s.scoreRepo.ListByDay(ctx, dayID) },
	)
}

func (s *leaderboardService) OverallLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return s.compute(ctx,
		func(ctx context.Context) ([]*models.Match, error) { return s.matchRepo.ListAll(ctx) },
		func(ctx context.Context) ([]*models.Score, error) { return s.scoreRepo.ListAll(ctx) },
	)
}
