package leaderboard

import (
	"errors"

	"github.com/ffarena/progression/models"
)

// ErrInsufficientQualifiers is returned when fewer teams have recorded match
// participation than the day is configured to advance.
var ErrInsufficientQualifiers = errors.New("not enough participating teams to fill the qualification cutoff")

// Qualified truncates an already-ranked leaderboard to the top qualifyCount
// team ids, preserving rank order. The returned slice is the exact seed order
// for the next stage's bracket: index 0 is seed 1.
//
// Teams that appear in the leaderboard but have no recorded score do not
// count toward the cutoff; qualifying on empty data would seed a bracket
// from nothing.
func Qualified(entries []models.LeaderboardEntry, qualifyCount int) ([]int, error) {
	if qualifyCount <= 0 {
		return nil, errors.New("qualify count must be positive")
	}

	participating := 0
	for _, e := range entries {
		if e.MatchesPlayed > 0 {
			participating++
		}
	}
	if participating < qualifyCount {
		return nil, ErrInsufficientQualifiers
	}

	qualified := make([]int, 0, qualifyCount)
	for _, e := range entries {
		if len(qualified) == qualifyCount {
			break
		}
		qualified = append(qualified, e.TeamID)
	}
	return qualified, nil
}
