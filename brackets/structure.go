// Package brackets builds the single-elimination structure for a day's
// knockout stage and carries the live-update hub that pushes bracket and
// leaderboard changes to connected clients.
package brackets

import (
	"errors"
	"fmt"

	"github.com/ffarena/progression/models"
)

// SeedCount is the fixed bracket size: 4 quarterfinals, 2 semifinals, 1 final.
const SeedCount = 8

var (
	ErrSeedCount     = errors.New("bracket requires exactly 8 seeds")
	ErrDuplicateSeed = errors.New("bracket seeds must be distinct teams")
)

// quarterfinalSeeding maps each round-1 slot to its pair of seed positions
// (1-based). The 1-8/4-5/2-7/3-6 layout keeps the top two seeds in opposite
// halves, so they cannot meet before the final. Swapping the seeding policy
// means swapping this table; the state machine never looks at seed numbers.
var quarterfinalSeeding = [4][2]int{
	{1, 8},
	{4, 5},
	{2, 7},
	{3, 6},
}

// MatchUID names a bracket slot within a day, e.g. "R1M3" for the third
// quarterfinal. UIDs are deterministic, so the feeds-into links can be built
// before anything is persisted.
func MatchUID(round, slot int) string {
	return fmt.Sprintf("R%dM%d", round, slot)
}

// Build creates the full 7-match structure for a day from an ordered seed
// list (index 0 = seed 1, the qualification order of the previous stage).
// Quarterfinals are populated from the seeding table; semifinals and the
// final start with empty slots. Every match except the final carries an
// explicit propagation target: winners of round-1 matches 1 and 2 feed the
// first semifinal's two slots, matches 3 and 4 the second, and the semifinal
// winners feed the final.
func Build(dayID int, seeds []int) ([]*models.BracketMatch, error) {
	if len(seeds) != SeedCount {
		return nil, ErrSeedCount
	}
	seen := make(map[int]bool, SeedCount)
	for _, teamID := range seeds {
		if seen[teamID] {
			return nil, ErrDuplicateSeed
		}
		seen[teamID] = true
	}

	matches := make([]*models.BracketMatch, 0, 7)

	for i, pair := range quarterfinalSeeding {
		slot := i + 1
		team1 := seeds[pair[0]-1]
		team2 := seeds[pair[1]-1]
		nextUID := MatchUID(models.RoundSemifinal, (slot+1)/2)
		nextSlot := 2 - slot%2 // odd slots feed slot 1, even slots slot 2

		matches = append(matches, &models.BracketMatch{
			DayID:        dayID,
			UID:          MatchUID(models.RoundQuarterfinal, slot),
			Round:        models.RoundQuarterfinal,
			Slot:         slot,
			Team1ID:      &team1,
			Team2ID:      &team2,
			Status:       models.MatchStatusUpcoming,
			NextMatchUID: &nextUID,
			NextSlot:     &nextSlot,
		})
	}

	finalUID := MatchUID(models.RoundFinal, 1)
	for slot := 1; slot <= 2; slot++ {
		nextSlot := slot
		matches = append(matches, &models.BracketMatch{
			DayID:        dayID,
			UID:          MatchUID(models.RoundSemifinal, slot),
			Round:        models.RoundSemifinal,
			Slot:         slot,
			Status:       models.MatchStatusUpcoming,
			NextMatchUID: &finalUID,
			NextSlot:     &nextSlot,
		})
	}

	matches = append(matches, &models.BracketMatch{
		DayID:  dayID,
		UID:    finalUID,
		Round:  models.RoundFinal,
		Slot:   1,
		Status: models.MatchStatusUpcoming,
	})

	return matches, nil
}
