// Package leaderboard computes ranked per-team aggregates from raw match
// scores. It is a pure projection over Score records: nothing here is cached
// or persisted, so the leaderboard can never drift from the scores it was
// computed from.
package leaderboard

import (
	"sort"

	"github.com/ffarena/progression/models"
)

// Scoring holds the point configuration applied to every scored match.
// PlacementTable is indexed by placement-1; placements beyond the table earn
// no placement points.
type Scoring struct {
	KillPointValue int
	PlacementTable []int
}

// DefaultScoring is the standard 12-team battle-royale table: 12 points for
// the Booyah down to 1 point for 10th, nothing below.
func DefaultScoring() Scoring {
	return Scoring{
		KillPointValue: 1,
		PlacementTable: []int{12, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 0},
	}
}

// PlacementPoints returns the points awarded for a finishing position.
// Placement 0 (unrecorded) and out-of-table placements earn zero.
func (s Scoring) PlacementPoints(placement int) int {
	if placement < 1 || placement > len(s.PlacementTable) {
		return 0
	}
	return s.PlacementTable[placement-1]
}

type scoreKey struct {
	matchID int
	teamID  int
}

// Compute aggregates scores for the given matches into a ranked leaderboard.
//
// The participant universe is the union of team ids across the matches: a
// team with no match in scope does not appear at all, while a participant
// with no recorded Score appears with zero aggregates. A Score for a team
// that is not listed in its match's participants is ignored.
//
// Entries are ordered by total points, then total kills, then total placement
// points, all descending; remaining ties keep first-seen participant order.
func Compute(matches []*models.Match, scores []*models.Score, scoring Scoring) []models.LeaderboardEntry {
	inScope := make(map[int]bool, len(matches))
	for _, m := range matches {
		inScope[m.ID] = true
	}

	byKey := make(map[scoreKey]*models.Score, len(scores))
	for _, sc := range scores {
		if !inScope[sc.MatchID] {
			continue
		}
		byKey[scoreKey{sc.MatchID, sc.TeamID}] = sc
	}

	entryIdx := make(map[int]int)
	entries := make([]models.LeaderboardEntry, 0)

	for _, m := range matches {
		for _, teamID := range m.TeamIDs {
			idx, ok := entryIdx[teamID]
			if !ok {
				idx = len(entries)
				entryIdx[teamID] = idx
				entries = append(entries, models.LeaderboardEntry{TeamID: teamID})
			}

			sc, ok := byKey[scoreKey{m.ID, teamID}]
			if !ok {
				// No score recorded yet, the match does not count as played.
				continue
			}

			placementPoints := scoring.PlacementPoints(sc.Placement)
			e := &entries[idx]
			e.MatchesPlayed++
			e.TotalKills += sc.Kills
			e.TotalPlacementPoints += placementPoints
			e.TotalPoints += sc.Kills*scoring.KillPointValue + placementPoints
			if sc.Placement == 1 {
				e.BooyahCount++
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		if entries[i].TotalKills != entries[j].TotalKills {
			return entries[i].TotalKills > entries[j].TotalKills
		}
		return entries[i].TotalPlacementPoints > entries[j].TotalPlacementPoints
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// FilterByDay returns the subset of matches belonging to dayID, preserving order.
func FilterByDay(matches []*models.Match, dayID int) []*models.Match {
	filtered := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.DayID == dayID {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
