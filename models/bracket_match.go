package models

import "time"

// Bracket rounds for the 8-team single-elimination stage.
const (
	RoundQuarterfinal = 1
	RoundSemifinal    = 2
	RoundFinal        = 3
)

// BracketMatch is one slot of a Day's single-elimination bracket. Team1ID and
// Team2ID stay nil until seeded or fed by an earlier round's winner. The
// feeds-into relationship is stored explicitly: the winner of this match is
// written to slot NextSlot of the match identified by NextMatchUID within the
// same day. The final (round 3) has no propagation target.
type BracketMatch struct {
	ID           int         `json:"id" db:"id"`
	DayID        int         `json:"day_id" db:"day_id"`
	UID          string      `json:"uid" db:"uid"`
	Round        int         `json:"round" db:"round"`
	Slot         int         `json:"slot" db:"slot"`
	Team1ID      *int        `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID      *int        `json:"team2_id,omitempty" db:"team2_id"`
	WinnerID     *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status       MatchStatus `json:"status" db:"status"`
	NextMatchUID *string     `json:"next_match_uid,omitempty" db:"next_match_uid"`
	NextSlot     *int        `json:"next_slot,omitempty" db:"next_slot"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// HasTeam reports whether teamID occupies one of the two slots.
func (m *BracketMatch) HasTeam(teamID int) bool {
	if m.Team1ID != nil && *m.Team1ID == teamID {
		return true
	}
	if m.Team2ID != nil && *m.Team2ID == teamID {
		return true
	}
	return false
}
