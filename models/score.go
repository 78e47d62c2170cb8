package models

import "time"

// Score is the single record per (match, team) pair that the leaderboard is
// computed from. Placement 0 means "not yet recorded"; otherwise it is the
// team's finishing position within the match, 1..participant count.
type Score struct {
	ID        int       `json:"id" db:"id"`
	MatchID   int       `json:"match_id" db:"match_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Kills     int       `json:"kills" db:"kills"`
	Placement int       `json:"placement" db:"placement"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
