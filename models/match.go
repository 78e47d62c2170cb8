package models

import "time"

type MatchStatus string

const (
	MatchStatusUpcoming MatchStatus = "upcoming"
	MatchStatusLive     MatchStatus = "live"
	MatchStatusFinished MatchStatus = "finished"
)

// MatchType distinguishes battle-royale scoring (kills + placement across up
// to 12 teams) from 1v1 clash squad matches decided by a binary winner.
type MatchType string

const (
	MatchTypeBattleRoyale MatchType = "br"
	MatchTypeClash        MatchType = "clash"
)

// Match is a scheduled game within a Day. The engine consumes its participant
// list and updates status; scores live in separate Score records. Locked is
// independent of status and blocks score mutation while set.
type Match struct {
	ID        int         `json:"id" db:"id"`
	DayID     int         `json:"day_id" db:"day_id"`
	TeamIDs   []int       `json:"team_ids" db:"team_ids"`
	Status    MatchStatus `json:"status" db:"status"`
	Type      MatchType   `json:"type" db:"type"`
	Locked    bool        `json:"locked" db:"locked"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// HasTeam reports whether teamID is among the match participants.
func (m *Match) HasTeam(teamID int) bool {
	for _, id := range m.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
