package models

// LeaderboardEntry is a derived aggregate over Scores for one team within a
// scope (a single day or the whole tournament). It is recomputed on demand
// and never stored; Rank is the 1-based position after sorting.
type LeaderboardEntry struct {
	TeamID               int   `json:"team_id"`
	MatchesPlayed        int   `json:"matches_played"`
	TotalKills           int   `json:"total_kills"`
	TotalPlacementPoints int   `json:"total_placement_points"`
	TotalPoints          int   `json:"total_points"`
	BooyahCount          int   `json:"booyah_count"`
	Rank                 int   `json:"rank"`
	Team                 *Team `json:"team,omitempty"`
}
