package models

import "time"

// Group is a named lobby of teams within a Day, used for scheduling only.
// It carries no scoring weight and the engine never reads it.
type Group struct {
	ID        int       `json:"id" db:"id"`
	DayID     int       `json:"day_id" db:"day_id"`
	Name      string    `json:"name" db:"name"`
	TeamIDs   []int     `json:"team_ids" db:"team_ids"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
