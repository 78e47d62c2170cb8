package models

import "time"

// DayStatus mirrors the ENUM in the database.
type DayStatus string

const (
	DayStatusUpcoming  DayStatus = "upcoming"
	DayStatusActive    DayStatus = "active"
	DayStatusPaused    DayStatus = "paused"
	DayStatusCompleted DayStatus = "completed"
	DayStatusLocked    DayStatus = "locked"
)

// Day is one competition stage of the tournament. Completing a day triggers
// qualification of the top QualifyCount teams into the next stage; locking it
// freezes every score and bracket record underneath it.
type Day struct {
	ID           int        `json:"id" db:"id"`
	Sequence     int        `json:"sequence" db:"sequence"`
	Name         string     `json:"name" db:"name"`
	Status       DayStatus  `json:"status" db:"status"`
	QualifyCount int        `json:"qualify_count" db:"qualify_count"`
	StartTime    *time.Time `json:"start_time,omitempty" db:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty" db:"end_time"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
