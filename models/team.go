package models

import "time"

// Team is referenced by id from matches, scores, groups and bracket slots.
// Rename is the only mutation after creation.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Tag       string    `json:"tag" db:"tag"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
