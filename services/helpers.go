package services

import (
	"time"

	"github.com/ffarena/progression/models"
)

// timeNow is indirected so lifecycle timestamps are testable.
var timeNow = time.Now

// guardDayMutable is the single lock check every mutating operation runs
// before touching records under a day. The lock is cooperative: it lives in
// the write path, not in storage ACLs, so keeping it in one place is what
// stops a new mutation path from forgetting it.
func guardDayMutable(day *models.Day) error {
	if day.Status == models.DayStatusLocked {
		return ErrDayLocked
	}
	return nil
}

// guardMatchMutable layers the per-match admin lock on top of the day lock.
func guardMatchMutable(day *models.Day, match *models.Match) error {
	if err := guardDayMutable(day); err != nil {
		return err
	}
	if match.Locked {
		return ErrMatchLocked
	}
	return nil
}
