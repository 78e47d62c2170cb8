package services

import "errors"

// Shared errors used across services and the HTTP mapping. Three classes:
// validation (bad input, rejected verbatim), precondition (illegal state
// transition, state unchanged) and lock violations (distinct so the caller
// can present "unlock first").
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrDayNameRequired        = errors.New("day name is required")
	ErrDayQualifyCountInvalid = errors.New("day qualify count must be positive")
	ErrMatchParticipantsRange = errors.New("match requires between 2 and 12 participating teams")
	ErrMatchTypeInvalid       = errors.New("invalid match type provided")
	ErrScoreKillsNegative     = errors.New("kills must not be negative")
	ErrScorePlacementRange    = errors.New("placement must be 0 or within the match participant count")
	ErrTeamNotInMatch         = errors.New("team is not a participant of this match")
	ErrWinnerNotInMatch       = errors.New("winner must be one of the two bracket match teams")
	ErrGroupNameRequired      = errors.New("group name is required")
	ErrDayStatusInvalid       = errors.New("invalid day status provided")
	ErrMatchStatusInvalid     = errors.New("invalid match status provided")

	// Preconditions
	ErrDayInvalidTransition    = errors.New("invalid day status transition")
	ErrMatchInvalidTransition  = errors.New("invalid match status transition")
	ErrBracketAlreadyExists    = errors.New("bracket already initialized for this day, reset it first")
	ErrBracketNotInitialized   = errors.New("bracket is not initialized for this day")
	ErrBracketMatchNotUpcoming = errors.New("bracket match has already started")
	ErrBracketMatchFinished    = errors.New("bracket match is already decided")
	ErrBracketSlotEmpty        = errors.New("bracket match is missing a participant")
	ErrBracketSlotTaken        = errors.New("next round slot is already taken by another winner")

	// Lock violations
	ErrDayLocked   = errors.New("day is locked, unlock it before editing")
	ErrMatchLocked = errors.New("match is locked, unlock it before editing")

	// Entity lookups
	ErrTeamNotFound         = errors.New("team not found")
	ErrDayNotFound          = errors.New("day not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrScoreNotFound        = errors.New("score not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrBracketMatchNotFound = errors.New("bracket match not found")
)
