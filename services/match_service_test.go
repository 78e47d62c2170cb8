package services

import (
	"context"
	"testing"

	"github.com/ffarena/progression/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchFixture struct {
	days    *fakeDayRepo
	matches *fakeMatchRepo
	service MatchService
	dayID   int
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()
	days := newFakeDayRepo()
	matches := newFakeMatchRepo()
	service := NewMatchService(fakeTxRunner{}, matches, days, testLogger())

	day := &models.Day{Sequence: 1, Name: "Qualifiers", Status: models.DayStatusActive, QualifyCount: 8}
	require.NoError(t, days.Create(context.Background(), nil, day))
	return &matchFixture{days: days, matches: matches, service: service, dayID: day.ID}
}

func TestCreateMatch(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	match, err := f.service.CreateMatch(ctx, f.dayID, []int{10, 11, 12}, models.MatchTypeBattleRoyale)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusUpcoming, match.Status)
	assert.False(t, match.Locked)
}

func TestCreateMatchValidation(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateMatch(ctx, f.dayID, []int{10}, models.MatchTypeBattleRoyale)
	assert.ErrorIs(t, err, ErrMatchParticipantsRange)

	thirteen := make([]int, 13)
	for i := range thirteen {
		thirteen[i] = 10 + i
	}
	_, err = f.service.CreateMatch(ctx, f.dayID, thirteen, models.MatchTypeBattleRoyale)
	assert.ErrorIs(t, err, ErrMatchParticipantsRange)

	_, err = f.service.CreateMatch(ctx, f.dayID, []int{10, 11}, models.MatchType("ranked"))
	assert.ErrorIs(t, err, ErrMatchTypeInvalid)

	_, err = f.service.CreateMatch(ctx, 99, []int{10, 11}, models.MatchTypeClash)
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestMatchStatusProgression(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	match, err := f.service.CreateMatch(ctx, f.dayID, []int{10, 11}, models.MatchTypeClash)
	require.NoError(t, err)

	// Skipping live is not allowed.
	_, err = f.service.ChangeStatus(ctx, match.ID, models.MatchStatusFinished)
	assert.ErrorIs(t, err, ErrMatchInvalidTransition)

	updated, err := f.service.ChangeStatus(ctx, match.ID, models.MatchStatusLive)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusLive, updated.Status)

	updated, err = f.service.ChangeStatus(ctx, match.ID, models.MatchStatusFinished)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusFinished, updated.Status)

	// Finished is terminal.
	_, err = f.service.ChangeStatus(ctx, match.ID, models.MatchStatusLive)
	assert.ErrorIs(t, err, ErrMatchInvalidTransition)

	_, err = f.service.ChangeStatus(ctx, match.ID, models.MatchStatus("cancelled"))
	assert.ErrorIs(t, err, ErrMatchStatusInvalid)
}

func TestSetLocked(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	match, err := f.service.CreateMatch(ctx, f.dayID, []int{10, 11}, models.MatchTypeClash)
	require.NoError(t, err)

	locked, err := f.service.SetLocked(ctx, match.ID, true)
	require.NoError(t, err)
	assert.True(t, locked.Locked)

	// The per-match lock blocks status changes but not its own release.
	_, err = f.service.ChangeStatus(ctx, match.ID, models.MatchStatusLive)
	assert.ErrorIs(t, err, ErrMatchLocked)

	unlocked, err := f.service.SetLocked(ctx, match.ID, false)
	require.NoError(t, err)
	assert.False(t, unlocked.Locked)

	_, err = f.service.ChangeStatus(ctx, match.ID, models.MatchStatusLive)
	assert.NoError(t, err)
}

func TestMatchOperationsRespectDayLock(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	match, err := f.service.CreateMatch(ctx, f.dayID, []int{10, 11}, models.MatchTypeClash)
	require.NoError(t, err)

	day, err := f.days.GetByID(ctx, nil, f.dayID)
	require.NoError(t, err)
	day.Status = models.DayStatusLocked
	require.NoError(t, f.days.UpdateLifecycle(ctx, nil, day))

	_, err = f.service.CreateMatch(ctx, f.dayID, []int{10, 11}, models.MatchTypeClash)
	assert.ErrorIs(t, err, ErrDayLocked)
	_, err = f.service.ChangeStatus(ctx, match.ID, models.MatchStatusLive)
	assert.ErrorIs(t, err, ErrDayLocked)
	_, err = f.service.SetLocked(ctx, match.ID, true)
	assert.ErrorIs(t, err, ErrDayLocked)
	assert.ErrorIs(t, f.service.DeleteMatch(ctx, match.ID), ErrDayLocked)
}

func TestDeleteMatch(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	match, err := f.service.CreateMatch(ctx, f.dayID, []int{10, 11}, models.MatchTypeClash)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteMatch(ctx, match.ID))
	assert.ErrorIs(t, f.service.DeleteMatch(ctx, match.ID), ErrMatchNotFound)
}
