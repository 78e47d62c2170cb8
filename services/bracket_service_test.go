package services

import (
	"context"
	"testing"

	"github.com/ffarena/progression/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bracketFixture struct {
	days    *fakeDayRepo
	repo    *fakeBracketRepo
	service BracketService
	dayID   int
}

func newBracketFixture(t *testing.T) *bracketFixture {
	t.Helper()
	days := newFakeDayRepo()
	repo := newFakeBracketRepo()
	teams := newFakeTeamRepo()
	service := NewBracketService(fakeTxRunner{}, repo, days, teams, nil, testLogger())

	day := &models.Day{Sequence: 3, Name: "Finals", Status: models.DayStatusActive, QualifyCount: 8}
	require.NoError(t, days.Create(context.Background(), nil, day))
	return &bracketFixture{days: days, repo: repo, service: service, dayID: day.ID}
}

func seeds() []int { return []int{1, 2, 3, 4, 5, 6, 7, 8} }

func (f *bracketFixture) byUID(t *testing.T, uid string) *models.BracketMatch {
	t.Helper()
	m, err := f.repo.GetByDayAndUID(context.Background(), nil, f.dayID, uid)
	require.NoError(t, err)
	return m
}

func TestInitializeBracket(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	matches, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)
	require.Len(t, matches, 7)

	qf1 := f.byUID(t, "R1M1")
	assert.Equal(t, 1, *qf1.Team1ID)
	assert.Equal(t, 8, *qf1.Team2ID)
	assert.Equal(t, models.MatchStatusUpcoming, qf1.Status)

	final := f.byUID(t, "R3M1")
	assert.Nil(t, final.Team1ID)
	assert.Nil(t, final.Team2ID)
	assert.Nil(t, final.WinnerID)
}

func TestInitializeBracketRejectsReInit(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)

	_, err = f.service.InitializeBracket(ctx, f.dayID, seeds())
	assert.ErrorIs(t, err, ErrBracketAlreadyExists)

	count, _ := f.repo.CountByDay(ctx, nil, f.dayID)
	assert.Equal(t, 7, count)
}

func TestInitializeBracketRejectsBadSeeds(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, []int{1, 2, 3})
	assert.Error(t, err)

	count, _ := f.repo.CountByDay(ctx, nil, f.dayID)
	assert.Zero(t, count, "failed initialization must not create matches")
}

func TestResetAllowsReSeeding(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)
	require.NoError(t, f.service.ResetBracket(ctx, f.dayID))

	count, _ := f.repo.CountByDay(ctx, nil, f.dayID)
	require.Zero(t, count)

	_, err = f.service.InitializeBracket(ctx, f.dayID, []int{8, 7, 6, 5, 4, 3, 2, 1})
	require.NoError(t, err)
	qf1 := f.byUID(t, "R1M1")
	assert.Equal(t, 8, *qf1.Team1ID)
}

func TestStartMatch(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)

	qf1 := f.byUID(t, "R1M1")
	started, err := f.service.StartMatch(ctx, qf1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusLive, started.Status)

	// Starting again is an invalid transition.
	_, err = f.service.StartMatch(ctx, qf1.ID)
	assert.ErrorIs(t, err, ErrBracketMatchNotUpcoming)
}

func TestStartMatchRequiresBothSlots(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)

	sf1 := f.byUID(t, "R2M1")
	_, err = f.service.StartMatch(ctx, sf1.ID)
	assert.ErrorIs(t, err, ErrBracketSlotEmpty)

	// Nothing changed.
	sf1 = f.byUID(t, "R2M1")
	assert.Equal(t, models.MatchStatusUpcoming, sf1.Status)
}

func TestWinnerPropagation(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)

	// Quarterfinal 1 is seed 1 vs seed 8, quarterfinal 2 seed 4 vs seed 5.
	qf1 := f.byUID(t, "R1M1")
	qf2 := f.byUID(t, "R1M2")

	_, err = f.service.SetWinnerAndAdvance(ctx, qf1.ID, 1)
	require.NoError(t, err)
	_, err = f.service.SetWinnerAndAdvance(ctx, qf2.ID, 4)
	require.NoError(t, err)

	sf1 := f.byUID(t, "R2M1")
	require.NotNil(t, sf1.Team1ID)
	require.NotNil(t, sf1.Team2ID)
	assert.Equal(t, 1, *sf1.Team1ID)
	assert.Equal(t, 4, *sf1.Team2ID)
}

func TestChampionRun(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)

	// Higher seed wins every quarterfinal and semifinal.
	for _, decide := range []struct {
		uid    string
		winner int
	}{
		{"R1M1", 1}, {"R1M2", 4}, {"R1M3", 2}, {"R1M4", 3},
		{"R2M1", 1}, {"R2M2", 2},
	} {
		m := f.byUID(t, decide.uid)
		_, err := f.service.SetWinnerAndAdvance(ctx, m.ID, decide.winner)
		require.NoError(t, err, decide.uid)
	}

	// The final is seed 1 vs seed 2: their first possible meeting.
	final := f.byUID(t, "R3M1")
	require.NotNil(t, final.Team1ID)
	require.NotNil(t, final.Team2ID)
	assert.Equal(t, 1, *final.Team1ID)
	assert.Equal(t, 2, *final.Team2ID)

	champion, err := f.service.Champion(ctx, f.dayID)
	require.NoError(t, err)
	assert.Nil(t, champion, "no champion before the final is decided")

	_, err = f.service.SetWinnerAndAdvance(ctx, final.ID, 2)
	require.NoError(t, err)

	champion, err = f.service.Champion(ctx, f.dayID)
	require.NoError(t, err)
	require.NotNil(t, champion)
	assert.Equal(t, 2, *champion)
}

func TestSetWinnerRejectsRedecide(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)

	qf1 := f.byUID(t, "R1M1")
	_, err = f.service.SetWinnerAndAdvance(ctx, qf1.ID, 1)
	require.NoError(t, err)

	// Same winner, already finished: rejected, not double-applied.
	_, err = f.service.SetWinnerAndAdvance(ctx, qf1.ID, 1)
	assert.ErrorIs(t, err, ErrBracketMatchFinished)
	_, err = f.service.SetWinnerAndAdvance(ctx, qf1.ID, 8)
	assert.ErrorIs(t, err, ErrBracketMatchFinished)

	qf1 = f.byUID(t, "R1M1")
	assert.Equal(t, 1, *qf1.WinnerID)
}

func TestSetWinnerRejectsOutsider(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)

	qf1 := f.byUID(t, "R1M1") // 1 vs 8
	_, err = f.service.SetWinnerAndAdvance(ctx, qf1.ID, 5)
	assert.ErrorIs(t, err, ErrWinnerNotInMatch)

	qf1 = f.byUID(t, "R1M1")
	assert.Nil(t, qf1.WinnerID)
	assert.Equal(t, models.MatchStatusUpcoming, qf1.Status)
}

func TestSetWinnerRejectsEmptySlots(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)

	sf1 := f.byUID(t, "R2M1")
	_, err = f.service.SetWinnerAndAdvance(ctx, sf1.ID, 1)
	assert.ErrorIs(t, err, ErrBracketSlotEmpty)
}

func TestPropagationDoesNotClobberOccupiedSlot(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)

	// Simulate a racing decision that already advanced seed 8 into the
	// semifinal slot quarterfinal 1 feeds.
	sf1 := f.byUID(t, "R2M1")
	require.NoError(t, f.repo.SetTeamSlot(ctx, nil, sf1.ID, 1, 8))

	qf1 := f.byUID(t, "R1M1")
	_, err = f.service.SetWinnerAndAdvance(ctx, qf1.ID, 1)
	assert.ErrorIs(t, err, ErrBracketSlotTaken)

	qf1 = f.byUID(t, "R1M1")
	assert.Nil(t, qf1.WinnerID, "rejected decision must not leave a winner behind")
	sf1 = f.byUID(t, "R2M1")
	assert.Equal(t, 8, *sf1.Team1ID)
}

func TestBracketOperationsRespectDayLock(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)
	qf1 := f.byUID(t, "R1M1")

	day, err := f.days.GetByID(ctx, nil, f.dayID)
	require.NoError(t, err)
	day.Status = models.DayStatusLocked
	require.NoError(t, f.days.UpdateLifecycle(ctx, nil, day))

	_, err = f.service.StartMatch(ctx, qf1.ID)
	assert.ErrorIs(t, err, ErrDayLocked)
	_, err = f.service.SetWinnerAndAdvance(ctx, qf1.ID, 1)
	assert.ErrorIs(t, err, ErrDayLocked)
	assert.ErrorIs(t, f.service.ResetBracket(ctx, f.dayID), ErrDayLocked)
}

func TestSnapshot(t *testing.T) {
	f := newBracketFixture(t)
	ctx := context.Background()

	_, err := f.service.Snapshot(ctx, f.dayID)
	assert.ErrorIs(t, err, ErrBracketNotInitialized)

	_, err = f.service.InitializeBracket(ctx, f.dayID, seeds())
	require.NoError(t, err)

	snapshot, err := f.service.Snapshot(ctx, f.dayID)
	require.NoError(t, err)
	require.Len(t, snapshot.Rounds, 3)
	assert.Len(t, snapshot.Rounds[0].Matches, 4)
	assert.Len(t, snapshot.Rounds[1].Matches, 2)
	assert.Len(t, snapshot.Rounds[2].Matches, 1)
	assert.Nil(t, snapshot.ChampionID)
}
