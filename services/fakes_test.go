package services

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"github.com/ffarena/progression/models"
	"github.com/ffarena/progression/repositories"
)

// In-memory repository fakes. They mimic the store closely enough for the
// engine's state machines: reads hand out copies, writes store copies, so a
// failed operation can be asserted to have left nothing behind.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeDayRepo struct {
	days   map[int]*models.Day
	nextID int
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: map[int]*models.Day{}, nextID: 1}
}

func (r *fakeDayRepo) Create(ctx context.Context, exec repositories.SQLExecutor, day *models.Day) error {
	day.ID = r.nextID
	r.nextID++
	stored := *day
	r.days[day.ID] = &stored
	return nil
}

func (r *fakeDayRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Day, error) {
	day, ok := r.days[id]
	if !ok {
		return nil, repositories.ErrDayNotFound
	}
	copied := *day
	return &copied, nil
}

func (r *fakeDayRepo) List(ctx context.Context) ([]*models.Day, error) {
	ids := make([]int, 0, len(r.days))
	for id := range r.days {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	days := make([]*models.Day, 0, len(ids))
	for _, id := range ids {
		copied := *r.days[id]
		days = append(days, &copied)
	}
	return days, nil
}

func (r *fakeDayRepo) UpdateLifecycle(ctx context.Context, exec repositories.SQLExecutor, day *models.Day) error {
	if _, ok := r.days[day.ID]; !ok {
		return repositories.ErrDayNotFound
	}
	stored := *day
	r.days[day.ID] = &stored
	return nil
}

func (r *fakeDayRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.days[id]; !ok {
		return repositories.ErrDayNotFound
	}
	delete(r.days, id)
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: map[int]*models.Match{}, nextID: 1}
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.nextID
	r.nextID++
	stored := *match
	r.matches[match.ID] = &stored
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) sortedIDs() []int {
	ids := make([]int, 0, len(r.matches))
	for id := range r.matches {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *fakeMatchRepo) ListByDay(ctx context.Context, dayID int) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, id := range r.sortedIDs() {
		if r.matches[id].DayID == dayID {
			copied := *r.matches[id]
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

func (r *fakeMatchRepo) ListAll(ctx context.Context) ([]*models.Match, error) {
	matches := make([]*models.Match, 0, len(r.matches))
	for _, id := range r.sortedIDs() {
		copied := *r.matches[id]
		matches = append(matches, &copied)
	}
	return matches, nil
}

func (r *fakeMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Status = status
	return nil
}

func (r *fakeMatchRepo) SetLocked(ctx context.Context, exec repositories.SQLExecutor, id int, locked bool) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Locked = locked
	return nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type scoreKey struct{ matchID, teamID int }

type fakeScoreRepo struct {
	scores  map[scoreKey]*models.Score
	order   []scoreKey
	matches *fakeMatchRepo
	nextID  int
}

func newFakeScoreRepo(matches *fakeMatchRepo) *fakeScoreRepo {
	return &fakeScoreRepo{scores: map[scoreKey]*models.Score{}, matches: matches, nextID: 1}
}

func (r *fakeScoreRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, score *models.Score) error {
	key := scoreKey{score.MatchID, score.TeamID}
	if existing, ok := r.scores[key]; ok {
		score.ID = existing.ID
	} else {
		score.ID = r.nextID
		r.nextID++
		r.order = append(r.order, key)
	}
	stored := *score
	r.scores[key] = &stored
	return nil
}

func (r *fakeScoreRepo) GetByMatchAndTeam(ctx context.Context, matchID, teamID int) (*models.Score, error) {
	score, ok := r.scores[scoreKey{matchID, teamID}]
	if !ok {
		return nil, repositories.ErrScoreNotFound
	}
	copied := *score
	return &copied, nil
}

func (r *fakeScoreRepo) list(filter func(*models.Score) bool) []*models.Score {
	scores := make([]*models.Score, 0)
	for _, key := range r.order {
		score, ok := r.scores[key]
		if !ok || !filter(score) {
			continue
		}
		copied := *score
		scores = append(scores, &copied)
	}
	return scores
}

func (r *fakeScoreRepo) ListByMatch(ctx context.Context, matchID int) ([]*models.Score, error) {
	return r.list(func(s *models.Score) bool { return s.MatchID == matchID }), nil
}

func (r *fakeScoreRepo) ListByDay(ctx context.Context, dayID int) ([]*models.Score, error) {
	return r.list(func(s *models.Score) bool {
		match, ok := r.matches.matches[s.MatchID]
		return ok && match.DayID == dayID
	}), nil
}

func (r *fakeScoreRepo) ListAll(ctx context.Context) ([]*models.Score, error) {
	return r.list(func(*models.Score) bool { return true }), nil
}

func (r *fakeScoreRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, matchID, teamID int) error {
	key := scoreKey{matchID, teamID}
	if _, ok := r.scores[key]; !ok {
		return repositories.ErrScoreNotFound
	}
	delete(r.scores, key)
	return nil
}

type fakeGroupRepo struct {
	groups map[int]*models.Group
	nextID int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[int]*models.Group{}, nextID: 1}
}

func (r *fakeGroupRepo) Create(ctx context.Context, exec repositories.SQLExecutor, group *models.Group) error {
	group.ID = r.nextID
	r.nextID++
	stored := *group
	r.groups[group.ID] = &stored
	return nil
}

func (r *fakeGroupRepo) ListByDay(ctx context.Context, dayID int) ([]*models.Group, error) {
	ids := make([]int, 0, len(r.groups))
	for id := range r.groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	groups := make([]*models.Group, 0)
	for _, id := range ids {
		if r.groups[id].DayID == dayID {
			copied := *r.groups[id]
			groups = append(groups, &copied)
		}
	}
	return groups, nil
}

func (r *fakeGroupRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.groups[id]; !ok {
		return repositories.ErrGroupNotFound
	}
	delete(r.groups, id)
	return nil
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: map[int]*models.Team{}, nextID: 1}
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	team.ID = r.nextID
	r.nextID++
	stored := *team
	r.teams[team.ID] = &stored
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) List(ctx context.Context) ([]*models.Team, error) {
	ids := make([]int, 0, len(r.teams))
	for id := range r.teams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	teams := make([]*models.Team, 0, len(ids))
	for _, id := range ids {
		copied := *r.teams[id]
		teams = append(teams, &copied)
	}
	return teams, nil
}

func (r *fakeTeamRepo) UpdateName(ctx context.Context, id int, name, tag string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Name = name
	team.Tag = tag
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakeBracketRepo struct {
	matches map[int]*models.BracketMatch
	nextID  int
}

func newFakeBracketRepo() *fakeBracketRepo {
	return &fakeBracketRepo{matches: map[int]*models.BracketMatch{}, nextID: 1}
}

func (r *fakeBracketRepo) CreateAll(ctx context.Context, exec repositories.SQLExecutor, matches []*models.BracketMatch) error {
	for _, m := range matches {
		m.ID = r.nextID
		r.nextID++
		stored := *m
		r.matches[m.ID] = &stored
	}
	return nil
}

func (r *fakeBracketRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.BracketMatch, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrBracketMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeBracketRepo) GetByDayAndUID(ctx context.Context, exec repositories.SQLExecutor, dayID int, uid string) (*models.BracketMatch, error) {
	for _, m := range r.matches {
		if m.DayID == dayID && m.UID == uid {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrBracketMatchNotFound
}

func (r *fakeBracketRepo) ListByDay(ctx context.Context, dayID int) ([]*models.BracketMatch, error) {
	matches := make([]*models.BracketMatch, 0)
	for _, m := range r.matches {
		if m.DayID == dayID {
			copied := *m
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].Slot < matches[j].Slot
	})
	return matches, nil
}

func (r *fakeBracketRepo) CountByDay(ctx context.Context, exec repositories.SQLExecutor, dayID int) (int, error) {
	count := 0
	for _, m := range r.matches {
		if m.DayID == dayID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBracketRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrBracketMatchNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeBracketRepo) SetWinner(ctx context.Context, exec repositories.SQLExecutor, id int, winnerID int, status models.MatchStatus) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrBracketMatchNotFound
	}
	m.WinnerID = &winnerID
	m.Status = status
	return nil
}

func (r *fakeBracketRepo) SetTeamSlot(ctx context.Context, exec repositories.SQLExecutor, id int, slot int, teamID int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrBracketMatchNotFound
	}
	switch slot {
	case 1:
		m.Team1ID = &teamID
	case 2:
		m.Team2ID = &teamID
	}
	return nil
}

func (r *fakeBracketRepo) DeleteByDay(ctx context.Context, exec repositories.SQLExecutor, dayID int) error {
	for id, m := range r.matches {
		if m.DayID == dayID {
			delete(r.matches, id)
		}
	}
	return nil
}
