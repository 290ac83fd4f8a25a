package query

import (
	"context"
	"errors"
	"time"

	"github.com/biteburst/biteburst-leagues/internal/domain/leaderboard"
	"github.com/biteburst/biteburst-leagues/internal/domain/league"
	"github.com/biteburst/biteburst-leagues/internal/domain/shared"
	"github.com/biteburst/biteburst-leagues/internal/domain/user"
	"github.com/biteburst/biteburst-leagues/internal/domain/xp"
)

// In-memory fakes implementing the domain repository interfaces. They keep
// real set/window semantics so the handler tests exercise the same
// contracts the Postgres implementations honor.

type fakeUserRepo struct {
	users   map[string]*user.User
	failAll error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (r *fakeUserRepo) add(u *user.User) {
	r.users[u.ID] = u
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	result := make(map[string]*user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			clone := *u
			result[id] = &clone
		}
	}
	return result, nil
}

func (r *fakeUserRepo) SetOptOut(ctx context.Context, id string, optOut bool) error {
	u, ok := r.users[id]
	if !ok {
		return shared.ErrUserNotFound
	}
	u.LeaderboardOptOut = optOut
	return nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, ok := r.users[u.ID]; ok {
		return shared.ErrUserExists
	}
	r.add(u)
	return nil
}

type fakeBoardRepo struct {
	rosters map[string][]string

	// forceEmpty makes every GetRoster return an initialized empty board,
	// simulating the pathological post-ensure race.
	forceEmpty bool

	ensureCalls int
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{rosters: make(map[string][]string)}
}

func boardKey(weekStart time.Time, tier league.Tier) string {
	return league.WeekKey(weekStart) + "/" + tier.String()
}

func (r *fakeBoardRepo) seed(weekStart time.Time, tier league.Tier, members ...string) {
	r.rosters[boardKey(weekStart, tier)] = append([]string(nil), members...)
}

func (r *fakeBoardRepo) GetRoster(ctx context.Context, weekStart time.Time, tier league.Tier) ([]string, error) {
	roster, ok := r.rosters[boardKey(weekStart, tier)]
	if !ok {
		return nil, shared.ErrBoardNotFound
	}
	if r.forceEmpty {
		return []string{}, nil
	}
	return append([]string(nil), roster...), nil
}

func (r *fakeBoardRepo) EnsureMember(ctx context.Context, userID string, tier league.Tier, weekStart time.Time) error {
	r.ensureCalls++
	key := boardKey(weekStart, tier)
	for _, id := range r.rosters[key] {
		if id == userID {
			return nil
		}
	}
	r.rosters[key] = append(r.rosters[key], userID)
	return nil
}

type fakeXPRepo struct {
	events []xp.Event

	totalsCalls int
	failTotals  error
}

func newFakeXPRepo() *fakeXPRepo {
	return &fakeXPRepo{}
}

func (r *fakeXPRepo) award(userID string, amount int, at time.Time) {
	r.events = append(r.events, xp.Event{UserID: userID, Amount: amount, OccurredAt: at})
}

func (r *fakeXPRepo) WeeklyTotals(ctx context.Context, userIDs []string, start, end time.Time) (map[string]int, error) {
	r.totalsCalls++
	if r.failTotals != nil {
		return nil, r.failTotals
	}
	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	totals := make(map[string]int)
	for _, e := range r.events {
		if !wanted[e.UserID] {
			continue
		}
		if e.OccurredAt.Before(start) || e.OccurredAt.After(end) {
			continue
		}
		totals[e.UserID] += e.Amount
	}
	return totals, nil
}

func (r *fakeXPRepo) RecordEvent(ctx context.Context, e *xp.Event) error {
	r.events = append(r.events, *e)
	return nil
}

type fakeRankingCache struct {
	entries map[string][]leaderboard.Row
	sets    int
	hits    int
}

func newFakeRankingCache() *fakeRankingCache {
	return &fakeRankingCache{entries: make(map[string][]leaderboard.Row)}
}

var errCacheMiss = errors.New("cache miss")

func (c *fakeRankingCache) GetRanking(ctx context.Context, tier league.Tier, weekKey string) ([]leaderboard.Row, error) {
	rows, ok := c.entries[tier.String()+"/"+weekKey]
	if !ok {
		return nil, errCacheMiss
	}
	c.hits++
	return rows, nil
}

func (c *fakeRankingCache) SetRanking(ctx context.Context, tier league.Tier, weekKey string, rows []leaderboard.Row) error {
	c.sets++
	c.entries[tier.String()+"/"+weekKey] = rows
	return nil
}
