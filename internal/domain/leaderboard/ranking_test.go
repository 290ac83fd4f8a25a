package leaderboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biteburst/biteburst-leagues/internal/domain/league"
	"github.com/biteburst/biteburst-leagues/internal/domain/user"
)

func makeUser(id, name string, streak int) *user.User {
	return &user.User{ID: id, DisplayName: name, Streak: streak}
}

func TestBuildRanking_SortsByXPDescending(t *testing.T) {
	members := []string{"u1", "u2", "u3"}
	users := map[string]*user.User{
		"u1": makeUser("u1", "Ana", 0),
		"u2": makeUser("u2", "Ben", 0),
		"u3": makeUser("u3", "Cleo", 0),
	}
	xp := map[string]int{"u1": 50, "u2": 120, "u3": 80}

	rows := BuildRanking(members, users, xp)

	require.Len(t, rows, 3)
	assert.Equal(t, "u2", rows[0].UserID)
	assert.Equal(t, "u3", rows[1].UserID)
	assert.Equal(t, "u1", rows[2].UserID)
}

func TestBuildRanking_TieBreaks(t *testing.T) {
	// Equal XP: higher streak first. Equal XP and streak: lower ID first.
	members := []string{"charlie", "alice", "bob"}
	users := map[string]*user.User{
		"alice":   makeUser("alice", "Alice", 3),
		"bob":     makeUser("bob", "Bob", 7),
		"charlie": makeUser("charlie", "Charlie", 3),
	}
	xp := map[string]int{"alice": 100, "bob": 100, "charlie": 100}

	rows := BuildRanking(members, users, xp)

	require.Len(t, rows, 3)
	assert.Equal(t, "bob", rows[0].UserID)     // streak 7 wins the XP tie
	assert.Equal(t, "alice", rows[1].UserID)   // "alice" < "charlie"
	assert.Equal(t, "charlie", rows[2].UserID)
}

func TestBuildRanking_RanksAreDense(t *testing.T) {
	const n = 25
	members := make([]string, 0, n)
	users := make(map[string]*user.User, n)
	xp := make(map[string]int, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("user-%02d", i)
		members = append(members, id)
		users[id] = makeUser(id, "User", 0)
		xp[id] = (i % 4) * 10 // plenty of ties
	}

	rows := BuildRanking(members, users, xp)

	require.Len(t, rows, n)
	for i, row := range rows {
		assert.Equal(t, i+1, row.Rank)
	}
}

func TestBuildRanking_Deterministic(t *testing.T) {
	members := []string{"u5", "u3", "u1", "u4", "u2"}
	users := map[string]*user.User{}
	xp := map[string]int{}
	for _, id := range members {
		users[id] = makeUser(id, "Name "+id, 2)
		xp[id] = 40
	}

	first := BuildRanking(members, users, xp)
	second := BuildRanking(members, users, xp)

	assert.Equal(t, first, second)
}

func TestBuildRanking_SkipsStaleMembers(t *testing.T) {
	// A roster ID with no user record contributes nothing and must not
	// panic or leave a gap in the rank sequence.
	members := []string{"u1", "ghost", "u2"}
	users := map[string]*user.User{
		"u1": makeUser("u1", "Ana", 0),
		"u2": makeUser("u2", "Ben", 0),
	}
	xp := map[string]int{"u1": 10, "u2": 20, "ghost": 999}

	rows := BuildRanking(members, users, xp)

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Nil(t, FindRow(rows, "ghost"))
}

func TestBuildRanking_MissingXPDefaultsToZero(t *testing.T) {
	members := []string{"u1", "u2"}
	users := map[string]*user.User{
		"u1": makeUser("u1", "Ana", 0),
		"u2": makeUser("u2", "Ben", 0),
	}
	xp := map[string]int{"u1": 30}

	rows := BuildRanking(members, users, xp)

	require.Len(t, rows, 2)
	assert.Equal(t, "u2", rows[1].UserID)
	assert.Equal(t, 0, rows[1].XPWeek)
}

func TestZones_BronzeHasNoDemotionZone(t *testing.T) {
	cfg, err := league.ConfigFor(league.TierBronze)
	require.NoError(t, err)

	promo, demo := Zones(cfg, 25)

	assert.Equal(t, 10, promo)
	assert.Nil(t, demo)
}

func TestZones_SilverDemotionBoundary(t *testing.T) {
	cfg, err := league.ConfigFor(league.TierSilver)
	require.NoError(t, err)

	promo, demo := Zones(cfg, 30)

	assert.Equal(t, 10, promo)
	require.NotNil(t, demo)
	assert.Equal(t, 21, *demo)
}

func TestZones_BoardSmallerThanDemoteCountHasNoCutLine(t *testing.T) {
	cfg, err := league.ConfigFor(league.TierSilver)
	require.NoError(t, err)

	// A lazily created board starts with its first viewer as the only
	// member. No rank 1..N can be a demotion boundary here.
	promo, demo := Zones(cfg, 1)

	assert.Equal(t, 10, promo)
	assert.Nil(t, demo)
}

func TestZones_DemotionBoundaryNeverBelowRankOne(t *testing.T) {
	cfg, err := league.ConfigFor(league.TierGold)
	require.NoError(t, err)

	promo, demo := Zones(cfg, 10)

	assert.Equal(t, 3, promo)
	require.NotNil(t, demo)
	assert.Equal(t, 1, *demo)

	_, demo = Zones(cfg, 9)
	assert.Nil(t, demo)

	_, demo = Zones(cfg, 0)
	assert.Nil(t, demo)
}

func TestZones_GoldChampionCut(t *testing.T) {
	cfg, err := league.ConfigFor(league.TierGold)
	require.NoError(t, err)

	promo, demo := Zones(cfg, 20)

	assert.Equal(t, 3, promo)
	require.NotNil(t, demo)
	assert.Equal(t, 11, *demo)
}

func TestFindRow(t *testing.T) {
	members := []string{"u1", "u2"}
	users := map[string]*user.User{
		"u1": makeUser("u1", "Ana", 0),
		"u2": makeUser("u2", "Ben", 0),
	}
	rows := BuildRanking(members, users, map[string]int{"u1": 5})

	me := FindRow(rows, "u2")
	require.NotNil(t, me)
	assert.Equal(t, "u2", me.UserID)

	assert.Nil(t, FindRow(rows, "nobody"))
}
