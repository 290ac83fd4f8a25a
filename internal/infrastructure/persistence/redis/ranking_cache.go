package redis

import (
	"context"

	"github.com/biteburst/biteburst-leagues/internal/domain/leaderboard"
	"github.com/biteburst/biteburst-leagues/internal/domain/league"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKING CACHE
// ══════════════════════════════════════════════════════════════════════════════

// RankingCache caches the ranked member list per (tier, week). Entries
// expire after TTLRankingCache, which bounds how stale a served ranking
// can be; the read path recomputes from PostgreSQL on any miss.
type RankingCache struct {
	cache *Cache
}

// NewRankingCache creates a ranking cache on top of the shared client.
func NewRankingCache(cache *Cache) *RankingCache {
	return &RankingCache{cache: cache}
}

// GetRanking returns the cached rows for (tier, weekKey).
// Returns ErrCacheMiss when no entry exists.
func (rc *RankingCache) GetRanking(ctx context.Context, tier league.Tier, weekKey string) ([]leaderboard.Row, error) {
	var rows []leaderboard.Row
	if err := rc.cache.Get(ctx, RankingKey(tier.String(), weekKey), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SetRanking stores the rows under the ranking TTL.
func (rc *RankingCache) SetRanking(ctx context.Context, tier league.Tier, weekKey string, rows []leaderboard.Row) error {
	return rc.cache.Set(ctx, RankingKey(tier.String(), weekKey), rows, TTLRankingCache)
}

// InvalidateRanking drops the cached rows for (tier, weekKey). Useful
// for tooling; the request path relies on TTL expiry instead.
func (rc *RankingCache) InvalidateRanking(ctx context.Context, tier league.Tier, weekKey string) error {
	return rc.cache.Delete(ctx, RankingKey(tier.String(), weekKey))
}
