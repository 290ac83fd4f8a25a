package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRankingTTLStaysWithinSeconds(t *testing.T) {
	// The cache is an accelerator with a staleness bound measured in tens
	// of seconds: a fresh XP award has to move the board promptly. Anyone
	// raising this past a minute is trading responsiveness they should
	// not trade.
	assert.LessOrEqual(t, TTLRankingCache, time.Minute)
	assert.Greater(t, TTLRankingCache, time.Duration(0))
}

func TestRankingKeyLayout(t *testing.T) {
	assert.Equal(t, "ranking:silver:2025-06-16", RankingKey("silver", "2025-06-16"))
}
