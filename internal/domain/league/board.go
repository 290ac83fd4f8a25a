package league

import (
	"time"

	"github.com/biteburst/biteburst-leagues/pkg/timeutil"
)

// WeekKey returns the canonical string key for a board week (YYYY-MM-DD of
// the Monday). Boards are created lazily the first time a (week, tier)
// pair is touched and are never reused across weeks; this key identifies
// one of them in storage and cache keys.
func WeekKey(weekStart time.Time) string {
	return timeutil.FormatDateStr(weekStart)
}
