package xp

import (
	"context"
	"time"
)

// Repository defines read access to the XP event log.
type Repository interface {
	// WeeklyTotals sums XP per user over [start, end] inclusive, for the
	// whole user set in one batched round trip. Users with no events in
	// the window are absent from the result; callers default them to 0.
	WeeklyTotals(ctx context.Context, userIDs []string, start, end time.Time) (map[string]int, error)

	// RecordEvent appends an event to the log. The league engine never
	// calls this on a request path; it exists for the seeding utility.
	RecordEvent(ctx context.Context, e *Event) error
}
