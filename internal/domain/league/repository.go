package league

import (
	"context"
	"time"
)

// BoardRepository defines persistence for weekly membership rosters.
type BoardRepository interface {
	// GetRoster returns the member IDs of the (weekStart, tier) board, or
	// shared.ErrBoardNotFound if that combination was never initialized.
	// An initialized-but-empty board returns an empty, non-nil slice.
	GetRoster(ctx context.Context, weekStart time.Time, tier Tier) ([]string, error)

	// EnsureMember idempotently places the user on the (weekStart, tier)
	// board, creating the board if needed. Concurrent calls for the same
	// new board must converge on a single roster; the storage layer
	// serializes creation rather than the application doing
	// read-modify-write.
	EnsureMember(ctx context.Context, userID string, tier Tier, weekStart time.Time) error
}
