// Package xp models the append-only experience-point event log. Events are
// produced exclusively by the logging subsystem; the league engine only
// reads and sums them over a week window. Weekly XP is always derived,
// never stored.
package xp

import (
	"time"

	"github.com/biteburst/biteburst-leagues/internal/domain/shared"
)

// Event is one immutable XP award.
type Event struct {
	// ID is the storage identifier of the event.
	ID string

	// UserID is the user the XP was awarded to.
	UserID string

	// Amount is the awarded XP, always non-negative.
	Amount int

	// OccurredAt is when the XP was earned.
	OccurredAt time.Time

	// Reason is a free-text description of the award.
	Reason string
}

// Validate checks the event invariants.
func (e *Event) Validate() error {
	if e.UserID == "" {
		return shared.ErrInvalidUserID
	}
	if e.Amount < 0 {
		return shared.ErrInvalidXPAmount
	}
	return nil
}
