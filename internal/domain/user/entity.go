// Package user contains the user record as seen by the league engine.
// Users are created by the account flow and earn XP through the logging
// subsystem; this engine only reads them, except for the leaderboard
// opt-out flag which it owns.
package user

import (
	"strings"
	"time"

	"github.com/biteburst/biteburst-leagues/internal/domain/shared"
)

// User is the league-relevant projection of an account.
type User struct {
	// ID is the unique user identifier.
	ID string

	// DisplayName is the name shown on leaderboards.
	DisplayName string

	// Streak is the consecutive-day logging streak, owned and incremented
	// by the logging subsystem. Read-only here; used as a ranking tie-break.
	Streak int

	// LeagueTier is the user's current league ("bronze", "silver", "gold").
	// Empty means the user has never been placed and defaults to bronze.
	LeagueTier string

	// LeaderboardOptOut hides the user from all leaderboard views.
	LeaderboardOptOut bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a user with validation. Used by the seeding utility and
// tests; production users arrive through the account-creation flow.
func New(id, displayName string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.ErrInvalidUserID
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, shared.WrapError("user", "New", shared.ErrEmptyValue, "display name cannot be empty", nil)
	}

	now := time.Now().UTC()
	return &User{
		ID:          id,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Validate checks the invariants the engine relies on.
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return shared.ErrInvalidUserID
	}
	if u.Streak < 0 {
		return shared.WrapError("user", "Validate", shared.ErrNegativeValue, "streak cannot be negative", nil)
	}
	return nil
}
