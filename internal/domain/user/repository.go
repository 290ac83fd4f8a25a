package user

import "context"

// Repository defines persistence operations for user records.
// Implementations must return shared.ErrUserNotFound (via errors.Is on
// shared.ErrNotFound) when a user does not exist.
type Repository interface {
	// GetByID returns a single user record.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByIDs returns records for the given IDs in one round trip.
	// IDs with no matching record are silently absent from the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]*User, error)

	// SetOptOut flips the leaderboard opt-out flag.
	SetOptOut(ctx context.Context, id string, optOut bool) error

	// Create inserts a new user. Used by the seeding utility only.
	Create(ctx context.Context, u *User) error
}
