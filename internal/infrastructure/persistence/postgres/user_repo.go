// Package postgres implements the PostgreSQL persistence layer for the
// BiteBurst league service.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/biteburst/biteburst-leagues/internal/domain/shared"
	"github.com/biteburst/biteburst-leagues/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

const userColumns = `id, display_name, streak, league_tier, leaderboard_opt_out, created_at, updated_at`

// GetByID returns a single user record.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	u, err := scanUser(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// GetByIDs returns records for the given IDs in one round trip.
// IDs with no matching record are silently absent from the result.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	result := make(map[string]*user.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = ANY($1)
	`

	rows, err := r.conn.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		result[u.ID] = u
	}

	return result, rows.Err()
}

// SetOptOut flips the leaderboard opt-out flag.
func (r *UserRepository) SetOptOut(ctx context.Context, id string, optOut bool) error {
	query := `
		UPDATE users
		SET leaderboard_opt_out = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.conn.Exec(ctx, query, optOut, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update opt-out flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}

	return nil
}

// Create inserts a new user. Used by the seeding utility only.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, display_name, streak, league_tier, leaderboard_opt_out, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	tier := u.LeagueTier
	if tier == "" {
		tier = "bronze"
	}

	_, err := r.conn.Exec(ctx, query,
		u.ID,
		u.DisplayName,
		u.Streak,
		tier,
		u.LeaderboardOptOut,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// scanUser scans a user from a row (works for both QueryRow and Query rows).
func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.DisplayName,
		&u.Streak,
		&u.LeagueTier,
		&u.LeaderboardOptOut,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
