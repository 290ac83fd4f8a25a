// Package postgres implements the PostgreSQL persistence layer for the
// BiteBurst league service.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users table
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(64) PRIMARY KEY,
    display_name VARCHAR(100) NOT NULL,
    streak INTEGER NOT NULL DEFAULT 0,
    league_tier VARCHAR(20) NOT NULL DEFAULT 'bronze',
    leaderboard_opt_out BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_tier CHECK (league_tier IN ('bronze', 'silver', 'gold')),
    CONSTRAINT valid_streak CHECK (streak >= 0)
);

CREATE INDEX IF NOT EXISTS idx_users_league_tier ON users(league_tier);
`

const migration001Down = `
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE XP EVENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create xp_events table
-- Version: 002

-- Append-only XP ledger. Weekly totals are aggregated at read time over
-- the [week start, week end] window; there is no materialized counter.
CREATE TABLE IF NOT EXISTS xp_events (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id VARCHAR(64) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    amount INTEGER NOT NULL,
    reason VARCHAR(50) NOT NULL DEFAULT '',
    occurred_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_amount CHECK (amount >= 0)
);

-- The hot path: SUM(amount) per user over a time window.
CREATE INDEX IF NOT EXISTS idx_xp_events_user_time ON xp_events(user_id, occurred_at);
CREATE INDEX IF NOT EXISTS idx_xp_events_occurred_at ON xp_events(occurred_at);
`

const migration002Down = `
DROP TABLE IF EXISTS xp_events;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE LEAGUE BOARDS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create league boards and memberships
-- Version: 003

-- One board per (week, tier), created lazily by the first viewer.
CREATE TABLE IF NOT EXISTS league_boards (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    week_start DATE NOT NULL,
    tier VARCHAR(20) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_board_tier CHECK (tier IN ('bronze', 'silver', 'gold')),
    CONSTRAINT uniq_board_week_tier UNIQUE (week_start, tier)
);

-- Normalized membership rows. The primary key makes joins idempotent:
-- concurrent first views insert with ON CONFLICT DO NOTHING and a user
-- lands on the roster exactly once.
CREATE TABLE IF NOT EXISTS league_board_members (
    board_id UUID NOT NULL REFERENCES league_boards(id) ON DELETE CASCADE,
    user_id VARCHAR(64) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    joined_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (board_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_board_members_user ON league_board_members(user_id);
`

const migration003Down = `
DROP TABLE IF EXISTS league_board_members;
DROP TABLE IF EXISTS league_boards;
`
