// Seed command for local development. It runs the migrations and fills
// the database with demo users and a week of XP events so the
// leaderboard endpoints return something interesting immediately.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/seed -users 12
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/biteburst/biteburst-leagues/config"
	"github.com/biteburst/biteburst-leagues/internal/infrastructure/persistence/postgres"
	"github.com/biteburst/biteburst-leagues/internal/seed"
	"github.com/biteburst/biteburst-leagues/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	usersPerTier := flag.Int("users", 12, "users to create per tier")
	maxEvents := flag.Int("events", 8, "max XP events per user")
	randSeed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}

	log := logger.New(logger.Options{Level: logger.LevelInfo})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	opts := seed.DefaultOptions()
	opts.UsersPerTier = *usersPerTier
	opts.MaxEventsPerUser = *maxEvents
	if *randSeed != 0 {
		opts.Rand = rand.New(rand.NewSource(*randSeed))
	} else {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	seeder := seed.New(
		postgres.NewUserRepository(dbConn),
		postgres.NewBoardRepository(dbConn),
		postgres.NewXPEventRepository(dbConn),
		log,
	)

	return seeder.Run(ctx, opts)
}
