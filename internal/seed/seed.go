// Package seed populates a development database with plausible league
// data: users spread across the three tiers, a week of XP events, and a
// few edge cases (opted-out users, zero-XP newcomers). It writes only
// through the repository interfaces, so it works against any backend.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/biteburst/biteburst-leagues/internal/domain/league"
	"github.com/biteburst/biteburst-leagues/internal/domain/user"
	"github.com/biteburst/biteburst-leagues/internal/domain/xp"
	"github.com/biteburst/biteburst-leagues/pkg/logger"
	"github.com/biteburst/biteburst-leagues/pkg/timeutil"
)

// Options controls the volume of seeded data.
type Options struct {
	// UsersPerTier is how many users land in each tier.
	UsersPerTier int

	// MaxEventsPerUser caps the XP events generated per user this week.
	MaxEventsPerUser int

	// OptOutEvery marks every n-th user as opted out (0 disables).
	OptOutEvery int

	// Rand is the randomness source; a fixed seed makes runs reproducible.
	Rand *rand.Rand
}

// DefaultOptions returns a small but representative data set.
func DefaultOptions() Options {
	return Options{
		UsersPerTier:     12,
		MaxEventsPerUser: 8,
		OptOutEvery:      10,
		Rand:             rand.New(rand.NewSource(42)),
	}
}

// Seeder writes development fixtures through the domain repositories.
type Seeder struct {
	users  user.Repository
	boards league.BoardRepository
	events xp.Repository
	log    *logger.Logger
}

// New creates a Seeder.
func New(users user.Repository, boards league.BoardRepository, events xp.Repository, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Default()
	}
	return &Seeder{users: users, boards: boards, events: events, log: log}
}

var firstNames = []string{
	"Ava", "Ben", "Chloe", "Dan", "Elio", "Fay", "Gus", "Hana",
	"Iris", "Jon", "Kira", "Leo", "Mara", "Nils", "Odin", "Pia",
}

var lastNames = []string{
	"Adler", "Brook", "Cole", "Dietz", "Ember", "Frost", "Gale",
	"Hale", "Ines", "Joy", "Kern", "Lund", "Moss", "North",
}

var eventReasons = []string{
	"meal_logged", "water_goal", "steps_goal", "recipe_cooked", "weigh_in",
}

// Run seeds users, board memberships, and this week's XP events.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	window := timeutil.CurrentWeekWindow(time.Now().UTC())
	tiers := []league.Tier{league.TierBronze, league.TierSilver, league.TierGold}

	total := 0
	for _, tier := range tiers {
		for i := 0; i < opts.UsersPerTier; i++ {
			total++
			if err := s.seedUser(ctx, opts, tier, window, total); err != nil {
				return err
			}
		}
	}

	s.log.Info("seeding completed",
		logger.Int("users", total),
		logger.WeekStart(league.WeekKey(window.Start)))

	return nil
}

func (s *Seeder) seedUser(ctx context.Context, opts Options, tier league.Tier, window timeutil.WeekWindow, ordinal int) error {
	name := fmt.Sprintf("%s %s",
		firstNames[opts.Rand.Intn(len(firstNames))],
		lastNames[opts.Rand.Intn(len(lastNames))])

	u, err := user.New(uuid.NewString(), name)
	if err != nil {
		return fmt.Errorf("failed to build user: %w", err)
	}
	u.LeagueTier = tier.String()
	u.Streak = opts.Rand.Intn(30)
	if opts.OptOutEvery > 0 && ordinal%opts.OptOutEvery == 0 {
		u.LeaderboardOptOut = true
	}

	if err := s.users.Create(ctx, u); err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.ID, err)
	}

	if err := s.boards.EnsureMember(ctx, u.ID, tier, window.Start); err != nil {
		return fmt.Errorf("failed to place user %s on board: %w", u.ID, err)
	}

	// Spread events over the elapsed part of the week so fresh seeds
	// still rank everyone deterministically.
	elapsed := time.Now().UTC().Sub(window.Start)
	if elapsed <= 0 {
		elapsed = time.Hour
	}

	eventCount := opts.Rand.Intn(opts.MaxEventsPerUser + 1)
	for i := 0; i < eventCount; i++ {
		event := &xp.Event{
			UserID:     u.ID,
			Amount:     5 + opts.Rand.Intn(50),
			Reason:     eventReasons[opts.Rand.Intn(len(eventReasons))],
			OccurredAt: window.Start.Add(time.Duration(opts.Rand.Int63n(int64(elapsed)))),
		}
		if err := s.events.RecordEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to record xp event for %s: %w", u.ID, err)
		}
	}

	return nil
}
