// Package query contains read operations following the CQRS pattern.
// Queries never modify state beyond lazy roster initialization - they read,
// compute, and return data. Each query is a self-contained use case with
// its own request/response types.
package query

import (
	"context"
	"time"

	"github.com/biteburst/biteburst-leagues/internal/domain/leaderboard"
	"github.com/biteburst/biteburst-leagues/internal/domain/league"
	"github.com/biteburst/biteburst-leagues/internal/domain/shared"
	"github.com/biteburst/biteburst-leagues/internal/domain/user"
	"github.com/biteburst/biteburst-leagues/internal/domain/xp"
	"github.com/biteburst/biteburst-leagues/pkg/logger"
	"github.com/biteburst/biteburst-leagues/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Builds the per-user view of the current week's league standings.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery contains the parameters of a leaderboard request.
type GetLeaderboardQuery struct {
	// UserID is the requesting user.
	UserID string

	// TierOverride forces a tier instead of the user's assigned one.
	// Empty means "use the user's tier, defaulting to bronze".
	TierOverride string
}

// Validate checks the request parameters.
func (q *GetLeaderboardQuery) Validate() error {
	if q.UserID == "" {
		return shared.WrapError("query", "GetLeaderboard", shared.ErrValidation, "user id is required", nil)
	}
	return nil
}

// WeekDTO is the serialized week window.
type WeekDTO struct {
	// Start is the Monday of the week (YYYY-MM-DD).
	Start string `json:"start"`

	// End is the Sunday of the week (YYYY-MM-DD).
	End string `json:"end"`

	// SecondsRemaining is the whole seconds until rollover, never negative.
	SecondsRemaining int64 `json:"seconds_remaining"`
}

// LeaderboardResult is the assembled response of a leaderboard request.
type LeaderboardResult struct {
	// Week is the current competition window.
	Week WeekDTO `json:"week"`

	// League is the static configuration of the effective tier.
	League league.Config `json:"league"`

	// PromotionZoneRank is the last rank that advances next week.
	PromotionZoneRank int `json:"promotion_zone_rank"`

	// DemotionZoneRank is the first rank that drops next week,
	// or null when the tier has no demotion zone.
	DemotionZoneRank *int `json:"demotion_zone_rank"`

	// Members is the full ranked roster, opted-out users filtered away.
	Members []leaderboard.Row `json:"members"`

	// Me is the caller's own row, or null when the caller has no row.
	Me *leaderboard.Row `json:"me"`

	// UserOptedOut marks the stable "you're hidden" response.
	UserOptedOut bool `json:"user_opted_out"`

	// GeneratedAt is when this view was computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// RankingCache caches the ranked member list per (tier, week) for a short
// TTL. Optional: a nil cache disables caching without changing semantics.
type RankingCache interface {
	// GetRanking returns the cached rows or an error on miss.
	GetRanking(ctx context.Context, tier league.Tier, weekKey string) ([]leaderboard.Row, error)

	// SetRanking stores the rows under the cache's configured TTL.
	SetRanking(ctx context.Context, tier league.Tier, weekKey string, rows []leaderboard.Row) error
}

// GetLeaderboardHandler orchestrates the weekly leaderboard view: user
// lookup, roster membership, XP aggregation, and ranking.
type GetLeaderboardHandler struct {
	users  user.Repository
	boards league.BoardRepository
	events xp.Repository
	cache  RankingCache
	log    *logger.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewGetLeaderboardHandler creates the leaderboard query handler.
// cache may be nil to disable the read-through ranking cache.
func NewGetLeaderboardHandler(
	users user.Repository,
	boards league.BoardRepository,
	events xp.Repository,
	cache RankingCache,
	log *logger.Logger,
) *GetLeaderboardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetLeaderboardHandler{
		users:  users,
		boards: boards,
		events: events,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// Handle builds the leaderboard view for the requesting user.
//
// Fatal errors: shared.ErrUserNotFound when the caller does not resolve to
// a record, shared.ErrInvalidTier for an unrecognized tier. Opt-out and
// empty rosters are designed fallbacks, not failures: both produce a
// well-formed response.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*LeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByID(ctx, q.UserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrStorageFailure, "failed to load user", err)
	}

	window := timeutil.CurrentWeekWindow(h.now())

	// Opted-out callers get a stable hidden view so the client can render
	// the opt-out screen without special-casing. Week and a default league
	// config are still populated.
	if u.LeaderboardOptOut {
		cfg, _ := league.ConfigFor(league.DefaultTier)
		return h.emptyResult(window, cfg, true), nil
	}

	tier := league.ResolveTier(q.TierOverride, u.LeagueTier)
	cfg, err := league.ConfigFor(tier)
	if err != nil {
		return nil, err
	}

	roster, err := h.ensureRoster(ctx, q.UserID, tier, window.Start)
	if err != nil {
		return nil, err
	}

	// Degenerate roster after ensure-member is a designed fallback: the
	// response stays well-formed instead of failing the request.
	if len(roster) == 0 {
		h.log.Warn("league roster empty after ensure-member",
			logger.UserID(q.UserID),
			logger.TierName(tier.String()),
			logger.WeekStart(league.WeekKey(window.Start)))
		return h.emptyResult(window, cfg, false), nil
	}

	rows, err := h.loadRanking(ctx, tier, window, roster, q.UserID)
	if err != nil {
		return nil, err
	}

	promo, demo := leaderboard.Zones(cfg, len(rows))

	return &LeaderboardResult{
		Week:              weekDTO(window),
		League:            cfg,
		PromotionZoneRank: promo,
		DemotionZoneRank:  demo,
		Members:           rows,
		Me:                leaderboard.FindRow(rows, q.UserID),
		UserOptedOut:      false,
		GeneratedAt:       h.now().UTC(),
	}, nil
}

// ensureRoster fetches the (week, tier) roster, lazily placing the caller
// on it. Every active, opted-in caller is therefore always present in
// their own leaderboard view.
func (h *GetLeaderboardHandler) ensureRoster(ctx context.Context, userID string, tier league.Tier, weekStart time.Time) ([]string, error) {
	roster, err := h.boards.GetRoster(ctx, weekStart, tier)
	if err != nil && !shared.IsNotFound(err) {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrStorageFailure, "failed to load roster", err)
	}

	if err == nil && contains(roster, userID) {
		return roster, nil
	}

	if err := h.boards.EnsureMember(ctx, userID, tier, weekStart); err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrStorageFailure, "failed to join roster", err)
	}

	roster, err = h.boards.GetRoster(ctx, weekStart, tier)
	if err != nil {
		if shared.IsNotFound(err) {
			// ensure-member raced a rollover or was lost; treated as empty.
			return nil, nil
		}
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrStorageFailure, "failed to reload roster", err)
	}
	return roster, nil
}

// loadRanking returns the ranked rows for the roster, going through the
// optional per-(tier, week) cache. A cached ranking is only served when it
// already contains the caller, so a freshly joined user never sees a view
// without themselves.
func (h *GetLeaderboardHandler) loadRanking(ctx context.Context, tier league.Tier, window timeutil.WeekWindow, roster []string, userID string) ([]leaderboard.Row, error) {
	weekKey := league.WeekKey(window.Start)

	if h.cache != nil {
		if rows, err := h.cache.GetRanking(ctx, tier, weekKey); err == nil {
			if leaderboard.FindRow(rows, userID) != nil {
				return rows, nil
			}
		}
	}

	records, err := h.users.GetByIDs(ctx, roster)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrStorageFailure, "failed to load roster members", err)
	}

	// Opt-out filtering happens here, at read time: opted-out users stay
	// in the stored roster but never appear in a rendered view.
	for id, rec := range records {
		if rec.LeaderboardOptOut {
			delete(records, id)
		}
	}

	totals, err := h.events.WeeklyTotals(ctx, roster, window.Start, window.End)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrStorageFailure, "failed to aggregate weekly xp", err)
	}

	rows := leaderboard.BuildRanking(roster, records, totals)

	if h.cache != nil {
		if err := h.cache.SetRanking(ctx, tier, weekKey, rows); err != nil {
			h.log.Debug("ranking cache write failed", logger.Err(err),
				logger.TierName(tier.String()), logger.WeekStart(weekKey))
		}
	}

	return rows, nil
}

func (h *GetLeaderboardHandler) emptyResult(window timeutil.WeekWindow, cfg league.Config, optedOut bool) *LeaderboardResult {
	return &LeaderboardResult{
		Week:              weekDTO(window),
		League:            cfg,
		PromotionZoneRank: cfg.PromoteCount,
		DemotionZoneRank:  nil,
		Members:           []leaderboard.Row{},
		Me:                nil,
		UserOptedOut:      optedOut,
		GeneratedAt:       h.now().UTC(),
	}
}

func weekDTO(w timeutil.WeekWindow) WeekDTO {
	return WeekDTO{
		Start:            timeutil.FormatDateStr(w.Start),
		End:              timeutil.FormatDateStr(w.End),
		SecondsRemaining: w.SecondsRemaining,
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
