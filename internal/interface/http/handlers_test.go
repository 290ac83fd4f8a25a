package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biteburst/biteburst-leagues/internal/application/command"
	"github.com/biteburst/biteburst-leagues/internal/application/query"
	"github.com/biteburst/biteburst-leagues/internal/domain/league"
	"github.com/biteburst/biteburst-leagues/internal/domain/shared"
	"github.com/biteburst/biteburst-leagues/internal/domain/user"
	"github.com/biteburst/biteburst-leagues/internal/domain/xp"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	users map[string]*user.User
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	result := make(map[string]*user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			clone := *u
			result[id] = &clone
		}
	}
	return result, nil
}

func (r *memUserRepo) SetOptOut(ctx context.Context, id string, optOut bool) error {
	u, ok := r.users[id]
	if !ok {
		return shared.ErrUserNotFound
	}
	u.LeaderboardOptOut = optOut
	return nil
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

type memBoardRepo struct {
	rosters map[string][]string
}

func memBoardKey(weekStart time.Time, tier league.Tier) string {
	return league.WeekKey(weekStart) + "/" + tier.String()
}

func (r *memBoardRepo) GetRoster(ctx context.Context, weekStart time.Time, tier league.Tier) ([]string, error) {
	roster, ok := r.rosters[memBoardKey(weekStart, tier)]
	if !ok {
		return nil, shared.ErrBoardNotFound
	}
	return append([]string(nil), roster...), nil
}

func (r *memBoardRepo) EnsureMember(ctx context.Context, userID string, tier league.Tier, weekStart time.Time) error {
	key := memBoardKey(weekStart, tier)
	for _, id := range r.rosters[key] {
		if id == userID {
			return nil
		}
	}
	r.rosters[key] = append(r.rosters[key], userID)
	return nil
}

type memXPRepo struct{}

func (r *memXPRepo) WeeklyTotals(ctx context.Context, userIDs []string, start, end time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

func (r *memXPRepo) RecordEvent(ctx context.Context, e *xp.Event) error {
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Test server setup
// ─────────────────────────────────────────────────────────────────────────────

func newTestServer(t *testing.T) (*Server, *memUserRepo) {
	t.Helper()

	users := &memUserRepo{users: map[string]*user.User{
		"u1": {ID: "u1", DisplayName: "Uma One", Streak: 3, LeagueTier: "bronze"},
	}}
	boards := &memBoardRepo{rosters: map[string][]string{}}
	events := &memXPRepo{}

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	srv := NewServer(cfg, Dependencies{
		GetLeaderboardHandler: query.NewGetLeaderboardHandler(users, boards, events, nil, nil),
		SetOptOutHandler:      command.NewSetOptOutHandler(users, nil),
	})

	return srv, users
}

func doRequest(srv *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ─────────────────────────────────────────────────────────────────────────────
// Leaderboard endpoint
// ─────────────────────────────────────────────────────────────────────────────

func TestGetLeaderboard_OK(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/v1/leaderboard/u1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data, "week")
	assert.Contains(t, data, "league")
	assert.Contains(t, data, "members")
	assert.Contains(t, data, "me")

	me, ok := data["me"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u1", me["user_id"])
	assert.Equal(t, float64(1), me["rank"])
}

func TestGetLeaderboard_UnknownUser(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/v1/leaderboard/nobody", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "user_not_found", resp.Error.Code)
}

func TestGetLeaderboard_InvalidTier(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/v1/leaderboard/u1?tier=diamond", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_tier", resp.Error.Code)
}

func TestGetLeaderboard_TierOverride(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/v1/leaderboard/u1?tier=gold", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	leagueData := data["league"].(map[string]interface{})
	assert.Equal(t, "gold", leagueData["tier"])
}

// ─────────────────────────────────────────────────────────────────────────────
// Opt-out endpoint
// ─────────────────────────────────────────────────────────────────────────────

func TestSetOptOut_OK(t *testing.T) {
	srv, users := newTestServer(t)

	body := []byte(`{"opt_out": true}`)
	rec := doRequest(srv, http.MethodPost, "/api/v1/users/u1/leaderboard/opt-out", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, users.users["u1"].LeaderboardOptOut)

	// Opted-out user now gets the hidden view
	view := doRequest(srv, http.MethodGet, "/api/v1/leaderboard/u1", nil)
	require.Equal(t, http.StatusOK, view.Code)
	data := decodeEnvelope(t, view).Data.(map[string]interface{})
	assert.Equal(t, true, data["user_opted_out"])
}

func TestSetOptOut_UnknownUser(t *testing.T) {
	srv, _ := newTestServer(t)

	body := []byte(`{"opt_out": true}`)
	rec := doRequest(srv, http.MethodPost, "/api/v1/users/ghost/leaderboard/opt-out", body)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetOptOut_BadBody(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/v1/users/u1/leaderboard/opt-out", []byte("{not json"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Health & middleware
// ─────────────────────────────────────────────────────────────────────────────

type failingHealthChecker struct{}

func (failingHealthChecker) Ready(ctx context.Context) error {
	return errors.New("postgres unreachable")
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/health", "/healthz", "/ready", "/live"} {
		rec := doRequest(srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestReady_FailingChecker(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.deps.HealthChecker = failingHealthChecker{}

	rec := doRequest(srv, http.MethodGet, "/ready", nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "test-req-42")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, "test-req-42", rec.Header().Get("X-Request-ID"))
}

func TestRateLimitExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 2

	users := &memUserRepo{users: map[string]*user.User{}}
	srv := NewServer(cfg, Dependencies{
		SetOptOutHandler: command.NewSetOptOutHandler(users, nil),
	})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = doRequest(srv, http.MethodGet, "/live", nil)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
}
