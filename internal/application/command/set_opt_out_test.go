package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biteburst/biteburst-leagues/internal/domain/shared"
	"github.com/biteburst/biteburst-leagues/internal/domain/user"
)

type stubUserRepo struct {
	flags   map[string]bool
	failErr error
}

func newStubUserRepo(ids ...string) *stubUserRepo {
	r := &stubUserRepo{flags: make(map[string]bool)}
	for _, id := range ids {
		r.flags[id] = false
	}
	return r
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	if _, ok := r.flags[id]; !ok {
		return nil, shared.ErrUserNotFound
	}
	return &user.User{ID: id, LeaderboardOptOut: r.flags[id]}, nil
}

func (r *stubUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	return nil, errors.New("not used")
}

func (r *stubUserRepo) SetOptOut(ctx context.Context, id string, optOut bool) error {
	if r.failErr != nil {
		return r.failErr
	}
	if _, ok := r.flags[id]; !ok {
		return shared.ErrUserNotFound
	}
	r.flags[id] = optOut
	return nil
}

func (r *stubUserRepo) Create(ctx context.Context, u *user.User) error {
	return errors.New("not used")
}

func TestSetOptOut_FlipsFlag(t *testing.T) {
	repo := newStubUserRepo("u1")
	h := NewSetOptOutHandler(repo, nil)

	require.NoError(t, h.Handle(context.Background(), SetOptOutCommand{UserID: "u1", OptOut: true}))
	assert.True(t, repo.flags["u1"])

	require.NoError(t, h.Handle(context.Background(), SetOptOutCommand{UserID: "u1", OptOut: false}))
	assert.False(t, repo.flags["u1"])
}

func TestSetOptOut_Idempotent(t *testing.T) {
	repo := newStubUserRepo("u1")
	h := NewSetOptOutHandler(repo, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, h.Handle(context.Background(), SetOptOutCommand{UserID: "u1", OptOut: true}))
	}
	assert.True(t, repo.flags["u1"])
}

func TestSetOptOut_UserNotFound(t *testing.T) {
	repo := newStubUserRepo()
	h := NewSetOptOutHandler(repo, nil)

	err := h.Handle(context.Background(), SetOptOutCommand{UserID: "missing", OptOut: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestSetOptOut_MissingUserID(t *testing.T) {
	h := NewSetOptOutHandler(newStubUserRepo(), nil)

	err := h.Handle(context.Background(), SetOptOutCommand{OptOut: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestSetOptOut_StorageFailureWrapped(t *testing.T) {
	repo := newStubUserRepo("u1")
	repo.failErr = errors.New("connection reset")
	h := NewSetOptOutHandler(repo, nil)

	err := h.Handle(context.Background(), SetOptOutCommand{UserID: "u1", OptOut: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrStorageFailure)
}
