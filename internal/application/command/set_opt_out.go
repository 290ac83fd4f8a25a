// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/biteburst/biteburst-leagues/internal/domain/shared"
	"github.com/biteburst/biteburst-leagues/internal/domain/user"
	"github.com/biteburst/biteburst-leagues/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET OPT-OUT COMMAND
// Flips a user's leaderboard opt-out flag. A user who opts out mid-week
// stays in the stored roster; the façade filters them from views on the
// next read, so flipping back restores them without any roster repair.
// ══════════════════════════════════════════════════════════════════════════════

// SetOptOutCommand contains the opt-out change.
type SetOptOutCommand struct {
	// UserID is the user whose flag changes.
	UserID string

	// OptOut is the new value: true hides the user from all views.
	OptOut bool
}

// Validate validates the command.
func (c SetOptOutCommand) Validate() error {
	if c.UserID == "" {
		return shared.WrapError("command", "SetOptOut", shared.ErrValidation, "user id is required", nil)
	}
	return nil
}

// SetOptOutHandler handles opt-out changes.
type SetOptOutHandler struct {
	users user.Repository
	log   *logger.Logger
}

// NewSetOptOutHandler creates the opt-out command handler.
func NewSetOptOutHandler(users user.Repository, log *logger.Logger) *SetOptOutHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SetOptOutHandler{users: users, log: log}
}

// Handle applies the opt-out change.
// Returns shared.ErrUserNotFound when the user does not exist.
func (h *SetOptOutHandler) Handle(ctx context.Context, cmd SetOptOutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.users.SetOptOut(ctx, cmd.UserID, cmd.OptOut); err != nil {
		if shared.IsNotFound(err) {
			return shared.ErrUserNotFound
		}
		return shared.WrapError("command", "SetOptOut", shared.ErrStorageFailure, "failed to update opt-out flag", err)
	}

	h.log.Info("leaderboard opt-out updated",
		logger.UserID(cmd.UserID),
		logger.Bool("opt_out", cmd.OptOut))

	return nil
}
