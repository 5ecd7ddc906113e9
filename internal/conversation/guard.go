package conversation

import (
	"context"

	"shipbot/core/logger"
	"log/slog"
)

// Guard enforces the private-chat policy: once a dialog is open, every
// free-text answer must arrive over a direct chat.
type Guard struct{}

// Admissible reports whether a free-text message may feed the dialog.
func (Guard) Admissible(private, inProgress bool) bool {
	return private || !inProgress
}

// Enforce reacts to an inadmissible message: the offending message is
// deleted and the user is nudged by direct message to continue privately.
// Both calls are best-effort; the open dialog is left untouched so the
// user can retry from the right chat.
func (Guard) Enforce(ctx context.Context, ev Event, gw Gateway) {
	if err := gw.Delete(); err != nil {
		logger.Debug(ctx, "bot", "policy.delete_failed",
			slog.Int64("user_id", ev.UserID),
			slog.String("err", err.Error()),
		)
	}
	if err := gw.Direct(ev.UserID, NoticeContinueInDM); err != nil {
		logger.Debug(ctx, "bot", "policy.nudge_failed",
			slog.Int64("user_id", ev.UserID),
			slog.String("err", err.Error()),
		)
	}
	logger.Warn(ctx, "bot", "policy.redirected",
		slog.Int64("user_id", ev.UserID),
	)
}
