package conversation

import (
	"context"

	"shipbot/core/logger"
	"log/slog"
)

// Persister is the storage contract the dialog depends on. A save either
// fully lands or fails; the engine never retries it.
type Persister interface {
	Save(ctx context.Context, rec Record) error
}

// Engine advances per-user dialogs one step per admissible free-text
// message and hands the completed record to persistence.
type Engine struct {
	sessions *Store
	guard    Guard
	persist  Persister
}

// NewEngine wires the dialog engine with its session store and persistence.
func NewEngine(sessions *Store, persist Persister) *Engine {
	return &Engine{
		sessions: sessions,
		persist:  persist,
	}
}

// InProgress reports whether the user has an open dialog.
func (e *Engine) InProgress(userID int64) bool {
	return e.sessions.InProgress(userID)
}

// HandleEvent feeds one inbound free-text message into the user's dialog.
//
// Answers are accepted verbatim, empty strings included. The draft is
// mutated before the single outbound reply is sent, so a reply that never
// arrives leaves the dialog correctly advanced. On the final step the
// session is cleared whether persistence succeeded or not; recovery is
// always "start over".
func (e *Engine) HandleEvent(ctx context.Context, ev Event, gw Gateway) error {
	inProgress := e.sessions.InProgress(ev.UserID)
	if !e.guard.Admissible(ev.Private, inProgress) {
		e.guard.Enforce(ctx, ev, gw)
		return nil
	}
	if !inProgress {
		return nil
	}

	sess, ok := e.sessions.Get(ev.UserID)
	if !ok {
		return nil
	}

	switch sess.Step {
	case StepName:
		e.sessions.Update(ev.UserID, func(s *Session) {
			s.Draft.FullName = ev.Text
			s.Step = StepAddress
		})
		return gw.Reply(PromptAddress(ev.Text))

	case StepAddress:
		e.sessions.Update(ev.UserID, func(s *Session) {
			s.Draft.FullAddress = ev.Text
			s.Step = StepPhone
		})
		return gw.Reply(PromptPhone)

	case StepPhone:
		e.sessions.Update(ev.UserID, func(s *Session) {
			s.Draft.PhoneNumber = ev.Text
			s.Step = StepEmail
		})
		return gw.Reply(PromptEmail)

	case StepEmail:
		e.sessions.Update(ev.UserID, func(s *Session) {
			s.Draft.Email = ev.Text
		})
		draft := sess.Draft
		draft.Email = ev.Text

		rec := Record{
			Owner:       ev.UserID,
			DisplayName: ev.Username,
			Draft:       draft,
		}
		err := e.persist.Save(ctx, rec)
		// The dialog ends here either way; recovery is /checkin, not a retry.
		e.sessions.Clear(ev.UserID)
		if err != nil {
			logger.Error(ctx, "bot", "dialog.save_failed",
				slog.Int64("user_id", ev.UserID),
				slog.String("err", err.Error()),
			)
			return gw.Reply(NoticeSaveFailed)
		}
		logger.Info(ctx, "bot", "dialog.completed",
			slog.Int64("user_id", ev.UserID),
		)
		return gw.Reply(NoticeSaved)
	}

	return nil
}
