package conversation

import (
	"context"
	"sync"
	"time"

	"shipbot/core/logger"
	"log/slog"
)

// Store keeps at most one in-progress dialog per user, keyed by the
// Telegram user ID. All access goes through the store's lock so the janitor
// can observe activity timestamps safely.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	now      func() time.Time
}

// NewStore constructs an empty in-memory session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

// Start creates a fresh session at the first step for a user, silently
// discarding any dialog already in progress.
func (s *Store) Start(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sessions[userID] = &Session{
		Step:      StepName,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Get returns a snapshot of the user's session if one exists.
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Update applies fn to the user's session under the store lock and bumps
// the activity timestamp. It reports whether a session existed.
func (s *Store) Update(userID int64, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return false
	}
	fn(sess)
	sess.UpdatedAt = s.now()
	return true
}

// Clear removes the session for a user.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// InProgress reports whether the user currently has an open dialog.
func (s *Store) InProgress(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[userID]
	return ok
}

// Len returns the number of open dialogs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle longer than maxIdle and returns how many
// were reclaimed.
func (s *Store) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for userID, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt) > maxIdle {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}

// Janitor periodically sweeps abandoned dialogs until ctx is done.
func (s *Store) Janitor(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(maxIdle); removed > 0 {
				logger.BOT.Info("stale dialogs reclaimed",
					slog.String("event", "session.sweep"),
					slog.Int("removed", removed),
					slog.Int("remaining", s.Len()),
				)
			}
		}
	}
}
