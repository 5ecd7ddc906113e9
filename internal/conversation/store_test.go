package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreStartResetsDialog(t *testing.T) {
	s := NewStore()

	s.Start(1)
	require.True(t, s.InProgress(1))

	ok := s.Update(1, func(sess *Session) {
		sess.Draft.FullName = "Jane Doe"
		sess.Step = StepAddress
	})
	require.True(t, ok)

	// Restarting throws the half-finished draft away.
	s.Start(1)
	sess, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, StepName, sess.Step)
	assert.Empty(t, sess.Draft.FullName)
	assert.Equal(t, 1, s.Len())
}

func TestStoreGetReturnsSnapshot(t *testing.T) {
	s := NewStore()
	s.Start(7)

	sess, ok := s.Get(7)
	require.True(t, ok)
	sess.Draft.FullName = "mutated copy"

	again, _ := s.Get(7)
	assert.Empty(t, again.Draft.FullName)
}

func TestStoreUpdateMissingSession(t *testing.T) {
	s := NewStore()
	called := false
	ok := s.Update(42, func(*Session) { called = true })
	assert.False(t, ok)
	assert.False(t, called)
}

func TestStoreClearIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Start(5)
	s.Clear(5)
	s.Clear(5)
	assert.False(t, s.InProgress(5))
	assert.Equal(t, 0, s.Len())
}

func TestStoreSweepReclaimsIdleOnly(t *testing.T) {
	s := NewStore()
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Start(1)
	s.Start(2)

	// User 2 answers half an hour later, user 1 goes silent.
	current = current.Add(30 * time.Minute)
	s.Update(2, func(sess *Session) { sess.Step = StepAddress })

	current = current.Add(10 * time.Minute)
	removed := s.Sweep(30 * time.Minute)

	assert.Equal(t, 1, removed)
	assert.False(t, s.InProgress(1))
	assert.True(t, s.InProgress(2))
}

func TestStoreSweepEmpty(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Sweep(time.Minute))
}
