package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"shipbot/internal/conversation"
	"shipbot/internal/storage"
)

// fakeTeleCtx implements the slice of tele.Context the handlers touch.
// Anything else panics via the embedded nil interface, which is the point:
// handlers must not reach beyond what these tests declare.
type fakeTeleCtx struct {
	tele.Context

	sender *tele.User
	chat   *tele.Chat
	text   string

	sent  []string
	store map[string]any
}

func newFakeCtx(userID int64, chatType tele.ChatType) *fakeTeleCtx {
	return &fakeTeleCtx{
		sender: &tele.User{ID: userID, Username: "jane"},
		chat:   &tele.Chat{ID: userID, Type: chatType},
		store:  make(map[string]any),
	}
}

func (c *fakeTeleCtx) Bot() tele.API        { return nil }
func (c *fakeTeleCtx) Update() tele.Update  { return tele.Update{ID: 1} }
func (c *fakeTeleCtx) Sender() *tele.User   { return c.sender }
func (c *fakeTeleCtx) Chat() *tele.Chat     { return c.chat }
func (c *fakeTeleCtx) Text() string         { return c.text }
func (c *fakeTeleCtx) Delete() error        { return nil }
func (c *fakeTeleCtx) Get(key string) any   { return c.store[key] }
func (c *fakeTeleCtx) Set(key string, v any) { c.store[key] = v }

func (c *fakeTeleCtx) Send(what any, _ ...any) error {
	text, ok := what.(string)
	if !ok {
		return errors.New("fake only sends text")
	}
	c.sent = append(c.sent, text)
	return nil
}

type fakeStore struct {
	addrs     []storage.Address
	listErr   error
	deleted   int64
	deleteErr error

	listCalls   int
	deleteCalls int
}

func (s *fakeStore) SaveAddress(context.Context, int64, string, storage.AddressInput) (*storage.Address, error) {
	return nil, errors.New("not used")
}

func (s *fakeStore) ListByOwner(context.Context, int64) ([]storage.Address, error) {
	s.listCalls++
	return s.addrs, s.listErr
}

func (s *fakeStore) DeleteAllByOwner(context.Context, int64) (int64, error) {
	s.deleteCalls++
	return s.deleted, s.deleteErr
}

func TestCheckinPrivateStartsDialog(t *testing.T) {
	sessions := conversation.NewStore()
	h := NewHandlers(sessions, &fakeStore{})
	c := newFakeCtx(1, tele.ChatPrivate)

	require.NoError(t, h.Checkin(c))

	assert.True(t, sessions.InProgress(1))
	require.Len(t, c.sent, 1)
	assert.Equal(t, conversation.PromptName, c.sent[0])
}

func TestCheckinGroupWithoutDirectChat(t *testing.T) {
	sessions := conversation.NewStore()
	h := NewHandlers(sessions, &fakeStore{})
	c := newFakeCtx(1, tele.ChatGroup)

	// The fake has no bot, so the direct message cannot go out.
	require.NoError(t, h.Checkin(c))

	assert.False(t, sessions.InProgress(1), "unreachable DM must not leave a dialog open")
	require.Len(t, c.sent, 1)
	assert.Equal(t, noticeCheckinNoDM, c.sent[0])
}

func TestCheckGroupRejected(t *testing.T) {
	store := &fakeStore{}
	h := NewHandlers(conversation.NewStore(), store)
	c := newFakeCtx(1, tele.ChatGroup)

	require.NoError(t, h.Check(c))

	assert.Equal(t, 0, store.listCalls)
	require.Len(t, c.sent, 1)
	assert.Equal(t, noticeUseDM, c.sent[0])
}

func TestCheckEmptyList(t *testing.T) {
	h := NewHandlers(conversation.NewStore(), &fakeStore{})
	c := newFakeCtx(1, tele.ChatPrivate)

	require.NoError(t, h.Check(c))

	require.Len(t, c.sent, 1)
	assert.Equal(t, noticeListEmpty, c.sent[0])
}

func TestCheckListsAddresses(t *testing.T) {
	created := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	store := &fakeStore{addrs: []storage.Address{
		{FullName: "Jane Doe", FullAddress: "1 Main St", PhoneNumber: "+1 555 0100", Email: "jane@example.com", CreatedAt: created},
		{FullName: "Old Entry", FullAddress: "2 Side St", PhoneNumber: "+1 555 0101", Email: "old@example.com", CreatedAt: created.Add(-time.Hour)},
	}}
	h := NewHandlers(conversation.NewStore(), store)
	c := newFakeCtx(1, tele.ChatPrivate)

	require.NoError(t, h.Check(c))

	require.Len(t, c.sent, 1)
	out := c.sent[0]
	assert.True(t, strings.HasPrefix(out, noticeListHead))
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Old Entry")
	assert.Less(t, strings.Index(out, "Jane Doe"), strings.Index(out, "Old Entry"))
}

func TestCheckListFailure(t *testing.T) {
	h := NewHandlers(conversation.NewStore(), &fakeStore{listErr: errors.New("db down")})
	c := newFakeCtx(1, tele.ChatPrivate)

	require.NoError(t, h.Check(c))

	require.Len(t, c.sent, 1)
	assert.Equal(t, noticeCommandFailed, c.sent[0])
}

func TestDeleteGroupRejected(t *testing.T) {
	store := &fakeStore{}
	h := NewHandlers(conversation.NewStore(), store)
	c := newFakeCtx(1, tele.ChatSuperGroup)

	require.NoError(t, h.Delete(c))

	assert.Equal(t, 0, store.deleteCalls)
	require.Len(t, c.sent, 1)
	assert.Equal(t, noticeUseDM, c.sent[0])
}

func TestDeleteReportsCount(t *testing.T) {
	for _, tc := range []struct {
		name    string
		deleted int64
		want    string
	}{
		{"zero", 0, noticePurged(0)},
		{"one", 1, noticePurged(1)},
		{"many", 3, noticePurged(3)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandlers(conversation.NewStore(), &fakeStore{deleted: tc.deleted})
			c := newFakeCtx(1, tele.ChatPrivate)

			require.NoError(t, h.Delete(c))

			require.Len(t, c.sent, 1)
			assert.Equal(t, tc.want, c.sent[0])
		})
	}
}
