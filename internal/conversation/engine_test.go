package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	replies []string
	directs []string
	deletes int

	directErr error
	deleteErr error
}

func (g *fakeGateway) Reply(text string) error {
	g.replies = append(g.replies, text)
	return nil
}

func (g *fakeGateway) Direct(_ int64, text string) error {
	if g.directErr != nil {
		return g.directErr
	}
	g.directs = append(g.directs, text)
	return nil
}

func (g *fakeGateway) Delete() error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deletes++
	return nil
}

type fakePersister struct {
	saved []Record
	err   error
}

func (p *fakePersister) Save(_ context.Context, rec Record) error {
	if p.err != nil {
		return p.err
	}
	p.saved = append(p.saved, rec)
	return nil
}

func privateText(userID int64, text string) Event {
	return Event{UserID: userID, Username: "jane", Private: true, Text: text}
}

func TestEngineFullDialog(t *testing.T) {
	store := NewStore()
	persist := &fakePersister{}
	engine := NewEngine(store, persist)
	gw := &fakeGateway{}
	ctx := context.Background()

	store.Start(1)

	answers := []string{"Jane Doe", "1 Main St, Springfield", "+1 555 0100", "jane@example.com"}
	for _, answer := range answers {
		require.NoError(t, engine.HandleEvent(ctx, privateText(1, answer), gw))
	}

	require.Len(t, gw.replies, 4)
	assert.Equal(t, PromptAddress("Jane Doe"), gw.replies[0])
	assert.Equal(t, PromptPhone, gw.replies[1])
	assert.Equal(t, PromptEmail, gw.replies[2])
	assert.Equal(t, NoticeSaved, gw.replies[3])

	require.Len(t, persist.saved, 1)
	rec := persist.saved[0]
	assert.Equal(t, int64(1), rec.Owner)
	assert.Equal(t, "jane", rec.DisplayName)
	assert.Equal(t, Draft{
		FullName:    "Jane Doe",
		FullAddress: "1 Main St, Springfield",
		PhoneNumber: "+1 555 0100",
		Email:       "jane@example.com",
	}, rec.Draft)

	assert.False(t, store.InProgress(1), "session must end on completion")
}

func TestEngineAcceptsEmptyAnswers(t *testing.T) {
	store := NewStore()
	persist := &fakePersister{}
	engine := NewEngine(store, persist)
	gw := &fakeGateway{}
	ctx := context.Background()

	store.Start(1)
	for i := 0; i < 4; i++ {
		require.NoError(t, engine.HandleEvent(ctx, privateText(1, ""), gw))
	}

	require.Len(t, persist.saved, 1)
	assert.Equal(t, Draft{}, persist.saved[0].Draft)
	assert.False(t, store.InProgress(1))
}

func TestEngineNoSessionIsNoOp(t *testing.T) {
	store := NewStore()
	persist := &fakePersister{}
	engine := NewEngine(store, persist)
	gw := &fakeGateway{}

	require.NoError(t, engine.HandleEvent(context.Background(), privateText(9, "hello"), gw))

	assert.Empty(t, gw.replies)
	assert.Empty(t, persist.saved)
}

func TestEngineGroupMessageRedirected(t *testing.T) {
	store := NewStore()
	persist := &fakePersister{}
	engine := NewEngine(store, persist)
	gw := &fakeGateway{}
	ctx := context.Background()

	store.Start(1)

	ev := Event{UserID: 1, Username: "jane", Private: false, Text: "Jane Doe"}
	require.NoError(t, engine.HandleEvent(ctx, ev, gw))

	assert.Equal(t, 1, gw.deletes)
	assert.Equal(t, []string{NoticeContinueInDM}, gw.directs)
	assert.Empty(t, gw.replies)

	// The dialog neither advanced nor absorbed the public answer.
	sess, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, StepName, sess.Step)
	assert.Empty(t, sess.Draft.FullName)
}

func TestEngineGroupEnforcementBestEffort(t *testing.T) {
	store := NewStore()
	engine := NewEngine(store, &fakePersister{})
	gw := &fakeGateway{
		directErr: errors.New("user blocked the bot"),
		deleteErr: errors.New("not an admin"),
	}

	store.Start(1)
	ev := Event{UserID: 1, Private: false, Text: "leak"}
	require.NoError(t, engine.HandleEvent(context.Background(), ev, gw))

	assert.True(t, store.InProgress(1), "enforcement failures must not end the dialog")
}

func TestEngineGroupMessageWithoutDialogIgnored(t *testing.T) {
	store := NewStore()
	engine := NewEngine(store, &fakePersister{})
	gw := &fakeGateway{}

	ev := Event{UserID: 3, Private: false, Text: "just chatting"}
	require.NoError(t, engine.HandleEvent(context.Background(), ev, gw))

	assert.Equal(t, 0, gw.deletes)
	assert.Empty(t, gw.directs)
	assert.Empty(t, gw.replies)
}

func TestEnginePersistFailureEndsDialog(t *testing.T) {
	store := NewStore()
	persist := &fakePersister{err: errors.New("db down")}
	engine := NewEngine(store, persist)
	gw := &fakeGateway{}
	ctx := context.Background()

	store.Start(1)
	answers := []string{"Jane Doe", "1 Main St", "+1 555 0100", "jane@example.com"}
	for _, answer := range answers {
		require.NoError(t, engine.HandleEvent(ctx, privateText(1, answer), gw))
	}

	require.Len(t, gw.replies, 4)
	assert.Equal(t, NoticeSaveFailed, gw.replies[3])
	assert.False(t, store.InProgress(1), "a failed save still ends the dialog")
}
