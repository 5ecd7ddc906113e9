package router

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	tg "shipbot/core/telegram"
	"shipbot/core/telegram/commands"
)

// routeCtx implements the slice of tele.Context the text route and its
// middleware touch. Anything beyond that panics via the embedded nil
// interface.
type routeCtx struct {
	tele.Context

	updateID int
	sender   *tele.User
	chat     *tele.Chat
	text     string

	sent  []string
	store map[string]any
}

func newRouteCtx(updateID int, text string) *routeCtx {
	return &routeCtx{
		updateID: updateID,
		sender:   &tele.User{ID: 1, Username: "jane"},
		chat:     &tele.Chat{ID: 1, Type: tele.ChatPrivate},
		text:     text,
		store:    make(map[string]any),
	}
}

func (c *routeCtx) Bot() tele.API         { return nil }
func (c *routeCtx) Update() tele.Update   { return tele.Update{ID: c.updateID} }
func (c *routeCtx) Sender() *tele.User    { return c.sender }
func (c *routeCtx) Chat() *tele.Chat      { return c.chat }
func (c *routeCtx) Text() string          { return c.text }
func (c *routeCtx) Get(key string) any    { return c.store[key] }
func (c *routeCtx) Set(key string, v any) { c.store[key] = v }

func (c *routeCtx) Send(what any, _ ...any) error {
	if text, ok := what.(string); ok {
		c.sent = append(c.sent, text)
	}
	return nil
}

type fakeDialog struct {
	inProgress bool
	handled    []string
}

func (d *fakeDialog) InProgress(int64) bool { return d.inProgress }

func (d *fakeDialog) HandleText(c tele.Context) error {
	d.handled = append(d.handled, c.Text())
	return nil
}

func checkinRegistry(calls *int) *tg.Registry {
	reg := tg.NewRegistry()
	reg.RegisterCommand("/checkin", commands.Command{
		Handler:     func(tele.Context) error { *calls++; return nil },
		Description: "Save a shipping address",
		Aliases:     []string{"!checkin"},
	})
	return reg
}

func TestTextRouteCommandBeatsOpenDialog(t *testing.T) {
	var calls int
	reg := checkinRegistry(&calls)
	dialog := &fakeDialog{inProgress: true}
	route := TextRoute(dialog, reg)

	c := newRouteCtx(101, "!checkin")
	if err := route.Handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if calls != 1 {
		t.Fatalf("command handler calls = %d, want 1", calls)
	}
	if len(dialog.handled) != 0 {
		t.Fatalf("command text leaked into dialog: %v", dialog.handled)
	}
}

func TestTextRouteDialogReceivesAnswer(t *testing.T) {
	var calls int
	reg := checkinRegistry(&calls)
	dialog := &fakeDialog{inProgress: true}
	route := TextRoute(dialog, reg)

	// A plain answer, and a command-shaped string that matches nothing.
	for _, text := range []string{"Jane Doe", "!typo"} {
		c := newRouteCtx(102, text)
		if err := route.Handler(c); err != nil {
			t.Fatalf("handler(%q): %v", text, err)
		}
	}

	if calls != 0 {
		t.Fatalf("command handler calls = %d, want 0", calls)
	}
	if len(dialog.handled) != 2 || dialog.handled[0] != "Jane Doe" || dialog.handled[1] != "!typo" {
		t.Fatalf("dialog received %v", dialog.handled)
	}
}

func TestTextRouteDropsTextWithoutDialog(t *testing.T) {
	var calls int
	reg := checkinRegistry(&calls)
	dialog := &fakeDialog{inProgress: false}
	route := TextRoute(dialog, reg)

	c := newRouteCtx(103, "hello")
	if err := route.Handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if calls != 0 {
		t.Fatalf("command handler calls = %d, want 0", calls)
	}
	if len(dialog.handled) != 0 {
		t.Fatalf("dialog received %v", dialog.handled)
	}
	if len(c.sent) != 0 {
		t.Fatalf("expected no reply, got %v", c.sent)
	}
}
