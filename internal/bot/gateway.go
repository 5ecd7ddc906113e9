package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "shipbot/core/telegram/helpers"
	"shipbot/internal/conversation"
)

// teleGateway adapts a tele.Context to the conversation.Gateway surface.
// Replies ride the async dispatcher; direct messages stay synchronous so
// the caller learns immediately whether the user's private chat is open.
type teleGateway struct {
	c tele.Context
}

func (g teleGateway) Reply(text string) error {
	return tghelpers.SendText(g.c, text)
}

func (g teleGateway) Direct(userID int64, text string) error {
	return tghelpers.DirectText(g.c, userID, text)
}

func (g teleGateway) Delete() error {
	return g.c.Delete()
}

// eventFrom normalizes an inbound update into a conversation event.
func eventFrom(c tele.Context) conversation.Event {
	ev := conversation.Event{Text: c.Text()}
	if sender := c.Sender(); sender != nil {
		ev.UserID = sender.ID
		ev.Username = displayName(sender)
	}
	if chat := c.Chat(); chat != nil {
		ev.Private = chat.Type == tele.ChatPrivate
	}
	return ev
}

// displayName prefers the public @username and falls back to the first name,
// which Telegram guarantees to be non-empty.
func displayName(u *tele.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}
