package router

import (
	"strings"
	"time"

	tg "shipbot/core/telegram"
	"shipbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Dialog defines the minimal interface for the conversation engine.
type Dialog interface {
	InProgress(userID int64) bool
	HandleText(c tele.Context) error
}

// TextRoute builds the free-text dispatch route.
//
// A recognized command (slash or legacy prefix spelling) always wins over an
// open dialog; otherwise the text feeds the dialog if one is in progress.
// Free text from users with no open dialog is dropped without a reply.
func TextRoute(dialog Dialog, reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil && isCommandShaped(text) {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if dialog != nil && c.Sender() != nil && dialog.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "dialog", start, "", "", func() error {
				return dialog.HandleText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// isCommandShaped keeps ordinary dialog answers from being mistaken for
// commands: only slash and legacy-prefix spellings reach the registry.
func isCommandShaped(text string) bool {
	text = strings.TrimSpace(text)
	return strings.HasPrefix(text, "/") || strings.HasPrefix(text, "!")
}
