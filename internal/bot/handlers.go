package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	tele "gopkg.in/telebot.v4"

	"shipbot/core/logger"
	tghelpers "shipbot/core/telegram/helpers"
	"shipbot/internal/conversation"
	"shipbot/internal/storage"
)

// AddressStore is the persistence surface the command handlers need.
type AddressStore interface {
	SaveAddress(ctx context.Context, telegramID int64, username string, in storage.AddressInput) (*storage.Address, error)
	ListByOwner(ctx context.Context, telegramID int64) ([]storage.Address, error)
	DeleteAllByOwner(ctx context.Context, telegramID int64) (int64, error)
}

// Handlers bundles the command handlers with their dependencies.
type Handlers struct {
	sessions  *conversation.Store
	addresses AddressStore
}

// NewHandlers wires the command handlers.
func NewHandlers(sessions *conversation.Store, addresses AddressStore) *Handlers {
	return &Handlers{
		sessions:  sessions,
		addresses: addresses,
	}
}

// Checkin opens (or restarts) the address-collection dialog. In a group
// chat the first prompt goes out by direct message so the answers never
// touch the public channel.
func (h *Handlers) Checkin(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := tghelpers.WithHandler(c, "checkin")
	gw := teleGateway{c: c}

	// Restarting mid-dialog is allowed and discards the old draft.
	h.sessions.Start(sender.ID)
	logger.Info(ctx, "bot", "dialog.started",
		slog.Int64("user_id", sender.ID),
	)

	if isPrivate(c) {
		return gw.Reply(conversation.PromptName)
	}

	if err := gw.Direct(sender.ID, conversation.PromptName); err != nil {
		h.sessions.Clear(sender.ID)
		logger.Warn(ctx, "bot", "dialog.dm_unreachable",
			slog.Int64("user_id", sender.ID),
			slog.String("err", err.Error()),
		)
		return gw.Reply(noticeCheckinNoDM)
	}
	return gw.Reply(noticeCheckinStarted)
}

// Check lists the caller's saved addresses, newest first. Stored answers
// are personal data, so the command answers in private chats only.
func (h *Handlers) Check(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	gw := teleGateway{c: c}
	if !isPrivate(c) {
		return gw.Reply(noticeUseDM)
	}
	ctx := tghelpers.WithHandler(c, "check")

	addrs, err := h.addresses.ListByOwner(ctx, sender.ID)
	if err != nil {
		logger.Error(ctx, "bot", "address.list_failed",
			slog.Int64("user_id", sender.ID),
			slog.String("err", err.Error()),
		)
		return gw.Reply(noticeCommandFailed)
	}
	if len(addrs) == 0 {
		return gw.Reply(noticeListEmpty)
	}

	cards := lo.Map(addrs, func(a storage.Address, _ int) string {
		return formatAddress(a)
	})
	sep := "\n" + strings.Repeat("─", 20) + "\n"
	return gw.Reply(noticeListHead + "\n\n" + strings.Join(cards, sep))
}

// Delete removes every address the caller has saved and reports the count,
// zero included.
func (h *Handlers) Delete(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	gw := teleGateway{c: c}
	if !isPrivate(c) {
		return gw.Reply(noticeUseDM)
	}
	ctx := tghelpers.WithHandler(c, "delete")

	count, err := h.addresses.DeleteAllByOwner(ctx, sender.ID)
	if err != nil {
		logger.Error(ctx, "bot", "address.delete_failed",
			slog.Int64("user_id", sender.ID),
			slog.String("err", err.Error()),
		)
		return gw.Reply(noticeCommandFailed)
	}
	return gw.Reply(noticePurged(count))
}

func isPrivate(c tele.Context) bool {
	chat := c.Chat()
	return chat != nil && chat.Type == tele.ChatPrivate
}

func formatAddress(a storage.Address) string {
	return fmt.Sprintf("👤 %s\n🏠 %s\n📞 %s\n📧 %s\n🕓 %s",
		a.FullName,
		a.FullAddress,
		a.PhoneNumber,
		a.Email,
		a.CreatedAt.Format("2006-01-02 15:04"),
	)
}
