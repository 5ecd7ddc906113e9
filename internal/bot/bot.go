package bot

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	tg "shipbot/core/telegram"
	"shipbot/core/telegram/commands"
	tghelpers "shipbot/core/telegram/helpers"
	"shipbot/core/telegram/middleware"
	"shipbot/core/telegram/router"
	"shipbot/internal/conversation"
	"shipbot/internal/storage"
)

// App owns the assembled bot: session store, dialog engine, persistence and
// the command registry.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	sessions *conversation.Store
	engine   *conversation.Engine
	registry *tg.Registry
}

// NewApp assembles the application from configuration and a connected
// database.
func NewApp(cfg *Config, db *sqlx.DB) *App {
	sessions := conversation.NewStore()
	addresses := storage.NewAddresses(db)
	engine := conversation.NewEngine(sessions, recordPersister{addresses: addresses})
	handlers := NewHandlers(sessions, addresses)

	reg := tg.NewRegistry()
	reg.RegisterCommand("/checkin", commands.Command{
		Handler:     handlers.Checkin,
		Description: "Save a shipping address",
		Aliases:     []string{"!checkin"},
	})
	reg.RegisterCommand("/check", commands.Command{
		Handler:     handlers.Check,
		Description: "List your saved addresses",
		Aliases:     []string{"!check"},
	})
	reg.RegisterCommand("/delete", commands.Command{
		Handler:     handlers.Delete,
		Description: "Delete all your saved addresses",
		Aliases:     []string{"!delete"},
	})

	return &App{
		cfg:      cfg,
		db:       db,
		sessions: sessions,
		engine:   engine,
		registry: reg,
	}
}

// TelegramRunOptions builds the runtime options for the Telegram front end.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.registry)
	routes = append(routes, router.TextRoute(dialogAdapter{engine: a.engine}, a.registry))

	middlewares := []tg.Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}
	if interval := a.cfg.RateLimit.IntervalMS; interval > 0 {
		middlewares = append(middlewares, tg.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(interval) * time.Millisecond,
			}),
		})
	}

	return tg.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    a.registry,
		Middlewares: middlewares,
		Routes:      routes,
		OnStart: func(ctx context.Context, _ tg.Runtime) error {
			go a.sessions.Janitor(ctx,
				a.cfg.Conversation.SweepInterval(),
				a.cfg.Conversation.IdleTTL(),
			)
			return nil
		},
		OnStop: func(context.Context, tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}

// recordPersister feeds completed dialogs into address storage.
type recordPersister struct {
	addresses AddressStore
}

func (p recordPersister) Save(ctx context.Context, rec conversation.Record) error {
	_, err := p.addresses.SaveAddress(ctx, rec.Owner, rec.DisplayName, storage.AddressInput{
		FullName:    rec.Draft.FullName,
		FullAddress: rec.Draft.FullAddress,
		PhoneNumber: rec.Draft.PhoneNumber,
		Email:       rec.Draft.Email,
	})
	return err
}

// dialogAdapter exposes the conversation engine to the text route.
type dialogAdapter struct {
	engine *conversation.Engine
}

func (d dialogAdapter) InProgress(userID int64) bool {
	return d.engine.InProgress(userID)
}

func (d dialogAdapter) HandleText(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "dialog")
	return d.engine.HandleEvent(ctx, eventFrom(c), teleGateway{c: c})
}
