// Package app assembles the cafeteria portals from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/api/controller"
	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
	"github.com/cafeteria/portal-system/internal/core/service"
	"github.com/cafeteria/portal-system/internal/infrastructure/alert"
	"github.com/cafeteria/portal-system/internal/infrastructure/db/mongo"
	"github.com/cafeteria/portal-system/internal/infrastructure/db/redis"
	"github.com/cafeteria/portal-system/internal/infrastructure/db/sqlite"
	apphttp "github.com/cafeteria/portal-system/internal/infrastructure/http"
	"github.com/cafeteria/portal-system/internal/infrastructure/http/handlers"
	"github.com/cafeteria/portal-system/internal/infrastructure/queue"
	"github.com/cafeteria/portal-system/internal/infrastructure/view"
	"github.com/cafeteria/portal-system/internal/pkg/config"
)

const csrfKeyLen = 32

// App is a fully wired set of portals and the web surface serving them.
type App struct {
	Stores   *service.Stores
	Routers  map[domain.Portal]*service.Router
	Surfaces map[domain.Portal]*handlers.Surface
	Login    *service.LoginFlow
	Queue    *queue.Dispatcher
	Echo     *echo.Echo

	idle    *queue.IdleReturn
	log     zerolog.Logger
	closers []func()
}

// New connects the account backend, seeds default accounts and builds the
// three portal routers. Callers must Close the returned App.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if cfg.UI.CSRFKey != "" && len(cfg.UI.CSRFKey) != csrfKeyLen {
		return nil, fmt.Errorf("CSRF_KEY must be %d bytes, got %d", csrfKeyLen, len(cfg.UI.CSRFKey))
	}

	a := &App{log: log}

	backend, pingers, err := a.openBackend(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []service.StoreOption{
		service.WithTimeout(cfg.Store.Timeout),
		service.WithCredentials(service.CredentialsFor(cfg.Store.PasswordMode)),
	}
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		opts = append(opts, service.WithLocker(redis.NewLocker(client)))
		pingers = append(pingers, redis.NewPinger(client))
	}

	a.Stores, err = service.NewStores(backend, log, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	created := a.Stores.Bootstrap(ctx)
	log.Info().Int("created", created).Msg("default accounts checked")

	a.buildPortals(cfg, log)

	targets := make(map[domain.Portal]queue.Target, len(a.Routers))
	for p, r := range a.Routers {
		targets[p] = r
	}
	a.Queue = queue.NewDispatcher(len(domain.Portals), targets, log.With().Str("component", "queue").Logger())

	entries := make(map[domain.Portal]handlers.PortalEntry, len(a.Routers))
	for p, r := range a.Routers {
		entries[p] = handlers.PortalEntry{Router: r, Surface: a.Surfaces[p]}
	}
	if cfg.UI.StudentIdleTimeout > 0 {
		a.idle = queue.NewIdleReturn(domain.PortalStudent, cfg.UI.StudentIdleTimeout, a.Queue, log)
		e := entries[domain.PortalStudent]
		e.Idle = a.idle
		entries[domain.PortalStudent] = e
	}

	portals := handlers.NewPortalHandler(entries, a.Login, log)
	a.Echo = apphttp.NewRouter(portals, log, apphttp.Options{
		CSRFKey: []byte(cfg.UI.CSRFKey),
		Pingers: pingers,
	})
	return a, nil
}

func (a *App) openBackend(ctx context.Context, cfg *config.Config) (ports.AccountBackend, []handlers.Pinger, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Disconnect(context.Background()) })
		backend, err := mongo.NewBackend(ctx, db)
		if err != nil {
			return nil, nil, err
		}
		return backend, []handlers.Pinger{mongo.NewPinger(db)}, nil
	default:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath, a.log)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		return sqlite.NewBackend(db), []handlers.Pinger{sqlite.NewPinger(db)}, nil
	}
}

func (a *App) buildPortals(cfg *config.Config, log zerolog.Logger) {
	registry := view.NewRegistry()
	controller.Register(registry)
	loader := view.NewLoader(view.Resources(cfg.UI.ViewsDir), registry, log)
	dispatcher := service.NewPayloadDispatcher(log)
	operator := alert.NewLog(log)

	a.Routers = make(map[domain.Portal]*service.Router, len(domain.Portals))
	a.Surfaces = make(map[domain.Portal]*handlers.Surface, len(domain.Portals))
	for _, p := range domain.Portals {
		surface := handlers.NewSurface(p)
		router := service.NewRouter(p, loader, dispatcher, log, service.WithExitKey(cfg.UI.FullScreenExitKey))
		router.Initialize(surface, ports.Services{
			Alerts:   alert.Fanout{surface, operator},
			Accounts: a.Stores,
		})
		a.Routers[p] = router
		a.Surfaces[p] = surface
	}

	a.Login = service.NewLoginFlow(a.Stores.Resolver(log), a.Stores.Students, operator, log)
}

// Start runs the background navigation workers until ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	a.Queue.Start(ctx)
	if a.idle != nil {
		go a.idle.Run(ctx)
	}
}

// Close releases database and cache connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
