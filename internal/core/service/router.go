package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/api/metrics"
	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

var _ ports.Navigator = (*Router)(nil)

// DefaultExitKey leaves full-screen mode on admin and student portals.
const DefaultExitKey = "ESCAPE"

// RouterOption customises a Router at construction.
type RouterOption func(*Router)

// WithExitKey sets the key that leaves full-screen mode.
func WithExitKey(key string) RouterOption {
	return func(r *Router) {
		if key != "" {
			r.exitKey = key
		}
	}
}

// Router loads, caches and switches the views of one portal.
//
// Navigation is serialised: resolve-or-build, payload dispatch and the
// surface swap happen under one mutex. Controllers must therefore not
// navigate, or wait on an account store, from inside Bind or a setter.
type Router struct {
	portal     domain.Portal
	loader     ports.ViewLoader
	dispatcher *PayloadDispatcher
	exitKey    string
	log        zerolog.Logger

	mu       sync.Mutex
	surface  ports.Surface
	services ports.Services
	views    map[string]ports.View
	current  string
}

func NewRouter(portal domain.Portal, loader ports.ViewLoader, dispatcher *PayloadDispatcher, log zerolog.Logger, opts ...RouterOption) *Router {
	r := &Router{
		portal:     portal,
		loader:     loader,
		dispatcher: dispatcher,
		exitKey:    DefaultExitKey,
		log:        log.With().Str("portal", string(portal)).Logger(),
		views:      make(map[string]ports.View),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Portal() domain.Portal { return r.portal }

// Initialize binds the router to its rendering surface and service bundle.
// A second call replaces the previous binding.
func (r *Router) Initialize(surface ports.Surface, services ports.Services) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surface = surface
	r.services = services
}

func (r *Router) NavigateTo(ctx context.Context, name string) bool {
	return r.NavigateWithData(ctx, name, nil)
}

// NavigateWithData shows the view called name, building and caching it on
// first use, and hands payload to its controller. When the view cannot be
// built the user is alerted and the previous view stays on screen.
func (r *Router) NavigateWithData(ctx context.Context, name string, payload domain.Payload) bool {
	log := r.log.With().Str("nav_id", uuid.NewString()).Str("view", name).Logger()

	var alerts ports.Alerter
	err := func() error {
		r.mu.Lock()
		defer r.mu.Unlock()
		alerts = r.services.Alerts
		return r.navigateLocked(ctx, log, name, payload)
	}()
	if err == nil {
		return true
	}

	log.Error().Err(err).Msg("navigation abandoned")
	if alerts != nil && !errors.Is(err, domain.ErrRouterNotBound) {
		alerts.Error("Navigation failed", fmt.Sprintf("Unable to open %q: %v", name, err))
	}
	return false
}

func (r *Router) navigateLocked(ctx context.Context, log zerolog.Logger, name string, payload domain.Payload) error {
	if r.surface == nil {
		metrics.NavigationsTotal.WithLabelValues(string(r.portal), "unbound").Inc()
		return domain.ErrRouterNotBound
	}

	view, err := r.resolveLocked(ctx, name)
	if err != nil {
		metrics.NavigationsTotal.WithLabelValues(string(r.portal), "load_failed").Inc()
		return err
	}

	if payload != nil && view.Controller != nil {
		if !r.dispatcher.Dispatch(view.Controller, payload) {
			log.Debug().Str("kind", payload.Kind().String()).Msg("payload not accepted by controller")
		}
	}

	r.surface.Show(view)
	if r.portal.FullScreen() {
		r.surface.SetFullScreen(r.exitKey)
	}
	r.current = name

	metrics.NavigationsTotal.WithLabelValues(string(r.portal), "shown").Inc()
	log.Debug().Msg("view shown")
	return nil
}

func (r *Router) resolveLocked(ctx context.Context, name string) (ports.View, error) {
	if v, ok := r.views[name]; ok {
		metrics.ViewCacheTotal.WithLabelValues(string(r.portal), "hit").Inc()
		return v, nil
	}
	metrics.ViewCacheTotal.WithLabelValues(string(r.portal), "miss").Inc()

	start := time.Now()
	v, err := r.loader.Load(ctx, r.portal, name)
	metrics.ViewBuildDuration.WithLabelValues(string(r.portal)).Observe(time.Since(start).Seconds())
	if err != nil {
		return ports.View{}, fmt.Errorf("load view %s: %w", name, err)
	}
	if v.Name == "" {
		v.Name = name
	}
	if b, ok := v.Controller.(ports.Binder); ok {
		b.Bind(r, r.services)
	}

	r.views[name] = v
	return v, nil
}

// Alerts returns the alerter the router was initialised with.
func (r *Router) Alerts() ports.Alerter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.services.Alerts
}

// ClearCache evicts every cached view; the next navigation rebuilds from scratch.
func (r *Router) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = make(map[string]ports.View)
}

// ClearScene evicts a single cached view.
func (r *Router) ClearScene(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, name)
}

// Current returns the name of the view on screen, or "" before the first navigation.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Cached returns the cached view called name, if any.
func (r *Router) Cached(name string) (ports.View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[name]
	return v, ok
}
