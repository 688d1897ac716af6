package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

const (
	minIdleCheck = time.Second
	idleNotice   = "Your session timed out. Please sign in again."
)

// Enqueuer accepts background navigations.
type Enqueuer interface {
	Enqueue(req domain.NavigationRequest) error
}

// IdleReturn sends a portal back to its start view, with a fresh cache, once
// nobody has touched it for the configured timeout.
type IdleReturn struct {
	portal  domain.Portal
	timeout time.Duration
	queue   Enqueuer
	now     func() time.Time
	log     zerolog.Logger

	mu    sync.Mutex
	last  time.Time
	armed bool
}

func NewIdleReturn(portal domain.Portal, timeout time.Duration, queue Enqueuer, log zerolog.Logger) *IdleReturn {
	return &IdleReturn{
		portal:  portal,
		timeout: timeout,
		queue:   queue,
		now:     time.Now,
		log:     log,
	}
}

// Touch records activity and arms the timer.
func (w *IdleReturn) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = w.now()
	w.armed = true
}

// Run checks for idleness until ctx is cancelled. A non-positive timeout disables it.
func (w *IdleReturn) Run(ctx context.Context) {
	if w.timeout <= 0 {
		return
	}
	every := w.timeout / 4
	if every < minIdleCheck {
		every = minIdleCheck
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check enqueues the reset when the portal has been idle long enough and
// reports whether it did.
func (w *IdleReturn) check() bool {
	w.mu.Lock()
	if !w.armed || w.now().Sub(w.last) < w.timeout {
		w.mu.Unlock()
		return false
	}
	w.armed = false
	w.mu.Unlock()

	err := w.queue.Enqueue(domain.NavigationRequest{
		Portal:  w.portal,
		Target:  w.portal.StartView(),
		Payload: &domain.Opaque{Label: domain.NoticeLabel, Value: idleNotice},
		Reset:   true,
	})
	if err != nil {
		w.log.Error().Err(err).Str("portal", string(w.portal)).Msg("idle reset not queued")
		return false
	}
	w.log.Info().Str("portal", string(w.portal)).Dur("idle_for", w.timeout).Msg("idle portal reset")
	return true
}
