package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

type recordingTarget struct {
	mu      sync.Mutex
	visits  []string
	cleared int
	done    chan struct{}
}

func newRecordingTarget(expect int) *recordingTarget {
	return &recordingTarget{done: make(chan struct{}, expect)}
}

func (r *recordingTarget) NavigateTo(ctx context.Context, name string) bool {
	return r.NavigateWithData(ctx, name, nil)
}

func (r *recordingTarget) NavigateWithData(_ context.Context, name string, _ domain.Payload) bool {
	r.mu.Lock()
	r.visits = append(r.visits, name)
	r.mu.Unlock()
	r.done <- struct{}{}
	return true
}

func (r *recordingTarget) ClearCache() {
	r.mu.Lock()
	r.cleared++
	r.mu.Unlock()
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d navigations", i, n)
		}
	}
}

func TestDispatcher_PreservesPerPortalOrder(t *testing.T) {
	student := newRecordingTarget(50)
	d := NewDispatcher(2, map[domain.Portal]Target{domain.PortalStudent: student}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	want := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		name := string(rune('a' + i%26))
		want = append(want, name)
		if err := d.Enqueue(domain.NavigationRequest{Portal: domain.PortalStudent, Target: name}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	waitFor(t, student.done, 50)

	student.mu.Lock()
	defer student.mu.Unlock()
	for i := range want {
		if student.visits[i] != want[i] {
			t.Fatalf("navigation %d out of order: got %q want %q", i, student.visits[i], want[i])
		}
	}
}

func TestDispatcher_ResetClearsCache(t *testing.T) {
	admin := newRecordingTarget(1)
	d := NewDispatcher(0, map[domain.Portal]Target{domain.PortalAdmin: admin}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	_ = d.Enqueue(domain.NavigationRequest{Portal: domain.PortalAdmin, Target: "login", Reset: true})
	waitFor(t, admin.done, 1)

	admin.mu.Lock()
	defer admin.mu.Unlock()
	if admin.cleared != 1 || admin.visits[0] != "login" {
		t.Fatalf("expected reset then login, cleared=%d visits=%v", admin.cleared, admin.visits)
	}
}

func TestDispatcher_UnknownPortal(t *testing.T) {
	d := NewDispatcher(1, map[domain.Portal]Target{}, zerolog.Nop())
	if err := d.Enqueue(domain.NavigationRequest{Portal: domain.PortalGeneral, Target: "welcome"}); !errors.Is(err, domain.ErrUnknownPortal) {
		t.Fatalf("expected ErrUnknownPortal, got %v", err)
	}
}

type captureQueue struct {
	reqs []domain.NavigationRequest
}

func (q *captureQueue) Enqueue(req domain.NavigationRequest) error {
	q.reqs = append(q.reqs, req)
	return nil
}

func TestIdleReturn_ResetsOnceAfterTimeout(t *testing.T) {
	q := &captureQueue{}
	w := NewIdleReturn(domain.PortalStudent, time.Minute, q, zerolog.Nop())
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }

	if w.check() {
		t.Fatalf("an untouched portal must not be reset")
	}

	w.Touch()
	clock = clock.Add(30 * time.Second)
	if w.check() {
		t.Fatalf("reset fired before the timeout")
	}

	clock = clock.Add(31 * time.Second)
	if !w.check() {
		t.Fatalf("expected a reset after the timeout")
	}
	if w.check() {
		t.Fatalf("reset must fire once per idle period")
	}

	if len(q.reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(q.reqs))
	}
	req := q.reqs[0]
	if req.Portal != domain.PortalStudent || req.Target != "login" || !req.Reset {
		t.Fatalf("unexpected request %+v", req)
	}
	if o, ok := req.Payload.(*domain.Opaque); !ok || o.Label != domain.NoticeLabel {
		t.Fatalf("expected a notice payload, got %#v", req.Payload)
	}
}

func TestIdleReturn_DisabledWithoutTimeout(t *testing.T) {
	w := NewIdleReturn(domain.PortalStudent, 0, &captureQueue{}, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run must return immediately when disabled")
	}
}
