package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/api/metrics"
	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

const (
	defaultWorkers = 3
	channelBuffer  = 64
)

// Target is the router a queued navigation is applied through.
type Target interface {
	ports.Navigator
	ClearCache()
}

// Dispatcher applies navigations raised outside a user request (timers,
// background jobs). Requests are sharded by portal, so navigations for one
// portal are applied in the order they were enqueued.
type Dispatcher struct {
	workers []chan domain.NavigationRequest
	targets map[domain.Portal]Target
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, targets map[domain.Portal]Target, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.NavigationRequest, numWorkers),
		targets: targets,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.NavigationRequest, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands req to the worker that owns its portal. It blocks once that
// worker's buffer is full.
func (d *Dispatcher) Enqueue(req domain.NavigationRequest) error {
	if _, ok := d.targets[req.Portal]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPortal, req.Portal)
	}
	idx := d.shardIndex(req.Portal)
	metrics.NavigationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	d.workers[idx] <- req
	return nil
}

// shardIndex maps a portal deterministically to a worker index.
func (d *Dispatcher) shardIndex(portal domain.Portal) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(portal))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.NavigationRequest) {
	depth := metrics.NavigationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.apply(ctx, id, req)
		}
	}
}

func (d *Dispatcher) apply(ctx context.Context, worker int, req domain.NavigationRequest) {
	target := d.targets[req.Portal]
	if req.Reset {
		target.ClearCache()
	}
	if !target.NavigateWithData(ctx, req.Target, req.Payload) {
		d.log.Warn().
			Str("portal", string(req.Portal)).
			Str("view", req.Target).
			Int("worker_id", worker).
			Msg("queued navigation failed")
	}
}
