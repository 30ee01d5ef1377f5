package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursehub/course-management/internal/api/metrics"
	"github.com/coursehub/course-management/internal/core/domain"
	"github.com/coursehub/course-management/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes roster events to a fixed set of workers using consistent
// hashing on the course id, guaranteeing per-course event ordering.
type Dispatcher struct {
	workers []chan domain.RosterEvent
	service ports.RosterService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.RosterService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.RosterEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.RosterEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its course. The send
// never blocks: when the shard's buffer is full, as happens during shutdown
// once workers have stopped draining, the event is logged and dropped so the
// caller's request can still complete.
func (d *Dispatcher) Enqueue(event domain.RosterEvent) {
	idx := d.shardIndex(event.CourseID)
	select {
	case d.workers[idx] <- event:
		metrics.RosterQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("course_id", event.CourseID).
			Str("action", string(event.Action)).
			Int("worker_id", idx).
			Msg("roster queue full, event dropped")
	}
}

// shardIndex maps a course id deterministically to a worker index.
func (d *Dispatcher) shardIndex(courseID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(courseID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.RosterEvent) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			start := time.Now()
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("course_id", event.CourseID).
					Int("worker_id", id).
					Msg("roster event processing failed")
			}
			metrics.RosterEventDuration.WithLabelValues(string(event.Action)).Observe(time.Since(start).Seconds())
			metrics.RosterQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
		}
	}
}
