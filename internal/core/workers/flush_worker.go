package workers

import (
	"context"
	"log"
	"time"
)

// ActivityFlusher is the slice of the activity service the worker drives.
type ActivityFlusher interface {
	Flush(ctx context.Context) error
	Sweep(ctx context.Context) error
}

const (
	defaultFlushInterval = 5 * time.Minute
	defaultSweepInterval = 24 * time.Hour
)

// FlushWorker periodically flushes buffered samples to storage and runs the
// daily retention sweep. ForceFlush triggers an immediate out-of-cycle flush.
type FlushWorker struct {
	activity      ActivityFlusher
	flushInterval time.Duration
	sweepInterval time.Duration
	force         chan struct{}
}

func NewFlushWorker(activity ActivityFlusher, flushInterval, sweepInterval time.Duration) *FlushWorker {
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	return &FlushWorker{
		activity:      activity,
		flushInterval: flushInterval,
		sweepInterval: sweepInterval,
		force:         make(chan struct{}, 1),
	}
}

func (w *FlushWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Flush Worker started in background...")

		flushTicker := time.NewTicker(w.flushInterval)
		sweepTicker := time.NewTicker(w.sweepInterval)
		defer flushTicker.Stop()
		defer sweepTicker.Stop()

		for {
			select {
			case <-flushTicker.C:
				w.flush(ctx)
			case <-w.force:
				w.flush(ctx)
			case <-sweepTicker.C:
				if err := w.activity.Sweep(ctx); err != nil {
					log.Printf("Worker Error running retention sweep: %v", err)
				}
			case <-ctx.Done():
				log.Println("Flush Worker shutting down...")
				// Final flush so buffered samples survive restarts.
				flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				w.flush(flushCtx)
				cancel()
				return
			}
		}
	}()
}

// ForceFlush requests an immediate flush. A request already pending is
// enough; extra calls are dropped.
func (w *FlushWorker) ForceFlush() {
	select {
	case w.force <- struct{}{}:
	default:
	}
}

func (w *FlushWorker) flush(ctx context.Context) {
	if err := w.activity.Flush(ctx); err != nil {
		log.Printf("Worker Error flushing activity batches: %v", err)
	}
}
