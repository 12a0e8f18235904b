package tracking

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/vitanav/wellness-engine/internal/core/domain"
)

// minScreenSession is the shortest screen session worth tracking. Anything
// shorter is glance noise (notification checks, accidental unlocks).
const minScreenSession = 30 * time.Second

// Source delivers samples of one kind to any number of subscribers.
// Subscribe returns an unsubscribe func; calling it twice is safe.
type Source[T any] interface {
	Subscribe(fn func(T)) (unsubscribe func())
	Start(ctx context.Context) error
	Stop()
}

// FanOut is a channel-backed Source implementation. Producers push with
// Publish; a single dispatch goroutine fans samples out to subscribers in
// subscription order. Stop before Start is a no-op.
type FanOut[T any] struct {
	name string

	mu      sync.Mutex
	subs    map[int]func(T)
	nextID  int
	samples chan T
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewFanOut[T any](name string, buffer int) *FanOut[T] {
	if buffer <= 0 {
		buffer = 64
	}
	return &FanOut[T]{
		name:    name,
		subs:    make(map[int]func(T)),
		samples: make(chan T, buffer),
	}
}

func (f *FanOut[T]) Subscribe(fn func(T)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.subs[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *FanOut[T]) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.done = make(chan struct{})

	go func() {
		defer close(f.done)
		log.Printf("%s source started", f.name)
		for {
			select {
			case sample := <-f.samples:
				f.dispatch(sample)
			case <-ctx.Done():
				log.Printf("%s source shutting down...", f.name)
				return
			}
		}
	}()

	return nil
}

// Stop halts dispatch and waits for the goroutine to exit. Safe to call when
// the source was never started.
func (f *FanOut[T]) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	done := f.done
	f.cancel = nil
	f.done = nil
	f.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Publish enqueues a sample for dispatch, dropping it when the buffer is
// full rather than blocking the producer.
func (f *FanOut[T]) Publish(sample T) {
	select {
	case f.samples <- sample:
	default:
		log.Printf("%s source buffer full, dropping sample", f.name)
	}
}

func (f *FanOut[T]) dispatch(sample T) {
	f.mu.Lock()
	fns := make([]func(T), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(sample)
	}
}

// FilterScreenSamples drops sessions shorter than the tracking floor.
func FilterScreenSamples(samples []domain.RawScreenSample) []domain.RawScreenSample {
	kept := make([]domain.RawScreenSample, 0, len(samples))
	for _, s := range samples {
		if time.Duration(s.DurationMinutes*float64(time.Minute)) < minScreenSession {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}
