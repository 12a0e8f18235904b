package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/vitanav/wellness-engine/internal/core/domain"
)

func collect(t *testing.T, ch <-chan int, want int) []int {
	t.Helper()

	got := make([]int, 0, want)
	timeout := time.After(2 * time.Second)
	for len(got) < want {
		select {
		case v := <-ch:
			got = append(got, v)
		case <-timeout:
			t.Fatalf("Timed out after %d of %d samples", len(got), want)
		}
	}
	return got
}

func TestFanOut(t *testing.T) {
	t.Parallel()

	t.Run("Publishes reach every subscriber", func(t *testing.T) {
		t.Parallel()

		source := NewFanOut[int]("test", 8)
		first := make(chan int, 8)
		second := make(chan int, 8)
		source.Subscribe(func(v int) { first <- v })
		source.Subscribe(func(v int) { second <- v })

		if err := source.Start(context.Background()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		defer source.Stop()

		source.Publish(1)
		source.Publish(2)

		if got := collect(t, first, 2); got[0] != 1 || got[1] != 2 {
			t.Errorf("First subscriber got %v", got)
		}
		if got := collect(t, second, 2); got[0] != 1 || got[1] != 2 {
			t.Errorf("Second subscriber got %v", got)
		}
	})

	t.Run("Unsubscribed funcs stop receiving", func(t *testing.T) {
		t.Parallel()

		source := NewFanOut[int]("test", 8)
		kept := make(chan int, 8)
		dropped := make(chan int, 8)
		source.Subscribe(func(v int) { kept <- v })
		unsubscribe := source.Subscribe(func(v int) { dropped <- v })

		unsubscribe()
		unsubscribe() // calling twice must be safe

		if err := source.Start(context.Background()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		defer source.Stop()

		source.Publish(42)

		collect(t, kept, 1)
		select {
		case v := <-dropped:
			t.Errorf("Unsubscribed func received %d", v)
		default:
		}
	})

	t.Run("Stop before Start is a no-op", func(t *testing.T) {
		t.Parallel()

		source := NewFanOut[int]("test", 8)
		source.Stop()
		source.Stop()
	})

	t.Run("Full buffer drops instead of blocking", func(t *testing.T) {
		t.Parallel()

		source := NewFanOut[int]("test", 1)

		// Not started, so nothing drains the buffer. The second publish
		// must return immediately.
		done := make(chan struct{})
		go func() {
			source.Publish(1)
			source.Publish(2)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Publish blocked on a full buffer")
		}
	})

	t.Run("Restart after Stop works", func(t *testing.T) {
		t.Parallel()

		source := NewFanOut[int]("test", 8)
		received := make(chan int, 8)
		source.Subscribe(func(v int) { received <- v })

		if err := source.Start(context.Background()); err != nil {
			t.Fatalf("First Start failed: %v", err)
		}
		source.Stop()

		if err := source.Start(context.Background()); err != nil {
			t.Fatalf("Second Start failed: %v", err)
		}
		defer source.Stop()

		source.Publish(7)
		if got := collect(t, received, 1); got[0] != 7 {
			t.Errorf("Expected 7 after restart, got %v", got)
		}
	})
}

func TestFilterScreenSamples(t *testing.T) {
	t.Parallel()

	samples := []domain.RawScreenSample{
		{AppName: "glance", DurationMinutes: 0.2},   // 12s, dropped
		{AppName: "reader", DurationMinutes: 0.5},   // exactly 30s, kept
		{AppName: "browser", DurationMinutes: 12.5}, // kept
	}

	kept := FilterScreenSamples(samples)

	if len(kept) != 2 {
		t.Fatalf("Expected 2 kept sessions, got %d", len(kept))
	}
	if kept[0].AppName != "reader" || kept[1].AppName != "browser" {
		t.Errorf("Wrong sessions kept: %+v", kept)
	}
}
