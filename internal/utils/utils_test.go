package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForReturnsAfterDelay(t *testing.T) {
	original := sleep
	var slept time.Duration
	sleep = func(d time.Duration) { slept = d }
	t.Cleanup(func() { sleep = original })

	if err := WaitFor(context.Background(), 3*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if slept != 3*time.Second {
		t.Fatalf("expected to sleep 3s, slept %v", slept)
	}
}

func TestWaitForHonoursCancellation(t *testing.T) {
	original := sleep
	release := make(chan struct{})
	sleep = func(time.Duration) { <-release }
	t.Cleanup(func() {
		close(release)
		sleep = original
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForNonPositive(t *testing.T) {
	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
