package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGateRejectsSecondRunOfSameSession(t *testing.T) {
	g := NewGate(0)
	ctx := context.Background()

	release, err := g.Acquire(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Acquire(ctx, "s1"); !errors.Is(err, ErrBusy) {
		t.Errorf("second acquire: err = %v, want ErrBusy", err)
	}

	// Other sessions are independent.
	other, err := g.Acquire(ctx, "s2")
	if err != nil {
		t.Fatalf("other session: %v", err)
	}
	other()

	release()
	release() // idempotent

	again, err := g.Acquire(ctx, "s1")
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
	if g.InFlight() != 0 {
		t.Errorf("InFlight() = %d", g.InFlight())
	}
}

func TestGateConcurrentSameSession(t *testing.T) {
	g := NewGate(0)
	var (
		admitted atomic.Int32
		busy     atomic.Int32
		wg       sync.WaitGroup
		hold     = make(chan struct{})
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := g.Acquire(context.Background(), "same")
			if errors.Is(err, ErrBusy) {
				busy.Add(1)
				return
			}
			admitted.Add(1)
			<-hold
			release()
		}()
	}

	deadline := time.Now().Add(2 * time.Second)
	for admitted.Load()+busy.Load() < 8 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	close(hold)
	wg.Wait()

	if admitted.Load() != 1 || busy.Load() != 7 {
		t.Errorf("admitted = %d busy = %d, want 1 and 7", admitted.Load(), busy.Load())
	}
}

func TestGateGlobalCap(t *testing.T) {
	g := NewGate(1)
	release, err := g.Acquire(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.Acquire(ctx, "b"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
	// The waiting session released its own slot.
	if g.InFlight() != 1 {
		t.Errorf("InFlight() = %d, want 1", g.InFlight())
	}

	release()
	r2, err := g.Acquire(context.Background(), "b")
	if err != nil {
		t.Fatal(err)
	}
	r2()
}
