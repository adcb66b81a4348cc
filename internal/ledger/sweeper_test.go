package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inboundflow/courier/internal/ledger"
)

// fakeSweepTarget records RecoverStale calls and signals each one so tests
// can wait on sweeps instead of sleeping.
type fakeSweepTarget struct {
	mu         sync.Mutex
	thresholds []time.Duration
	recovered  int
	err        error
	swept      chan struct{}
}

func newFakeSweepTarget(recovered int, err error) *fakeSweepTarget {
	return &fakeSweepTarget{
		recovered: recovered,
		err:       err,
		swept:     make(chan struct{}, 64),
	}
}

func (f *fakeSweepTarget) Handler() *ledger.Handler { return nil }

func (f *fakeSweepTarget) Begin(ctx context.Context, sessionID uuid.UUID, stage string, input json.RawMessage) (int64, error) {
	return 0, nil
}

func (f *fakeSweepTarget) Complete(ctx context.Context, id int64, success bool, output json.RawMessage, errDetail string) error {
	return nil
}

func (f *fakeSweepTarget) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]ledger.Execution, error) {
	return nil, nil
}

func (f *fakeSweepTarget) CompletedStages(ctx context.Context, sessionID uuid.UUID) (map[string]bool, error) {
	return nil, nil
}

func (f *fakeSweepTarget) RecoverStale(ctx context.Context, threshold time.Duration) (int, error) {
	f.mu.Lock()
	f.thresholds = append(f.thresholds, threshold)
	f.mu.Unlock()

	f.swept <- struct{}{}
	return f.recovered, f.err
}

func (f *fakeSweepTarget) sweepCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.thresholds)
}

func waitSweeps(t *testing.T, f *fakeSweepTarget, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.swept:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for sweep %d of %d", i+1, n)
		}
	}
}

func sweeperLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweeperRunsImmediatelyOnStart(t *testing.T) {
	target := newFakeSweepTarget(2, nil)
	// the interval is far longer than the test, so the only sweep that can
	// happen is the one on start
	sweeper := ledger.NewSweeper(target, time.Hour, 10*time.Minute, sweeperLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Start(ctx)

	waitSweeps(t, target, 1)

	target.mu.Lock()
	threshold := target.thresholds[0]
	target.mu.Unlock()
	if threshold != 10*time.Minute {
		t.Errorf("threshold: got %v, want 10m", threshold)
	}
}

func TestSweeperSweepsEachInterval(t *testing.T) {
	target := newFakeSweepTarget(0, nil)
	sweeper := ledger.NewSweeper(target, 5*time.Millisecond, time.Minute, sweeperLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Start(ctx)

	waitSweeps(t, target, 3)

	if got := target.sweepCount(); got < 3 {
		t.Errorf("sweep count: got %d, want at least 3", got)
	}
}

func TestSweeperContinuesAfterError(t *testing.T) {
	target := newFakeSweepTarget(0, errors.New("database unavailable"))
	sweeper := ledger.NewSweeper(target, 5*time.Millisecond, time.Minute, sweeperLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Start(ctx)

	// every sweep fails; the loop must keep ticking regardless
	waitSweeps(t, target, 3)
}

func TestSweeperStopsOnCancel(t *testing.T) {
	target := newFakeSweepTarget(0, nil)
	sweeper := ledger.NewSweeper(target, time.Hour, time.Minute, sweeperLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	waitSweeps(t, target, 1)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
