package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitSignal(t *testing.T, signals <-chan Signal, want Source) Signal {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case s, ok := <-signals:
			if !ok {
				t.Fatal("signal channel closed early")
			}
			if s.Source == want {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s signal", want)
		}
	}
}

func TestWatcher_PollTicks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	w := New(path, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals, _, err := w.Start(ctx)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	s := waitSignal(t, signals, SourcePoll)
	if s.Kind != "tick" {
		t.Errorf("expected tick kind, got %q", s.Kind)
	}
}

func TestWatcher_FilesystemEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.log")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	// Long poll interval so the only prompt wakeup is the write event
	w := New(path, time.Hour, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals, _, err := w.Start(ctx)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Events for unrelated files in the same directory are filtered out
	if err := os.WriteFile(filepath.Join(dir, "other.log"), []byte("x\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("line\n"), 0600); err != nil {
		t.Fatal(err)
	}

	s := waitSignal(t, signals, SourceFilesystem)
	if s.Kind == "" {
		t.Error("expected event op in signal kind")
	}
}

func TestWatcher_ClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	w := New(path, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	signals, errs, err := w.Start(ctx)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	select {
	case _, ok := <-errs:
		if ok {
			t.Error("expected no error on cancel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("error channel not closed after cancel")
	}

	for range signals {
	}
}

func TestWatcher_InvalidInterval(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "game.log"), 0, zap.NewNop())
	if _, _, err := w.Start(context.Background()); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "game.log")
	w := New(path, time.Second, zap.NewNop())
	if _, _, err := w.Start(context.Background()); err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestOffer_Coalesces(t *testing.T) {
	signals := make(chan Signal, 1)
	offer(signals, Signal{Source: SourcePoll, Kind: "tick"})
	offer(signals, Signal{Source: SourceFilesystem, Kind: "WRITE"})

	if len(signals) != 1 {
		t.Fatalf("expected one pending signal, got %d", len(signals))
	}
	if s := <-signals; s.Source != SourcePoll {
		t.Errorf("expected first signal to be kept, got %s", s.Source)
	}
}
