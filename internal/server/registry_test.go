package server

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestRegistryEvictsIdleSessions(t *testing.T) {
	store := setupSeedStore(t)
	cfg := testConfig()
	cfg.ControllerIdleTimeout = time.Minute

	reg := NewRegistry(cfg, slog.New(slog.DiscardHandler), store, NewBroker())
	t.Cleanup(reg.Close)

	base := time.Now()
	reg.now = func() time.Time { return base }

	ctx := context.Background()
	if _, err := reg.Get(ctx, "sess-a", "user-a"); err != nil {
		t.Fatalf("creating first controller: %v", err)
	}

	// Another session arriving past the idle window sweeps the first out.
	reg.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := reg.Get(ctx, "sess-b", "user-b"); err != nil {
		t.Fatalf("creating second controller: %v", err)
	}

	reg.mu.RLock()
	_, aLive := reg.sessions["sess-a"]
	_, bLive := reg.sessions["sess-b"]
	reg.mu.RUnlock()

	if aLive {
		t.Error("expected idle session sess-a to be evicted")
	}
	if !bLive {
		t.Error("expected active session sess-b to survive")
	}
}

func TestRegistryActiveUseRefreshesIdleClock(t *testing.T) {
	store := setupSeedStore(t)
	cfg := testConfig()
	cfg.ControllerIdleTimeout = time.Minute

	reg := NewRegistry(cfg, slog.New(slog.DiscardHandler), store, NewBroker())
	t.Cleanup(reg.Close)

	base := time.Now()
	reg.now = func() time.Time { return base }

	ctx := context.Background()
	first, err := reg.Get(ctx, "sess-a", "user-a")
	if err != nil {
		t.Fatalf("creating controller: %v", err)
	}

	// Touch it every 40s; it never crosses the one-minute idle window.
	for i := 1; i <= 3; i++ {
		offset := time.Duration(i) * 40 * time.Second
		reg.now = func() time.Time { return base.Add(offset) }
		got, err := reg.Get(ctx, "sess-a", "user-a")
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if got != first {
			t.Fatalf("get %d returned a rebuilt controller", i)
		}
	}
}

func TestRegistryZeroTimeoutDisablesEviction(t *testing.T) {
	store := setupSeedStore(t)
	cfg := testConfig() // ControllerIdleTimeout left zero

	reg := NewRegistry(cfg, slog.New(slog.DiscardHandler), store, NewBroker())
	t.Cleanup(reg.Close)

	base := time.Now()
	reg.now = func() time.Time { return base }

	ctx := context.Background()
	if _, err := reg.Get(ctx, "sess-a", "user-a"); err != nil {
		t.Fatalf("creating controller: %v", err)
	}

	reg.now = func() time.Time { return base.Add(24 * time.Hour) }
	if _, err := reg.Get(ctx, "sess-b", "user-b"); err != nil {
		t.Fatalf("creating second controller: %v", err)
	}

	reg.mu.RLock()
	_, aLive := reg.sessions["sess-a"]
	reg.mu.RUnlock()
	if !aLive {
		t.Error("expected no eviction with a zero idle timeout")
	}
}
