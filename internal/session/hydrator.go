package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultHydratorAttempts = 5
	defaultHydratorInterval = 500 * time.Millisecond
	defaultHydratorDebounce = 100 * time.Millisecond
)

// HydratorOptions groups dependencies and tuning for a Hydrator.
// Zero durations and counts fall back to the defaults above.
type HydratorOptions struct {
	Store    Reader
	Attempts int
	Interval time.Duration
	Debounce time.Duration
	Logger   *slog.Logger
}

// Hydrator waits for the store's tenant slot to populate after the shell
// mounts, without blocking callers and without retrying forever. It is a
// liveness aid only; the tenant gate remains the authority on access.
type Hydrator struct {
	store    Reader
	attempts int
	interval time.Duration
	debounce time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	done   chan struct{}
	cancel context.CancelFunc
}

// NewHydrator constructs a Hydrator from options.
func NewHydrator(opts HydratorOptions) *Hydrator {
	h := &Hydrator{
		store:    opts.Store,
		attempts: opts.Attempts,
		interval: opts.Interval,
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}
	if h.attempts <= 0 {
		h.attempts = defaultHydratorAttempts
	}
	if h.interval <= 0 {
		h.interval = defaultHydratorInterval
	}
	if h.debounce < 0 {
		h.debounce = defaultHydratorDebounce
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// EnsureHydrated starts a hydration cycle unless one is already in flight, in
// which case the running cycle's done channel is returned and no new work
// starts. The returned channel closes when the cycle ends for any reason:
// tenant resolved, attempts exhausted, or cancellation.
func (h *Hydrator) EnsureHydrated(ctx context.Context) <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.done != nil {
		return h.done
	}

	if _, res := h.store.CurrentTenant(); res != TenantPending {
		// Already resolved (or definitively absent); nothing to wait for.
		closed := make(chan struct{})
		close(closed)
		return closed
	}

	cycleCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	h.done = done
	h.cancel = cancel

	go h.run(cycleCtx, done)
	return done
}

// Stop cancels any in-flight hydration cycle. Safe to call at any time.
func (h *Hydrator) Stop() {
	h.mu.Lock()
	cancel := h.cancel
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (h *Hydrator) run(ctx context.Context, done chan struct{}) {
	// The in-flight slot must clear on every exit path or a stale cycle
	// would block all future hydration for this shell.
	defer func() {
		h.mu.Lock()
		if h.cancel != nil {
			h.cancel()
		}
		h.done = nil
		h.cancel = nil
		h.mu.Unlock()
		close(done)
	}()

	if !sleepCtx(ctx, h.debounce) {
		return
	}

	for attempt := 1; attempt <= h.attempts; attempt++ {
		if _, res := h.store.CurrentTenant(); res != TenantPending {
			h.logger.DebugContext(ctx, "session hydrated", "attempt", attempt)
			return
		}
		if attempt == h.attempts {
			break
		}
		if !sleepCtx(ctx, h.interval) {
			return
		}
	}

	// Retry budget exhausted; the tenant stays pending and dependent UI
	// falls back to its default presentation.
	h.logger.DebugContext(ctx, "session hydration exhausted", "attempts", h.attempts)
}

// sleepCtx waits for d or until ctx is done, reporting whether the full
// delay elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
