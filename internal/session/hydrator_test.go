package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/comandero/comandero/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader wraps a Store and counts tenant polls.
type countingReader struct {
	*Store
	mu    sync.Mutex
	polls int
	// populateOnPoll, when > 0, fills the tenant slot once that many polls
	// have happened.
	populateOnPoll int
}

func (c *countingReader) CurrentTenant() (*model.Restaurant, Resolution) {
	c.mu.Lock()
	c.polls++
	if c.populateOnPoll > 0 && c.polls >= c.populateOnPoll {
		c.mu.Unlock()
		c.Store.SetTenant(&model.Restaurant{ID: "rest-1", Slug: "la-terraza", Active: true})
		return c.Store.CurrentTenant()
	}
	c.mu.Unlock()
	return c.Store.CurrentTenant()
}

func (c *countingReader) pollCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.polls
}

func newTestHydrator(reader Reader) *Hydrator {
	return NewHydrator(HydratorOptions{
		Store:    reader,
		Attempts: 5,
		Interval: 2 * time.Millisecond,
		Debounce: time.Millisecond,
	})
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hydration cycle did not finish")
	}
}

func TestHydratorResolvesWhenStorePopulates(t *testing.T) {
	reader := &countingReader{Store: NewStore(), populateOnPoll: 3}
	h := newTestHydrator(reader)

	// EnsureHydrated itself performs the initial pending check.
	done := h.EnsureHydrated(context.Background())
	waitDone(t, done)

	tenant, res := reader.Store.CurrentTenant()
	assert.Equal(t, TenantResolved, res)
	require.NotNil(t, tenant)
	assert.LessOrEqual(t, reader.pollCount(), 5, "must not exceed the retry budget")
}

func TestHydratorStopsAfterMaxAttempts(t *testing.T) {
	reader := &countingReader{Store: NewStore()}
	h := newTestHydrator(reader)

	done := h.EnsureHydrated(context.Background())
	waitDone(t, done)

	tenant, res := reader.Store.CurrentTenant()
	assert.Nil(t, tenant)
	assert.Equal(t, TenantPending, res, "exhaustion leaves the slot untouched")
	// One pre-check in EnsureHydrated plus five loop polls.
	assert.Equal(t, 6, reader.pollCount())
}

func TestHydratorReentrantTriggerIsNoOp(t *testing.T) {
	reader := &countingReader{Store: NewStore()}
	h := newTestHydrator(reader)

	first := h.EnsureHydrated(context.Background())
	second := h.EnsureHydrated(context.Background())

	assert.Equal(t, first, second, "overlapping triggers share one cycle")
	waitDone(t, first)
	assert.LessOrEqual(t, reader.pollCount(), 7, "a second trigger must not add a polling loop")
}

func TestHydratorNoCycleWhenAlreadyResolved(t *testing.T) {
	store := NewStore()
	store.SetTenant(&model.Restaurant{ID: "rest-1", Active: true})
	h := newTestHydrator(store)

	done := h.EnsureHydrated(context.Background())

	select {
	case <-done:
	default:
		t.Fatal("expected an already-closed channel for a resolved store")
	}
}

func TestHydratorStopCancelsCycle(t *testing.T) {
	reader := &countingReader{Store: NewStore()}
	h := NewHydrator(HydratorOptions{
		Store:    reader,
		Attempts: 5,
		Interval: time.Hour, // would effectively never finish on its own
		Debounce: time.Millisecond,
	})

	done := h.EnsureHydrated(context.Background())
	time.Sleep(10 * time.Millisecond)
	h.Stop()
	waitDone(t, done)

	// The in-flight slot cleared; a new trigger starts a fresh cycle.
	next := h.EnsureHydrated(context.Background())
	assert.NotEqual(t, done, next)
	h.Stop()
	waitDone(t, next)
}

func TestHydratorContextCancellation(t *testing.T) {
	reader := &countingReader{Store: NewStore()}
	h := NewHydrator(HydratorOptions{
		Store:    reader,
		Attempts: 5,
		Interval: time.Hour,
		Debounce: time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := h.EnsureHydrated(ctx)
	cancel()
	waitDone(t, done)
}
