package query

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/market-dashboard/cache"
)

type snapshotRecorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (r *snapshotRecorder) Listen(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snap)
}

func (r *snapshotRecorder) All() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snapshots...)
}

func (r *snapshotRecorder) Last() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return Snapshot{}, false
	}
	return r.snapshots[len(r.snapshots)-1], true
}

func TestObserve_FetchesMissingData(t *testing.T) {
	c, _, _ := newTestClient(t, cache.DefaultCacheConfig())
	fetch := returning(ok("v1"))
	recorder := &snapshotRecorder{}

	observer, err := c.Observe(marketsKey, marketsOpts, fetch.Fetch, recorder.Listen)
	require.NoError(t, err)
	defer observer.Stop()

	assert.Eventually(t, func() bool {
		last, found := recorder.Last()
		return found && last.Status == StatusFresh
	}, time.Second, time.Millisecond)

	snapshots := recorder.All()
	assert.Equal(t, StatusFetching, snapshots[0].Status)
	assert.Equal(t, "v1", observer.Snapshot().Data)
	assert.Equal(t, 1, fetch.Calls())
}

func TestObserve_FreshDataDeliveredImmediately(t *testing.T) {
	c, _, _ := newTestClient(t, cache.DefaultCacheConfig())
	fetch := returning(ok("v1"))

	_, err := c.Fetch(context.Background(), marketsKey, marketsOpts, fetch.Fetch)
	require.NoError(t, err)

	recorder := &snapshotRecorder{}
	observer, err := c.Observe(marketsKey, Options{StaleTime: time.Minute}, fetch.Fetch, recorder.Listen)
	require.NoError(t, err)
	defer observer.Stop()

	snapshots := recorder.All()
	require.Len(t, snapshots, 1)
	assert.Equal(t, StatusFresh, snapshots[0].Status)
	assert.Equal(t, "v1", snapshots[0].Data)
	assert.Equal(t, 1, fetch.Calls())
}

func TestObserve_RefetchesEveryInterval(t *testing.T) {
	c, _, _ := newTestClient(t, cache.DefaultCacheConfig())
	fetch := returning(ok("v"))
	recorder := &snapshotRecorder{}

	opts := Options{StaleTime: time.Minute, RefetchInterval: 20 * time.Millisecond}
	observer, err := c.Observe(marketsKey, opts, fetch.Fetch, recorder.Listen)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return fetch.Calls() >= 3
	}, time.Second, 5*time.Millisecond)

	observer.Stop()
	observer.Stop()

	stopped := fetch.Calls()
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, fetch.Calls(), stopped+1)

	after := fetch.Calls()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, after, fetch.Calls())
}

func TestObserve_TickSkippedWhileFetchInFlight(t *testing.T) {
	c, _, _ := newTestClient(t, cache.DefaultCacheConfig())

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return "v", nil
	}

	opts := Options{StaleTime: time.Minute, RefetchInterval: 10 * time.Millisecond}
	observer, err := c.Observe(marketsKey, opts, fetch, func(Snapshot) {})
	require.NoError(t, err)
	defer observer.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	assert.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestObserve_SharedSchedulerUntilLastObserverStops(t *testing.T) {
	c, _, _ := newTestClient(t, cache.DefaultCacheConfig())
	fetch := returning(ok("v"))
	opts := Options{StaleTime: time.Minute, RefetchInterval: 20 * time.Millisecond}

	first, err := c.Observe(marketsKey, opts, fetch.Fetch, func(Snapshot) {})
	require.NoError(t, err)
	second, err := c.Observe(marketsKey, opts, fetch.Fetch, func(Snapshot) {})
	require.NoError(t, err)

	first.Stop()
	before := fetch.Calls()
	assert.Eventually(t, func() bool {
		return fetch.Calls() > before+1
	}, time.Second, 5*time.Millisecond)

	second.Stop()
	time.Sleep(50 * time.Millisecond)
	stopped := fetch.Calls()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, stopped, fetch.Calls())
}

func TestObserve_ListenerSeesRetries(t *testing.T) {
	c, _, _ := newTestClient(t, cache.DefaultCacheConfig())
	fetch := returning(fail(errNetwork), ok("v1"))
	recorder := &snapshotRecorder{}

	observer, err := c.Observe(marketsKey, marketsOpts, fetch.Fetch, recorder.Listen)
	require.NoError(t, err)
	defer observer.Stop()

	assert.Eventually(t, func() bool {
		last, found := recorder.Last()
		return found && last.Status == StatusFresh
	}, time.Second, time.Millisecond)

	var sawRetry bool
	for _, snap := range recorder.All() {
		if snap.FailureCount == 1 && snap.IsFetching {
			sawRetry = true
		}
	}
	assert.True(t, sawRetry)
}

func TestObserve_InvalidateRevalidatesObservedKey(t *testing.T) {
	c, _, _ := newTestClient(t, cache.DefaultCacheConfig())
	fetch := returning(ok("v1"), ok("v2"))

	observer, err := c.Observe(marketsKey, Options{StaleTime: time.Minute}, fetch.Fetch, func(Snapshot) {})
	require.NoError(t, err)
	defer observer.Stop()

	assert.Eventually(t, func() bool {
		return observer.Snapshot().Data == "v1"
	}, time.Second, time.Millisecond)

	c.Invalidate(marketsKey)
	assert.Eventually(t, func() bool {
		return observer.Snapshot().Data == "v2"
	}, time.Second, time.Millisecond)
}
