package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/status-im/market-dashboard/apierrors"
	"github.com/status-im/market-dashboard/cache"
	"github.com/status-im/market-dashboard/metrics"
	"github.com/status-im/market-dashboard/scheduler"
)

var log = logrus.WithField("component", "query")

// ErrStopped is returned by calls made after Stop
var ErrStopped = errors.New("query client stopped")

const (
	modeForeground = "foreground"
	modeBackground = "background"
)

// Client caches fetch results per key. For every key at most one fetch is in flight;
// concurrent callers share its outcome.
type Client struct {
	policy  RetryPolicy
	entries *cache.Store[*entry]

	// ctx is the lifetime of in-flight fetches, independent of the callers waiting on them
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a query client. Entries nobody observes are dropped
// cacheCfg.GoCache.DefaultExpiration after their last use.
func NewClient(policy RetryPolicy, cacheCfg cache.Config) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		policy:  policy,
		entries: cache.NewStore[*entry](cacheCfg),
		ctx:     ctx,
		cancel:  cancel,
		now:     time.Now,
		sleep:   sleepContext,
	}
	c.entries.OnEvicted(c.onEvicted)
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// acquire returns the live entry for key, locked
func (c *Client) acquire(key Key) *entry {
	for {
		e, created := c.entries.GetOrCreate(key.String(), func() *entry { return newEntry(key) })
		if created {
			metrics.RecordCacheSize(c.entries.ItemCount())
		}
		e.mu.Lock()
		if !e.removed {
			return e
		}
		e.mu.Unlock()
	}
}

// lookup returns the entry for key if it exists, locked
func (c *Client) lookup(key Key) (*entry, bool) {
	e, ok := c.entries.Get(key.String())
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return nil, false
	}
	return e, true
}

// touch extends the lifetime of an unobserved entry. Must hold e.mu.
func (c *Client) touch(e *entry) {
	if len(e.listeners) == 0 && !e.removed {
		c.entries.Set(e.key.String(), e, cache.DefaultExpiration)
	}
}

func (c *Client) onEvicted(_ string, e *entry) {
	e.mu.Lock()
	e.removed = true
	sched := e.scheduler
	e.scheduler = nil
	e.mu.Unlock()

	if sched != nil {
		sched.Stop()
	}
	metrics.RecordCacheSize(c.entries.ItemCount())
	log.Debugf("Query: dropped entry %s", e.key)
}

// Fetch returns the data of key, calling fn only when needed:
// fresh data is returned as is; stale data is returned immediately while a single attempt
// revalidates it in the background; without data the caller waits for a fetch with retries,
// joining the one in flight if any.
// The returned error is the outcome of the fetch the caller waited for.
func (c *Client) Fetch(ctx context.Context, key Key, opts Options, fn FetchFunc) (Snapshot, error) {
	if c.ctx.Err() != nil {
		return Snapshot{Key: key}, ErrStopped
	}

	mw := metrics.NewMetricsWriter(key.Resource)
	now := c.now()

	e := c.acquire(key)
	e.remember(opts, fn)
	c.touch(e)

	if e.isFresh(now) {
		snap := e.snapshot(now)
		e.mu.Unlock()
		mw.RecordCacheResult(metrics.CacheResultHit)
		return snap, nil
	}

	if e.hasData() {
		if e.call == nil {
			c.start(e, fn, false, modeBackground)
		}
		snap := e.snapshot(now)
		e.mu.Unlock()
		mw.RecordCacheResult(metrics.CacheResultStale)
		return snap, nil
	}

	return c.foreground(ctx, e, fn, mw)
}

// Refetch fetches key with retries regardless of freshness, joining a fetch in flight if any
func (c *Client) Refetch(ctx context.Context, key Key, opts Options, fn FetchFunc) (Snapshot, error) {
	if c.ctx.Err() != nil {
		return Snapshot{Key: key}, ErrStopped
	}

	e := c.acquire(key)
	e.remember(opts, fn)
	c.touch(e)

	return c.foreground(ctx, e, fn, metrics.NewMetricsWriter(key.Resource))
}

// foreground joins or starts a fetch with retries and waits for it. Must hold e.mu; releases it.
func (c *Client) foreground(ctx context.Context, e *entry, fn FetchFunc, mw *metrics.MetricsWriter) (Snapshot, error) {
	current := e.call
	if current != nil {
		mw.RecordCacheResult(metrics.CacheResultJoined)
	} else {
		mw.RecordCacheResult(metrics.CacheResultMiss)
		current = c.start(e, fn, true, modeForeground)
	}
	e.mu.Unlock()

	return c.wait(ctx, e, current)
}

func (c *Client) wait(ctx context.Context, e *entry, current *call) (Snapshot, error) {
	select {
	case <-current.done:
	case <-ctx.Done():
		e.mu.Lock()
		snap := e.snapshot(c.now())
		e.mu.Unlock()
		return snap, ctx.Err()
	}

	e.mu.Lock()
	snap := e.snapshot(c.now())
	e.mu.Unlock()
	return snap, current.err
}

// start launches a fetch owning the in-flight slot of e. Must hold e.mu.
// Listeners are notified from the fetch goroutine, never from the caller.
func (c *Client) start(e *entry, fn FetchFunc, retry bool, mode string) *call {
	current := &call{done: make(chan struct{})}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		current.err = ErrStopped
		close(current.done)
		return current
	}

	e.call = current
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(e, current, fn, retry, mode)
	}()
	return current
}

func (c *Client) run(e *entry, current *call, fn FetchFunc, retry bool, mode string) {
	mw := metrics.NewMetricsWriter(e.key.Resource)
	start := time.Now()
	defer metrics.RecordFetchCycle(e.key.Resource, mode, start)

	e.mu.Lock()
	listeners := e.listenerList()
	snap := e.snapshot(c.now())
	e.mu.Unlock()
	notify(listeners, snap)

	var (
		data     interface{}
		err      error
		attempts int
	)
	for retries := 0; ; retries++ {
		attempts++
		data, err = fn(c.ctx)
		if err == nil {
			break
		}
		if !retry || !c.policy.ShouldRetry(retries, err) {
			break
		}

		delay := c.policy.Delay(retries)
		log.Warnf("Query: %s failed (%v), retry %d in %s", e.key, err, retries+1, delay)
		mw.OnRetry()

		e.mu.Lock()
		e.failureCount = retries + 1
		listeners = e.listenerList()
		snap = e.snapshot(c.now())
		e.mu.Unlock()
		notify(listeners, snap)

		if sleepErr := c.sleep(c.ctx, delay); sleepErr != nil {
			log.Debugf("Query: %s backoff interrupted: %v", e.key, sleepErr)
			break
		}
	}

	c.complete(e, current, data, err, mode, attempts)
}

// complete stores the outcome and releases the in-flight slot
func (c *Client) complete(e *entry, current *call, data interface{}, err error, mode string, attempts int) {
	mw := metrics.NewMetricsWriter(e.key.Resource)
	now := c.now()

	e.mu.Lock()
	if err == nil {
		e.data = data
		e.updatedAt = now
		e.err = nil
		e.errorAt = time.Time{}
		e.failureCount = 0
		e.invalidated = false
		mw.RecordFetchOutcome("success")
	} else {
		e.err = err
		e.errorAt = now
		e.failureCount = attempts
		mw.RecordFetchOutcome(outcomeLabel(err))
		log.Warnf("Query: %s %s fetch failed: %v", e.key, mode, err)
	}
	if e.call == current {
		e.call = nil
	}
	current.err = err
	removed := e.removed
	listeners := e.listenerList()
	snap := e.snapshot(now)
	e.mu.Unlock()

	close(current.done)

	if removed {
		log.Debugf("Query: discarded result for dropped entry %s", e.key)
		return
	}
	notify(listeners, snap)
}

func outcomeLabel(err error) string {
	kind := apierrors.KindOf(err)
	if kind == 0 {
		return "unknown"
	}
	return kind.String()
}

func notify(listeners []Listener, snap Snapshot) {
	for _, l := range listeners {
		l(snap)
	}
}

// Snapshot returns the current state of key without fetching
func (c *Client) Snapshot(key Key) Snapshot {
	e, ok := c.lookup(key)
	if !ok {
		return Snapshot{Key: key, Status: StatusIdle}
	}
	defer e.mu.Unlock()
	return e.snapshot(c.now())
}

// Invalidate marks the data of key as stale. An observed key is revalidated right away.
func (c *Client) Invalidate(key Key) {
	e, ok := c.lookup(key)
	if !ok {
		return
	}

	e.invalidated = true
	if len(e.listeners) > 0 && e.call == nil && e.fetch != nil && c.ctx.Err() == nil {
		c.start(e, e.fetch, false, modeBackground)
	}
	e.mu.Unlock()
}

// Remove drops key. A fetch in flight completes but its result is discarded.
func (c *Client) Remove(key Key) {
	c.entries.Delete(key.String())
}

// Len returns the number of cached keys
func (c *Client) Len() int {
	return c.entries.ItemCount()
}

// Stop cancels fetches in flight and background refreshes, then waits for them to return
func (c *Client) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.cancel()
	c.mu.Unlock()

	for _, e := range c.entries.Items() {
		e.mu.Lock()
		sched := e.scheduler
		e.scheduler = nil
		e.mu.Unlock()
		if sched != nil {
			sched.Stop()
		}
	}

	c.wg.Wait()
}

// tick is the background refresh of an observed key
func (c *Client) tick(e *entry) {
	e.mu.Lock()
	if e.call != nil || e.removed || e.fetch == nil || c.ctx.Err() != nil {
		if e.call != nil {
			log.Debugf("Query: %s refresh skipped, fetch in flight", e.key)
		}
		e.mu.Unlock()
		return
	}
	c.start(e, e.fetch, false, modeBackground)
	e.mu.Unlock()
}

func (c *Client) newScheduler(e *entry, interval time.Duration) *scheduler.Scheduler {
	return scheduler.New(e.key.String(), interval, func(ctx context.Context) {
		c.tick(e)
	})
}
