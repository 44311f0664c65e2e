package query

import (
	"sync"

	"github.com/status-im/market-dashboard/cache"
)

// Observer keeps a key alive and refreshed until stopped
type Observer struct {
	client *Client
	entry  *entry
	id     int
	once   sync.Once
}

// Observe registers listener for key. The listener first receives the current snapshot,
// then one per state change; it may be called from several goroutines. While a key has observers it is never dropped, and with
// opts.RefetchInterval > 0 it is revalidated every interval; a tick is skipped while a fetch
// is in flight. Missing or stale data is fetched right away.
func (c *Client) Observe(key Key, opts Options, fn FetchFunc, listener Listener) (*Observer, error) {
	if c.ctx.Err() != nil {
		return nil, ErrStopped
	}

	e := c.acquire(key)
	e.remember(opts, fn)

	id := e.nextListenerID
	e.nextListenerID++
	e.listeners[id] = listener
	c.entries.Set(key.String(), e, cache.NoExpiration)

	if e.scheduler == nil && opts.RefetchInterval > 0 {
		e.scheduler = c.newScheduler(e, opts.RefetchInterval)
		e.scheduler.Start(c.ctx, false)
		log.Debugf("Query: %s observed, refreshing every %s", key, opts.RefetchInterval)
	}

	now := c.now()
	if e.call == nil && !e.isFresh(now) {
		// Missing data is populated with retries, stale data revalidated once.
		// The fetch notifies every listener, this one included.
		if e.hasData() {
			c.start(e, fn, false, modeBackground)
		} else {
			c.start(e, fn, true, modeForeground)
		}
		e.mu.Unlock()
	} else {
		snap := e.snapshot(now)
		e.mu.Unlock()
		listener(snap)
	}

	return &Observer{client: c, entry: e, id: id}, nil
}

// Snapshot returns the current state of the observed key
func (o *Observer) Snapshot() Snapshot {
	o.entry.mu.Lock()
	defer o.entry.mu.Unlock()
	return o.entry.snapshot(o.client.now())
}

// Stop unregisters the observer. The last observer stops the background refresh and
// lets the entry expire like any unobserved one.
func (o *Observer) Stop() {
	o.once.Do(func() {
		e := o.entry
		e.mu.Lock()
		delete(e.listeners, o.id)
		var sched = e.scheduler
		if len(e.listeners) > 0 {
			sched = nil
		} else {
			e.scheduler = nil
			o.client.touch(e)
		}
		e.mu.Unlock()

		if sched != nil {
			sched.Stop()
			log.Debugf("Query: %s no longer observed", e.key)
		}
	})
}
