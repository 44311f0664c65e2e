package query

import (
	"context"
	"sync"
	"time"

	"github.com/status-im/market-dashboard/scheduler"
)

// FetchFunc loads the payload of one key
type FetchFunc func(ctx context.Context) (interface{}, error)

// Listener receives a snapshot after every state change of an observed key.
// It is called synchronously and must not block.
type Listener func(Snapshot)

// call is a fetch in flight; done is closed once err and the entry are updated
type call struct {
	done chan struct{}
	err  error
}

// entry is the state of one key. All fields are guarded by mu.
type entry struct {
	key Key
	mu  sync.Mutex

	data      interface{}
	updatedAt time.Time

	err          error
	errorAt      time.Time
	failureCount int
	invalidated  bool

	call *call

	// opts and fetch are the latest ones a caller used for this key
	opts  Options
	fetch FetchFunc

	listeners      map[int]Listener
	nextListenerID int
	scheduler      *scheduler.Scheduler

	// removed is set once the entry left the store; results written after that are discarded
	removed bool
}

func newEntry(key Key) *entry {
	return &entry{
		key:       key,
		listeners: make(map[int]Listener),
	}
}

func (e *entry) hasData() bool {
	return !e.updatedAt.IsZero()
}

func (e *entry) isFresh(now time.Time) bool {
	return e.hasData() && !e.invalidated && now.Sub(e.updatedAt) < e.opts.StaleTime
}

func (e *entry) remember(opts Options, fetch FetchFunc) {
	e.opts = opts
	if fetch != nil {
		e.fetch = fetch
	}
}

func (e *entry) status(now time.Time) Status {
	switch {
	case e.err != nil && e.call != nil && !e.hasData():
		return StatusFetching
	case e.err != nil:
		return StatusFailed
	case e.hasData() && e.isFresh(now):
		return StatusFresh
	case e.hasData():
		return StatusStale
	case e.call != nil:
		return StatusFetching
	default:
		return StatusIdle
	}
}

func (e *entry) snapshot(now time.Time) Snapshot {
	return Snapshot{
		Key:            e.key,
		Status:         e.status(now),
		Data:           e.data,
		UpdatedAt:      e.updatedAt,
		Err:            e.err,
		ErrorUpdatedAt: e.errorAt,
		FailureCount:   e.failureCount,
		IsFetching:     e.call != nil,
	}
}

func (e *entry) listenerList() []Listener {
	if len(e.listeners) == 0 {
		return nil
	}
	list := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		list = append(list, l)
	}
	return list
}
