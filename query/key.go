package query

import (
	"strings"
	"time"

	"github.com/status-im/market-dashboard/config"
)

// Key identifies one cached resource
type Key struct {
	// Resource is the kind of data (markets, details, ...); it is also the metrics service label
	Resource string
	Currency string
	ID       string
	// Extra holds any remaining parameter, e.g. the number of history days
	Extra string
}

func (k Key) String() string {
	parts := []string{k.Resource}
	for _, part := range []string{k.Currency, k.ID, k.Extra} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ":")
}

// Options is the freshness policy applied to a key
type Options struct {
	// StaleTime is how long data is served without a call
	StaleTime time.Duration
	// RefetchInterval re-fetches observed keys in the background; 0 disables it
	RefetchInterval time.Duration
}

// OptionsFromWindow converts a configured window
func OptionsFromWindow(w config.QueryWindow) Options {
	return Options{
		StaleTime:       w.StaleTime,
		RefetchInterval: w.RefetchInterval,
	}
}

// Status is the state of a key
type Status int

const (
	// StatusIdle nothing was fetched yet
	StatusIdle Status = iota
	// StatusFetching the first fetch is in flight
	StatusFetching
	// StatusFresh data is inside its freshness window
	StatusFresh
	// StatusStale data is past its freshness window
	StatusStale
	// StatusFailed the last fetch failed; data, if any, is the last known good payload
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusFetching:
		return "fetching"
	case StatusFresh:
		return "fresh"
	case StatusStale:
		return "stale"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of a key at one point in time
type Snapshot struct {
	Key    Key
	Status Status
	// Data is the last successful payload, nil when there is none
	Data      interface{}
	UpdatedAt time.Time
	// Err is the error of the last fetch when it failed
	Err            error
	ErrorUpdatedAt time.Time
	// FailureCount is the number of failed attempts of the current or last fetch
	FailureCount int
	IsFetching   bool
}

// HasData reports whether a payload is available
func (s Snapshot) HasData() bool {
	return !s.UpdatedAt.IsZero()
}
