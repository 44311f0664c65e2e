package interfaces

// CacheStatus describes how a response relates to the cached entry it came from
type CacheStatus string

const (
	// CacheStatusFresh data is inside its freshness window
	CacheStatusFresh CacheStatus = "fresh"
	// CacheStatusStale data is past its freshness window and is being revalidated
	CacheStatusStale CacheStatus = "stale"
	// CacheStatusFailed the last fetch failed; data, if any, is the last known good payload
	CacheStatusFailed CacheStatus = "failed"
)

func (cs CacheStatus) String() string {
	return string(cs)
}
