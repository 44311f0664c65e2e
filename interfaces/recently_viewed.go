package interfaces

import "context"

// RecentlyViewedKey is the storage key the recently viewed list is persisted under
const RecentlyViewedKey = "recentlyViewed"

// IRecentlyViewedBackend is a local key-value storage for serialized lists.
// Load returns nil data and no error when the key does not exist.
type IRecentlyViewedBackend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
