package recently_viewed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/status-im/market-dashboard/interfaces"
)

var log = logrus.WithField("component", "recently_viewed")

// DefaultMaxItems is the length limit of the list
const DefaultMaxItems = 10

// Store is the process wide list of recently viewed assets, most recent first.
// Load must be called once before the list is used.
type Store struct {
	backend  interfaces.IRecentlyViewedBackend
	maxItems int

	mu     sync.RWMutex
	items  []interfaces.Cryptocurrency
	loaded bool
}

// NewStore creates a store persisting through backend
func NewStore(backend interfaces.IRecentlyViewedBackend, maxItems int) *Store {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Store{
		backend:  backend,
		maxItems: maxItems,
	}
}

// Load reads the persisted list. A missing or unreadable list starts empty.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.backend.Load(ctx, interfaces.RecentlyViewedKey)
	if err != nil {
		return fmt.Errorf("failed to load recently viewed list: %w", err)
	}

	var items []interfaces.Cryptocurrency
	if len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			log.Warnf("RecentlyViewed: Ignoring corrupt list: %v", err)
			items = nil
		}
	}
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}

	s.mu.Lock()
	s.items = items
	s.loaded = true
	s.mu.Unlock()

	log.Infof("RecentlyViewed: Loaded %d items", len(items))
	return nil
}

// Add moves crypto to the front of the list, dropping the oldest entry past the limit,
// and persists the result
func (s *Store) Add(ctx context.Context, crypto interfaces.Cryptocurrency) ([]interfaces.Cryptocurrency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, fmt.Errorf("recently viewed list is not loaded")
	}

	updated := make([]interfaces.Cryptocurrency, 0, s.maxItems)
	updated = append(updated, crypto)
	for _, item := range s.items {
		if len(updated) == s.maxItems {
			break
		}
		if item.ID != crypto.ID {
			updated = append(updated, item)
		}
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Save(ctx, interfaces.RecentlyViewedKey, data); err != nil {
		return nil, fmt.Errorf("failed to save recently viewed list: %w", err)
	}

	s.items = updated
	return copyItems(updated), nil
}

// Clear empties the list
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Save(ctx, interfaces.RecentlyViewedKey, []byte("[]")); err != nil {
		return fmt.Errorf("failed to clear recently viewed list: %w", err)
	}
	s.items = nil
	s.loaded = true
	return nil
}

// List returns a copy of the list, most recent first
func (s *Store) List() []interfaces.Cryptocurrency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyItems(s.items)
}

func copyItems(items []interfaces.Cryptocurrency) []interfaces.Cryptocurrency {
	result := make([]interfaces.Cryptocurrency, len(items))
	copy(result, items)
	return result
}

// Start loads the persisted list
func (s *Store) Start(ctx context.Context) error {
	return s.Load(ctx)
}

// Stop releases the backend connection, if any
func (s *Store) Stop() {
	if closer, ok := s.backend.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warnf("RecentlyViewed: failed to close backend: %v", err)
		}
	}
}
