package recently_viewed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/status-im/market-dashboard/interfaces"
)

// MockBackend implements IRecentlyViewedBackend for testing
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockBackend) Save(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func crypto(id string) interfaces.Cryptocurrency {
	return interfaces.Cryptocurrency{
		ID:            id,
		Symbol:        id[:3],
		Name:          id,
		CurrentPrice:  1,
		MarketCapRank: 1,
		Image:         "https://example.com/" + id + ".png",
	}
}

func ids(items []interfaces.Cryptocurrency) []string {
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = item.ID
	}
	return result
}

func newLoadedStore(t *testing.T, maxItems int) *Store {
	t.Helper()
	store := NewStore(NewFileBackend(t.TempDir()+"/local_storage.json"), maxItems)
	require.NoError(t, store.Load(context.Background()))
	return store
}

func TestStore_AddPutsNewestFirst(t *testing.T) {
	store := newLoadedStore(t, 10)
	ctx := context.Background()

	_, err := store.Add(ctx, crypto("bitcoin"))
	require.NoError(t, err)
	list, err := store.Add(ctx, crypto("ethereum"))
	require.NoError(t, err)

	assert.Equal(t, []string{"ethereum", "bitcoin"}, ids(list))
	assert.Equal(t, list, store.List())
}

func TestStore_AddMovesExistingToFront(t *testing.T) {
	store := newLoadedStore(t, 10)
	ctx := context.Background()

	for _, id := range []string{"bitcoin", "ethereum", "solana"} {
		_, err := store.Add(ctx, crypto(id))
		require.NoError(t, err)
	}

	list, err := store.Add(ctx, crypto("bitcoin"))
	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin", "solana", "ethereum"}, ids(list))
}

func TestStore_NeverExceedsLimit(t *testing.T) {
	store := newLoadedStore(t, 10)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		list, err := store.Add(ctx, crypto(fmt.Sprintf("coin-%02d", i)))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(list), 10)
	}

	list := store.List()
	require.Len(t, list, 10)
	assert.Equal(t, "coin-14", list[0].ID)
	assert.Equal(t, "coin-05", list[9].ID)
}

func TestStore_PersistsAcrossLoads(t *testing.T) {
	path := t.TempDir() + "/local_storage.json"
	ctx := context.Background()

	first := NewStore(NewFileBackend(path), 10)
	require.NoError(t, first.Load(ctx))
	_, err := first.Add(ctx, crypto("bitcoin"))
	require.NoError(t, err)
	_, err = first.Add(ctx, crypto("ethereum"))
	require.NoError(t, err)

	second := NewStore(NewFileBackend(path), 10)
	require.NoError(t, second.Load(ctx))
	assert.Equal(t, []string{"ethereum", "bitcoin"}, ids(second.List()))
}

func TestStore_AddBeforeLoad(t *testing.T) {
	store := NewStore(&MockBackend{}, 10)

	_, err := store.Add(context.Background(), crypto("bitcoin"))
	assert.Error(t, err)
}

func TestStore_LoadCorruptListStartsEmpty(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Load", mock.Anything, interfaces.RecentlyViewedKey).Return([]byte(`{not json`), nil)

	store := NewStore(backend, 10)
	require.NoError(t, store.Load(context.Background()))
	assert.Empty(t, store.List())
	backend.AssertExpectations(t)
}

func TestStore_LoadTruncatesLongList(t *testing.T) {
	var stored []interfaces.Cryptocurrency
	for i := 0; i < 12; i++ {
		stored = append(stored, crypto(fmt.Sprintf("coin-%02d", i)))
	}
	data, err := json.Marshal(stored)
	require.NoError(t, err)

	backend := &MockBackend{}
	backend.On("Load", mock.Anything, interfaces.RecentlyViewedKey).Return(data, nil)

	store := NewStore(backend, 10)
	require.NoError(t, store.Load(context.Background()))
	assert.Len(t, store.List(), 10)
}

func TestStore_LoadError(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Load", mock.Anything, interfaces.RecentlyViewedKey).Return(nil, errors.New("disk on fire"))

	store := NewStore(backend, 10)
	assert.Error(t, store.Load(context.Background()))
}

func TestStore_SaveErrorKeepsList(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Load", mock.Anything, interfaces.RecentlyViewedKey).Return(nil, nil)
	backend.On("Save", mock.Anything, interfaces.RecentlyViewedKey, mock.Anything).Return(errors.New("read-only")).Once()

	store := NewStore(backend, 10)
	require.NoError(t, store.Load(context.Background()))

	_, err := store.Add(context.Background(), crypto("bitcoin"))
	assert.Error(t, err)
	assert.Empty(t, store.List())
}

func TestStore_Clear(t *testing.T) {
	store := newLoadedStore(t, 10)
	ctx := context.Background()

	_, err := store.Add(ctx, crypto("bitcoin"))
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.List())
}

func TestStore_ListIsACopy(t *testing.T) {
	store := newLoadedStore(t, 10)
	_, err := store.Add(context.Background(), crypto("bitcoin"))
	require.NoError(t, err)

	list := store.List()
	list[0].ID = "mutated"
	assert.Equal(t, "bitcoin", store.List()[0].ID)
}

// closingBackend is a MockBackend holding a connection
type closingBackend struct {
	MockBackend
}

func (m *closingBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestStore_StartLoadsAndStopCloses(t *testing.T) {
	backend := &closingBackend{}
	backend.On("Load", mock.Anything, interfaces.RecentlyViewedKey).Return(nil, nil)
	backend.On("Close").Return(nil).Once()

	store := NewStore(backend, 10)
	require.NoError(t, store.Start(context.Background()))
	assert.Empty(t, store.List())

	store.Stop()
	backend.AssertExpectations(t)
}
