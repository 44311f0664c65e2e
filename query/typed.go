package query

import "context"

// Load fetches key with a typed fetch function and returns the typed payload.
// With refresh set the fetch bypasses freshness like Refetch.
func Load[T any](ctx context.Context, c *Client, key Key, opts Options, refresh bool, fn func(ctx context.Context) (T, error)) (T, Snapshot, error) {
	untyped := func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	}

	var (
		snap Snapshot
		err  error
	)
	if refresh {
		snap, err = c.Refetch(ctx, key, opts, untyped)
	} else {
		snap, err = c.Fetch(ctx, key, opts, untyped)
	}

	data, _ := snap.Data.(T)
	return data, snap, err
}

// Data returns the typed payload of a snapshot
func Data[T any](snap Snapshot) (T, bool) {
	data, ok := snap.Data.(T)
	return data, ok
}
