package querycache

import "context"

// Page is one page of a paginated listing plus the server's total count.
// Items are pointers on purpose: the mutation coordinator patches records in
// place so every bucket holding the same record sees the update.
type Page[T any] struct {
	Items []*T
	Total int
}

// GetPage is a typed wrapper over Cache.Get for paginated listings.
func GetPage[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (Page[T], error)) (Page[T], error) {
	v, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return Page[T]{}, err
	}
	page, ok := v.(Page[T])
	if !ok {
		// A kind collision between differently typed listings is a
		// programming error; treat as a miss rather than a crash.
		return Page[T]{}, nil
	}
	return page, nil
}

// GetRecord is a typed wrapper over Cache.Get for single-record lookups.
func GetRecord[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (*T, error)) (*T, error) {
	v, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	rec, _ := v.(*T)
	return rec, nil
}
