package variants

import (
	"context"
	"fmt"
	"os"

	"github.com/verte-zerg/wordwheel/internal/store"
)

// Cache memoizes provider responses in a SQLite store. Cache trouble never
// fails a request; it degrades to a direct provider call.
type Cache struct {
	inner Provider
	store *store.Store
}

// NewCache wraps a provider with the given store.
func NewCache(inner Provider, st *store.Store) *Cache {
	return &Cache{inner: inner, store: st}
}

// Variations implements Provider.
func (c *Cache) Variations(ctx context.Context, req Request) ([]string, error) {
	cached, ok, err := c.store.Get(ctx, req.Word, req.Context, req.Position)
	if err != nil {
		logErrf("variant cache read failed: %v\n", err)
	} else if ok {
		return cached, nil
	}
	result, err := c.inner.Variations(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(result) > 0 {
		if err := c.store.Put(ctx, req.Word, req.Context, req.Position, result); err != nil {
			logErrf("variant cache write failed: %v\n", err)
		}
	}
	return result, nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
