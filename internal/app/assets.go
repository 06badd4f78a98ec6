package app

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/quotemill/quotemill/internal/ports"
)

// cachingResolver memoizes asset resolution for the life of one export
// batch. Owners reuse the same letterhead across their quotations, so a
// bulk export would otherwise fetch one image once per document.
type cachingResolver struct {
	next  ports.AssetResolver
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string][]byte
}

func newCachingResolver(next ports.AssetResolver) *cachingResolver {
	return &cachingResolver{
		next:  next,
		cache: make(map[string][]byte),
	}
}

// Resolve fetches a reference at most once per batch, collapsing concurrent
// requests for the same reference into a single fetch. Failures are not
// cached: a flaky source gets another chance on the next document.
func (r *cachingResolver) Resolve(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, nil
	}

	r.mu.RLock()
	data, ok := r.cache[ref]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	v, err, _ := r.group.Do(ref, func() (any, error) {
		data, err := r.next.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[ref] = data
		r.mu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]byte), nil
}
