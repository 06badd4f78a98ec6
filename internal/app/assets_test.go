package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingResolver counts fetches per reference.
type countingResolver struct {
	fetches atomic.Int32
	err     error
}

func (r *countingResolver) Resolve(_ context.Context, ref string) ([]byte, error) {
	r.fetches.Add(1)
	if r.err != nil {
		return nil, r.err
	}

	return []byte(ref), nil
}

func TestCachingResolverFetchesOnce(t *testing.T) {
	next := &countingResolver{}
	resolver := newCachingResolver(next)

	for range 5 {
		data, err := resolver.Resolve(context.Background(), "https://assets.example/letterhead.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("https://assets.example/letterhead.png"), data)
	}

	assert.Equal(t, int32(1), next.fetches.Load())
}

func TestCachingResolverDistinctRefs(t *testing.T) {
	next := &countingResolver{}
	resolver := newCachingResolver(next)

	_, err := resolver.Resolve(context.Background(), "https://assets.example/a.png")
	require.NoError(t, err)
	_, err = resolver.Resolve(context.Background(), "https://assets.example/b.png")
	require.NoError(t, err)

	assert.Equal(t, int32(2), next.fetches.Load())
}

func TestCachingResolverEmptyRef(t *testing.T) {
	next := &countingResolver{}
	resolver := newCachingResolver(next)

	data, err := resolver.Resolve(context.Background(), "")

	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, int32(0), next.fetches.Load())
}

func TestCachingResolverDoesNotCacheFailures(t *testing.T) {
	next := &countingResolver{err: errors.New("source down")}
	resolver := newCachingResolver(next)

	_, err := resolver.Resolve(context.Background(), "https://assets.example/a.png")
	require.Error(t, err)

	// The source recovers; the next resolve retries instead of replaying
	// the cached failure.
	next.err = nil
	data, err := resolver.Resolve(context.Background(), "https://assets.example/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("https://assets.example/a.png"), data)

	assert.Equal(t, int32(2), next.fetches.Load())
}

func TestCachingResolverConcurrent(t *testing.T) {
	next := &countingResolver{}
	resolver := newCachingResolver(next)

	_, err := resolver.Resolve(context.Background(), "https://assets.example/shared.png")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			data, err := resolver.Resolve(context.Background(), "https://assets.example/shared.png")
			assert.NoError(t, err)
			assert.Equal(t, []byte("https://assets.example/shared.png"), data)
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), next.fetches.Load())
}
