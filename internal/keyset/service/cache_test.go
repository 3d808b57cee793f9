package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	keysetDomain "github.com/allisson/fieldcrypt/internal/keyset/domain"
	"github.com/allisson/fieldcrypt/internal/testutil"
)

// countingSource counts resolutions and can be told to fail.
type countingSource struct {
	next  Source
	calls atomic.Int32
	err   error
}

func (s *countingSource) Resolve(ctx context.Context, d *keysetDomain.Descriptor) (*Handle, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.next.Resolve(ctx, d)
}

func TestCache_GetOrResolve(t *testing.T) {
	ctx := context.Background()
	path := testutil.CleartextKeysetFile(t, testutil.AEADTemplate())
	d := newDescriptor(t, "default", keysetDomain.Entry{Path: path, Cleartext: true})

	t.Run("memoizes handles", func(t *testing.T) {
		cache := NewCache()
		src := &countingSource{next: NewFileSource(nil)}

		first, err := cache.GetOrResolve(ctx, d, src)
		require.NoError(t, err)
		second, err := cache.GetOrResolve(ctx, d, src)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, int32(1), src.calls.Load())
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("equal descriptors share an entry", func(t *testing.T) {
		cache := NewCache()
		src := &countingSource{next: NewFileSource(nil)}
		other := newDescriptor(t, "default", keysetDomain.Entry{Path: path, Cleartext: true})

		_, err := cache.GetOrResolve(ctx, d, src)
		require.NoError(t, err)
		_, err = cache.GetOrResolve(ctx, other, src)
		require.NoError(t, err)

		assert.Equal(t, int32(1), src.calls.Load())
	})

	t.Run("failures are not cached", func(t *testing.T) {
		cache := NewCache()
		boom := errors.New("boom")
		src := &countingSource{next: NewFileSource(nil), err: boom}

		_, err := cache.GetOrResolve(ctx, d, src)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, cache.Len())

		src.err = nil
		_, err = cache.GetOrResolve(ctx, d, src)
		require.NoError(t, err)
		assert.Equal(t, int32(2), src.calls.Load())
		assert.Equal(t, 1, cache.Len())
	})
}

func TestCache_ConcurrentMisses(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx := context.Background()
	path := testutil.CleartextKeysetFile(t, testutil.AEADTemplate())
	d := newDescriptor(t, "default", keysetDomain.Entry{Path: path, Cleartext: true})

	cache := NewCache()
	src := &countingSource{next: NewFileSource(nil)}

	var wg sync.WaitGroup
	handles := make([]*Handle, 32)
	for i := range handles {
		wg.Go(func() {
			h, err := cache.GetOrResolve(ctx, d, src)
			assert.NoError(t, err)
			handles[i] = h
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for _, h := range handles {
		assert.Same(t, handles[0], h)
	}
}
