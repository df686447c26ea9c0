package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loadErr := errors.New("db down")

	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, loadErr
		}
		return "recovered", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "line:id:1", loader); !errors.Is(err, loadErr) {
		t.Fatalf("expected load error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "line:id:1", loader)
	if err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}
	if got, _ := v.(string); got != "recovered" {
		t.Fatalf("unexpected value: %v", v)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	seed(t, store, "line:list", "v1")
	if _, ok := store.Get(context.Background(), "line:list"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "line:list"); ok {
		t.Fatalf("expected expired entry to be dropped")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry must be evicted on read, len=%d", store.Len())
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	seed(t, store, "line:id:1", 1)
	seed(t, store, "line:id:2", 2)
	seed(t, store, "line:list", 3)
	seed(t, store, "station:id:1", 4)

	store.DeletePrefix(ctx, "line:id:")
	if store.Len() != 2 {
		t.Fatalf("unexpected entries after prefix delete: %d", store.Len())
	}

	store.DeletePrefix(ctx, "line:")
	if _, ok := store.Get(ctx, "station:id:1"); !ok || store.Len() != 1 {
		t.Fatalf("expected only the station entry to remain, len=%d", store.Len())
	}
}

func TestStore_InvalidationDuringLoadIsNotStored(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	staleDone := make(chan any, 1)
	go func() {
		v, _ := store.GetOrLoad(ctx, "line:id:1", func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
		staleDone <- v
	}()

	<-started
	store.DeletePrefix(ctx, "line:")

	// A caller arriving after the invalidation runs its own load instead of
	// joining the detached one.
	v, err := store.GetOrLoad(ctx, "line:id:1", func(context.Context) (any, error) {
		return "fresh", nil
	})
	if err != nil || v != "fresh" {
		t.Fatalf("expected fresh load after invalidation, got %v err=%v", v, err)
	}

	close(release)
	if got := <-staleDone; got != "stale" {
		t.Fatalf("detached load should still answer its caller, got %v", got)
	}

	v, err = store.GetOrLoad(ctx, "line:id:1", func(context.Context) (any, error) {
		t.Fatalf("loader must not run while the fresh value is cached")
		return nil, nil
	})
	if err != nil || v != "fresh" {
		t.Fatalf("stale load overwrote the cache: got %v err=%v", v, err)
	}
}

func TestStore_LoadStartedBeforeInvalidationIsDropped(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.GetOrLoad(ctx, "line:list", func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()

	<-started
	store.DeletePrefix(ctx, "line:")
	close(release)
	<-done

	if store.Len() != 0 {
		t.Fatalf("load overlapping an invalidation must not be stored, len=%d", store.Len())
	}
}

func seed(t *testing.T, store *Store, key string, value any) {
	t.Helper()
	if _, err := store.GetOrLoad(context.Background(), key, func(context.Context) (any, error) {
		return value, nil
	}); err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
