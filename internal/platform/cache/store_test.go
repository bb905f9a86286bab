package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(15 * time.Millisecond)
		return "page", nil
	}

	const workers = 24
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "players?cursor=0", loader)
			if err != nil {
				t.Errorf("GetOrLoad failed: %v", err)
				return
			}
			if got, _ := v.(string); got != "page" {
				t.Errorf("GetOrLoad returned %v, want page", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ReusesFreshEntry(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	for i := 0; i < 3; i++ {
		if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
			t.Fatalf("GetOrLoad %d failed: %v", i, err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ReloadsAfterExpiry(t *testing.T) {
	t.Parallel()

	store := NewStore(5 * time.Minute)
	current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return calls.Load(), nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first load failed: %v", err)
	}

	current = current.Add(5*time.Minute + time.Second)

	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got, _ := v.(int32); got != 2 {
		t.Fatalf("expected reloaded value 2, got %v", v)
	}
}

func TestStore_GetOrLoad_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("provider down")

	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return "recovered", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}

	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if v != "recovered" {
		t.Fatalf("retry returned %v, want recovered", v)
	}
}

func TestStore_PurgeDropsEverything(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	store.Set(context.Background(), "a", 1)
	store.Set(context.Background(), "b", 2)

	store.Purge(context.Background())

	if _, ok := store.Get(context.Background(), "a"); ok {
		t.Fatal("entry a survived purge")
	}
	if _, ok := store.Get(context.Background(), "b"); ok {
		t.Fatal("entry b survived purge")
	}
}
