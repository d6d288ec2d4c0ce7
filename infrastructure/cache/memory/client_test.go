package memory

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestCache() *MemoryCache {
	return NewMemoryCache(5*time.Minute, 10*time.Minute)
}

func TestSetAndGet(t *testing.T) {
	cache := newTestCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("got %q, want value", got)
	}
}

func TestGet_MissingKey(t *testing.T) {
	cache := newTestCache()

	_, err := cache.Get(context.Background(), "missing")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestSet_ShortTTLExpires(t *testing.T) {
	cache := newTestCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, err := cache.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected expired entry to miss, got %v", err)
	}
}

func TestSet_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCache(10*time.Millisecond, time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	got, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("got %q, want value", got)
	}
}

func TestDelete(t *testing.T) {
	cache := newTestCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := cache.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := cache.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected deleted entry to miss, got %v", err)
	}
}

func TestDelete_MissingKeyIsNoop(t *testing.T) {
	cache := newTestCache()
	if err := cache.Delete(context.Background(), "missing"); err != nil {
		t.Errorf("Delete of missing key returned error: %v", err)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	cache := newTestCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	first, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	first[0] = 'X'

	second, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(second) != "value" {
		t.Errorf("cached entry was mutated through a returned slice: %q", second)
	}
}

func TestCancelledContext(t *testing.T) {
	cache := newTestCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := cache.Set(ctx, "key", []byte("value"), time.Minute); err == nil {
		t.Error("Set with cancelled context should fail")
	}
	if _, err := cache.Get(ctx, "key"); err == nil {
		t.Error("Get with cancelled context should fail")
	}
	if err := cache.Delete(ctx, "key"); err == nil {
		t.Error("Delete with cancelled context should fail")
	}
}
