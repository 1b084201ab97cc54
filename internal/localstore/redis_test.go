package localstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test")
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, KeyLastSubmit, "1700000000"); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, err := store.Get(ctx, KeyLastSubmit)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "1700000000" {
		t.Errorf("value = %q, want 1700000000", value)
	}

	if err := store.Remove(ctx, KeyLastSubmit); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(ctx, KeyLastSubmit); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestRedisStoreMissingKey(t *testing.T) {
	store := newTestRedisStore(t)

	_, err := store.Get(context.Background(), "never-written")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStorePrefixIsolation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	a := NewRedisStore(client, "form-a")
	b := NewRedisStore(client, "form-b")
	ctx := context.Background()

	if err := a.Set(ctx, KeyLastSubmit, "123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := b.Get(ctx, KeyLastSubmit); !errors.Is(err, ErrNotFound) {
		t.Errorf("prefixes must isolate keys, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if value, err := store.Get(ctx, "k"); err != nil || value != "v" {
		t.Fatalf("get = (%q, %v)", value, err)
	}
	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}
