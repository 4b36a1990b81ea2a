package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	t.Run("miss on empty", func(t *testing.T) {
		if _, err := c.Get(ctx, "nope"); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Get() error = %v, want ErrCacheMiss", err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		val, err := c.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(val) != "v" {
			t.Errorf("Get() = %q, want %q", val, "v")
		}
	})

	t.Run("expiry", func(t *testing.T) {
		if err := c.Set(ctx, "short", []byte("v"), time.Millisecond); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Get() error = %v, want ErrCacheMiss after expiry", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		_ = c.Set(ctx, "gone", []byte("v"), 0)
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := c.Get(ctx, "gone"); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Get() error = %v, want ErrCacheMiss after delete", err)
		}
	})
}
