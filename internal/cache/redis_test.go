package cache

import (
	"context"
	"testing"

	"github.com/threadscout/threadscout/pkg/config"
)

func TestDisabledCacheReturnsNil(t *testing.T) {
	c, err := New(&config.RedisConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Disabled cache should not error: %v", err)
	}
	if c != nil {
		t.Fatal("Disabled cache should be nil")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if _, err := c.Get(ctx, "key"); err != ErrCacheDisabled {
		t.Errorf("Get on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Set(ctx, "key", "value", 0); err != ErrCacheDisabled {
		t.Errorf("Set on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.SetJSON(ctx, "key", map[string]int{"a": 1}, 0); err != ErrCacheDisabled {
		t.Errorf("SetJSON on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.GetJSON(ctx, "key", &struct{}{}); err != ErrCacheDisabled {
		t.Errorf("GetJSON on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Delete(ctx, "key"); err != ErrCacheDisabled {
		t.Errorf("Delete on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil cache = %v, want nil", err)
	}
	if err := c.Health(ctx); err != ErrCacheDisabled {
		t.Errorf("Health on nil cache = %v, want ErrCacheDisabled", err)
	}
}

func TestKeyNamespacing(t *testing.T) {
	if got := Key("curator", "feed"); got != "threadscout:curator:feed" {
		t.Errorf("Key = %q", got)
	}
}

func TestBadURL(t *testing.T) {
	if _, err := New(&config.RedisConfig{Enabled: true, URL: "not-a-url"}); err == nil {
		t.Fatal("Expected error for malformed Redis URL")
	}
}
