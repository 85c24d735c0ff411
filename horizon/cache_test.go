package horizon

import (
	"errors"
	"testing"
)

func TestStaticCacheShares(t *testing.T) {
	c := NewStaticCache(2, 0)

	a, err := c.Get(100, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Get(100, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same size and style built two Statics")
	}

	dark := DefaultStyle()
	dark.Sky = dark.Ground
	d, err := c.Get(100, dark)
	if err != nil {
		t.Fatal(err)
	}
	if d == a {
		t.Error("different style shared a Static")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	// A third entry evicts the least recently used one.
	if _, err := c.Get(120, DefaultStyle()); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d after eviction, want 2", c.Len())
	}
}

func TestStaticCacheError(t *testing.T) {
	c := NewStaticCache(2, 0)
	if _, err := c.Get(10, DefaultStyle()); !errors.Is(err, ErrSizeTooSmall) {
		t.Errorf("Get(10) error = %v, want ErrSizeTooSmall", err)
	}
	if c.Len() != 0 {
		t.Error("failed build was cached")
	}
}

func TestNewUsesCache(t *testing.T) {
	c := NewStaticCache(2, 0)
	h1, err := New(Config{Size: 100, Cache: c})
	if err != nil {
		t.Fatal(err)
	}
	h2, err := New(Config{Size: 100, Cache: c, Policy: PolicyWrap})
	if err != nil {
		t.Fatal(err)
	}
	if h1.Static() != h2.Static() {
		t.Error("instruments did not share the cached Static")
	}
	if h2.Policy() != PolicyWrap {
		t.Errorf("Policy() = %v, want wrap", h2.Policy())
	}
}
