package cache

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewWithoutAddrIsNoop(t *testing.T) {
	c, err := New(context.Background(), Config{}, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := c.(Noop); !ok {
		t.Fatalf("New() = %T, want Noop", c)
	}

	if err := c.Set(context.Background(), "k", map[string]int{"a": 1}); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	var out map[string]int
	found, err := c.Get(context.Background(), "k", &out)
	if err != nil || found {
		t.Errorf("Get() = (%v, %v), want miss", found, err)
	}
}
