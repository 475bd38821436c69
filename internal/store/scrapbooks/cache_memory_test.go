package scrapbooks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(30 * time.Second)

	base := time.Now()
	c.now = func() time.Time { return base }

	c.Set(ctx, "u1", []byte(`{"title":"x"}`))
	got, ok := c.Get(ctx, "u1")
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"title":"x"}`), got)

	// Entries older than the TTL are misses even before the sweeper runs.
	c.now = func() time.Time { return base.Add(31 * time.Second) }
	_, ok = c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestMemoryCache_SweepRemovesStaleEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(30 * time.Second)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set(ctx, "old", []byte("a"))

	c.now = func() time.Time { return base.Add(25 * time.Second) }
	c.Set(ctx, "fresh", []byte("b"))

	c.now = func() time.Time { return base.Add(40 * time.Second) }
	c.Sweep(ctx)

	assert.Equal(t, 1, c.len())
	_, ok := c.Get(ctx, "fresh")
	assert.True(t, ok)
}

func TestMemoryCache_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	c.Delete(ctx, "missing")
	c.Set(ctx, "u1", []byte("a"))
	c.Delete(ctx, "u1")
	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestMemoryCache_SweeperStops(t *testing.T) {
	c := NewMemoryCache(time.Millisecond)
	c.StartSweeper(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	c.Stop() // must not hang or panic
	c.Stop() // and stopping twice is fine
}
