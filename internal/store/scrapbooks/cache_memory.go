package scrapbooks

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	doc      []byte
	storedAt time.Time
}

// MemoryCache is the process-local cache: a key -> (value, timestamp) map
// with a TTL checked on lookup and a periodic sweeper that removes stale
// entries independent of lookups.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	// now is swappable in tests.
	now func() time.Time

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

func (c *MemoryCache) Get(_ context.Context, userID string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.storedAt) > c.ttl {
		return nil, false
	}
	return e.doc, true
}

func (c *MemoryCache) Set(_ context.Context, userID string, doc []byte) {
	c.mu.Lock()
	c.entries[userID] = memoryEntry{doc: doc, storedAt: c.now()}
	c.mu.Unlock()
}

func (c *MemoryCache) Delete(_ context.Context, userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// Sweep removes everything past the TTL.
func (c *MemoryCache) Sweep(_ context.Context) {
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	for k, e := range c.entries {
		if e.storedAt.Before(cutoff) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// StartSweeper runs Sweep on a ticker until Stop is called.
func (c *MemoryCache) StartSweeper(every time.Duration) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		tk := time.NewTicker(every)
		defer tk.Stop()
		for {
			select {
			case <-c.done:
				return
			case <-tk.C:
				c.Sweep(context.Background())
			}
		}
	}()
}

// Stop halts the sweeper and waits for it to exit.
func (c *MemoryCache) Stop() {
	c.once.Do(func() { close(c.done) })
	c.wg.Wait()
}

func (c *MemoryCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
