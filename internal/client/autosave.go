package client

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/evfilters/scrapbook-api/internal/scrapbook"
)

// SnapshotFunc returns the full document to push, with the open editor
// page already captured into it, or nil to skip the tick (editor closed).
// Capturing reads current element state only, so it is safe to run while a
// drag is in progress.
type SnapshotFunc func() *scrapbook.Book

// Autosaver pushes the whole document on a fixed cadence. A failed save is
// logged and dropped; the next tick is the retry. There is no backoff and
// no merge: the server applies last-write-wins.
type Autosaver struct {
	client   *Client
	userID   string
	snapshot SnapshotFunc
	interval time.Duration

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

const DefaultAutosaveInterval = 10 * time.Second

func NewAutosaver(c *Client, userID string, snapshot SnapshotFunc, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{
		client:   c,
		userID:   userID,
		snapshot: snapshot,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (a *Autosaver) Start() {
	a.wg.Add(1)
	go a.loop()
}

// Stop flushes once and waits for the loop to exit.
func (a *Autosaver) Stop() {
	a.once.Do(func() { close(a.done) })
	a.wg.Wait()
}

func (a *Autosaver) loop() {
	defer a.wg.Done()
	tk := time.NewTicker(a.interval)
	defer tk.Stop()
	for {
		select {
		case <-a.done:
			a.push()
			return
		case <-tk.C:
			a.push()
		}
	}
}

func (a *Autosaver) push() {
	b := a.snapshot()
	if b == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.interval)
	defer cancel()
	if _, err := a.client.Save(ctx, a.userID, b); err != nil {
		log.Printf("[Autosave] save failed for %s: %v (retrying next tick)", a.userID, err)
	}
}
