// Package events fans the node's mining and validation messages out to the
// websocket clients watching the chain. Every client gets its own buffered
// feed, and a client that stops reading loses messages rather than holding
// up the miner that produced them.
package events

import (
	"errors"
	"sync"
)

// ErrUnknownFeed is returned when releasing an id that holds no feed.
var ErrUnknownFeed = errors.New("feed not found")

// feedBuffer is the number of messages a client can fall behind before
// messages start being dropped for it.
const feedBuffer = 100

// feed is the delivery state of a single client.
type feed struct {
	ch      chan string
	dropped uint64
}

// Events tracks the feeds of the connected clients by id, normally the
// trace id of the websocket request.
type Events struct {
	mu    sync.RWMutex
	feeds map[string]*feed
}

// New constructs an empty set of feeds.
func New() *Events {
	return &Events{
		feeds: make(map[string]*feed),
	}
}

// Shutdown closes every feed so the websocket handlers reading them return.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, f := range evt.feeds {
		delete(evt.feeds, id)
		close(f.ch)
	}
}

// Acquire returns the feed for the id, creating it on first use.
func (evt *Events) Acquire(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if f, exists := evt.feeds[id]; exists {
		return f.ch
	}

	f := feed{ch: make(chan string, feedBuffer)}
	evt.feeds[id] = &f

	return f.ch
}

// Release closes and forgets the feed for the id.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	f, exists := evt.feeds[id]
	if !exists {
		return ErrUnknownFeed
	}

	delete(evt.feeds, id)
	close(f.ch)

	return nil
}

// Send offers the message to every feed and returns how many accepted it.
// A full feed drops the message and the drop is counted against it.
func (evt *Events) Send(s string) int {

	// The write lock is held since the drop counters change.
	evt.mu.Lock()
	defer evt.mu.Unlock()

	var delivered int
	for _, f := range evt.feeds {
		select {
		case f.ch <- s:
			delivered++
		default:
			f.dropped++
		}
	}

	return delivered
}

// Dropped returns the number of messages the feed for the id has lost.
func (evt *Events) Dropped(id string) uint64 {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	if f, exists := evt.feeds[id]; exists {
		return f.dropped
	}
	return 0
}

// Count returns the number of open feeds.
func (evt *Events) Count() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.feeds)
}
