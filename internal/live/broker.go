// Package live pushes habit-change notifications to open list subscriptions.
//
// Writes publish a per-user "changed" signal; each open stream holds a
// Subscription and recomputes a full snapshot per signal. With Redis attached
// the signal round-trips through pub/sub so every instance's subscribers see
// changes made on any instance.
package live

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "habits:changed:"

// Subscription is one live listener for a single user's habit changes.
// Notifications coalesce: the channel holds at most one pending signal,
// and a snapshot is recomputed per signal, so dropped intermediate
// signals lose nothing.
type Subscription struct {
	notify chan struct{}
	once   sync.Once
	stop   func(*Subscription)
}

// Notify returns the channel that fires when the user's habits changed.
// It is primed with one signal at subscribe time so the first receive
// produces the initial snapshot.
func (s *Subscription) Notify() <-chan struct{} { return s.notify }

// Stop releases the subscription. Idempotent. After Stop no further
// notifications are delivered.
func (s *Subscription) Stop() {
	s.once.Do(func() { s.stop(s) })
}

// Hub fans change signals out to in-process subscriptions, keyed by user.
type Hub struct {
	mu   sync.Mutex
	subs map[int64]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int64]map[*Subscription]struct{})}
}

// Subscribe registers a listener for userID. The caller must Stop it.
func (h *Hub) Subscribe(userID int64) *Subscription {
	sub := &Subscription{notify: make(chan struct{}, 1)}
	sub.stop = func(s *Subscription) {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[userID], s)
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
	}
	sub.notify <- struct{}{} // initial snapshot

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	return sub
}

// Broadcast signals every subscription for userID. Non-blocking: a
// subscriber with a pending signal is skipped.
func (h *Hub) Broadcast(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[userID] {
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports how many live subscriptions userID currently holds
// on this instance.
func (h *Hub) Subscribers(userID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

// Broker is the write-side entry point. With a Redis client the signal is
// published to habits:changed:<userID> and comes back through Run; with a
// nil client (tests, single process) it goes straight to the local hub.
type Broker struct {
	hub *Hub
	rdb *redis.Client
}

func NewBroker(rdb *redis.Client) *Broker {
	return &Broker{hub: NewHub(), rdb: rdb}
}

// Subscribe registers a live listener for userID on this instance.
func (b *Broker) Subscribe(userID int64) *Subscription {
	return b.hub.Subscribe(userID)
}

// Subscribers reports this instance's live subscription count for userID.
func (b *Broker) Subscribers(userID int64) int {
	return b.hub.Subscribers(userID)
}

// Publish signals that userID's habits changed.
func (b *Broker) Publish(ctx context.Context, userID int64) {
	if b.rdb == nil {
		b.hub.Broadcast(userID)
		return
	}
	if err := b.rdb.Publish(ctx, channelPrefix+strconv.FormatInt(userID, 10), "1").Err(); err != nil {
		log.Printf("live: publish user %d: %v", userID, err)
		// Degrade to local delivery so this instance's own subscribers
		// still see the change.
		b.hub.Broadcast(userID)
	}
}

// Run pumps Redis pub/sub signals into the local hub until ctx is done.
// No-op without a Redis client.
func (b *Broker) Run(ctx context.Context) {
	if b.rdb == nil {
		return
	}
	pubsub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			raw := strings.TrimPrefix(msg.Channel, channelPrefix)
			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				log.Printf("live: bad channel %q", msg.Channel)
				continue
			}
			b.hub.Broadcast(userID)
		}
	}
}
