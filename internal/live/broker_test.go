package live

import (
	"context"
	"testing"
	"time"
)

func drainInitial(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case <-sub.Notify():
	case <-time.After(time.Second):
		t.Fatal("no initial notification after subscribe")
	}
}

func expectSignal(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case <-sub.Notify():
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
	}
}

func expectSilence(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case <-sub.Notify():
		t.Fatal("unexpected notification")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDeliversPerUser(t *testing.T) {
	hub := NewHub()
	alice := hub.Subscribe(1)
	defer alice.Stop()
	bob := hub.Subscribe(2)
	defer bob.Stop()
	drainInitial(t, alice)
	drainInitial(t, bob)

	hub.Broadcast(1)
	expectSignal(t, alice)
	expectSilence(t, bob)
}

func TestHubStopEndsDelivery(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1)
	drainInitial(t, sub)

	sub.Stop()
	sub.Stop() // idempotent

	hub.Broadcast(1)
	expectSilence(t, sub)
}

func TestHubResubscribeDoesNotLeakPriorSubscription(t *testing.T) {
	hub := NewHub()

	// User switch on the same screen: old subscription released, new one opened.
	old := hub.Subscribe(1)
	drainInitial(t, old)
	old.Stop()

	fresh := hub.Subscribe(2)
	defer fresh.Stop()
	drainInitial(t, fresh)

	hub.Broadcast(1)
	expectSilence(t, old)
	expectSilence(t, fresh)

	hub.Broadcast(2)
	expectSignal(t, fresh)
}

func TestHubCoalescesPendingSignals(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(7)
	defer sub.Stop()

	// Initial signal still pending; these must not block.
	hub.Broadcast(7)
	hub.Broadcast(7)
	hub.Broadcast(7)

	expectSignal(t, sub)
	// All broadcasts collapsed into the one pending signal.
	expectSilence(t, sub)
}

func TestBrokerWithoutRedisDeliversLocally(t *testing.T) {
	broker := NewBroker(nil)
	sub := broker.Subscribe(3)
	defer sub.Stop()
	drainInitial(t, sub)

	broker.Publish(context.Background(), 3)
	expectSignal(t, sub)

	broker.Publish(context.Background(), 99)
	expectSilence(t, sub)
}
