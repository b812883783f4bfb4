package realtime

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestHub() *Hub {
	return NewHub(time.Minute, time.Minute, zerolog.Nop())
}

// nextEvent receives one event of the wanted type, skipping others.
func nextEvent(t *testing.T, sub *Subscription, want EventType) Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				t.Fatalf("stream closed while waiting for %s event", want)
			}
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", want)
		}
	}
}

func TestHub_OnlineUnknownCollege(t *testing.T) {
	hub := newTestHub()
	if got := hub.Online(999); got != 0 {
		t.Errorf("Online() for unknown college = %d, want 0", got)
	}
}

func TestHub_SubscribeAnnouncesPresence(t *testing.T) {
	hub := newTestHub()

	sub := hub.Subscribe(7, payload(1, "Ada"))
	defer sub.Close()

	ev := nextEvent(t, sub, EventPresence)
	if len(ev.Roster) != 1 || ev.Roster[0].UserID != 1 {
		t.Errorf("initial roster = %v, want exactly user 1", ev.Roster)
	}
	if got := hub.Online(7); got != 1 {
		t.Errorf("Online() = %d, want 1", got)
	}
}

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := newTestHub()

	ada := hub.Subscribe(7, payload(1, "Ada"))
	defer ada.Close()
	grace := hub.Subscribe(7, payload(2, "Grace"))
	defer grace.Close()

	committed := msg(11, "hello")
	hub.Publish(7, committed)

	for _, sub := range []*Subscription{ada, grace} {
		ev := nextEvent(t, sub, EventMessage)
		if ev.Message == nil || ev.Message.ID != 11 {
			t.Errorf("delivered message = %v, want id 11", ev.Message)
		}
	}
}

func TestHub_PublishScopedToCollege(t *testing.T) {
	hub := newTestHub()

	inScope := hub.Subscribe(7, payload(1, "Ada"))
	defer inScope.Close()
	outOfScope := hub.Subscribe(8, payload(2, "Grace"))
	defer outOfScope.Close()

	hub.Publish(7, msg(11, "hello"))
	nextEvent(t, inScope, EventMessage)

	select {
	case ev := <-outOfScope.Events():
		if ev.Type == EventMessage {
			t.Errorf("subscriber on college 8 received message for college 7: %v", ev)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	hub := newTestHub()
	// The message is durable already; nothing to deliver.
	hub.Publish(7, msg(11, "hello"))
}

func TestHub_SameUserTwoSessions(t *testing.T) {
	hub := newTestHub()

	first := hub.Subscribe(7, payload(1, "Ada"))
	defer first.Close()
	nextEvent(t, first, EventPresence)

	second := hub.Subscribe(7, payload(1, "Ada"))

	if got := hub.Online(7); got != 1 {
		t.Errorf("Online() with two sessions of one user = %d, want 1", got)
	}

	second.Close()
	waitFor(t, func() bool { return hub.Online(7) == 1 }, "roster after first close")

	first.Close()
	waitFor(t, func() bool { return hub.Online(7) == 0 }, "roster after last close")
}

func TestHub_CloseIsIdempotent(t *testing.T) {
	hub := newTestHub()

	sub := hub.Subscribe(7, payload(1, "Ada"))
	sub.Close()
	sub.Close()

	waitFor(t, func() bool { return hub.Online(7) == 0 }, "roster drain")
}

func TestHub_UnregisterBroadcastsRoster(t *testing.T) {
	hub := newTestHub()

	ada := hub.Subscribe(7, payload(1, "Ada"))
	grace := hub.Subscribe(7, payload(2, "Grace"))
	defer grace.Close()

	waitFor(t, func() bool { return hub.Online(7) == 2 }, "both present")
	ada.Close()

	deadline := time.After(time.Second)
	for {
		var ev Event
		select {
		case ev = <-grace.Events():
		case <-deadline:
			t.Fatal("timed out waiting for shrunken roster")
		}
		if ev.Type != EventPresence {
			continue
		}
		if len(ev.Roster) == 1 && ev.Roster[0].UserID == 2 {
			return
		}
	}
}

func TestHub_LeaseExpiryDropsGhosts(t *testing.T) {
	hub := NewHub(30*time.Millisecond, 10*time.Millisecond, zerolog.Nop())

	sub := hub.Subscribe(7, payload(1, "Ada"))
	defer sub.Close()
	waitFor(t, func() bool { return hub.Online(7) == 1 }, "presence")

	// No heartbeat arrives, so the sweep reclaims the entry even though
	// the subscription itself is still open.
	waitFor(t, func() bool { return hub.Online(7) == 0 }, "lease expiry")
}

func TestHub_TouchKeepsEntryAlive(t *testing.T) {
	hub := NewHub(60*time.Millisecond, 10*time.Millisecond, zerolog.Nop())

	sub := hub.Subscribe(7, payload(1, "Ada"))
	defer sub.Close()
	waitFor(t, func() bool { return hub.Online(7) == 1 }, "presence")

	for i := 0; i < 10; i++ {
		hub.Touch(7, 1)
		time.Sleep(20 * time.Millisecond)
		if hub.Online(7) != 1 {
			t.Fatalf("Online() = %d during heartbeats, want 1", hub.Online(7))
		}
	}

	// Touching an unknown college must not panic or create a channel.
	hub.Touch(999, 1)
}

func TestHub_SlowSubscriberEvicted(t *testing.T) {
	hub := newTestHub()

	slow := hub.Subscribe(7, payload(1, "Ada"))
	waitFor(t, func() bool { return hub.Online(7) == 1 }, "presence")

	// Never drain; once the buffer is full the channel loop drops the
	// subscriber instead of blocking everyone else.
	for i := 0; i < subscriptionBuffer+8; i++ {
		hub.Publish(7, msg(int64(i+1), "flood"))
	}

	waitFor(t, func() bool { return hub.Online(7) == 0 }, "eviction")

	// The events channel is closed on eviction; Close afterwards is safe.
	drainDeadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.Events():
			if !ok {
				slow.Close()
				return
			}
		case <-drainDeadline:
			t.Fatal("events channel never closed after eviction")
		}
	}
}
