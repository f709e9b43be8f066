package events

import (
	"testing"
	"time"
)

func TestHubDeliversToAccountSubscribers(t *testing.T) {
	hub := NewHub()

	first, cancelFirst := hub.Subscribe(1)
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe(1)
	defer cancelSecond()
	other, cancelOther := hub.Subscribe(2)
	defer cancelOther()

	hub.Broadcast(1, Message{Type: EventPaymentApplied})

	for name, ch := range map[string]<-chan Message{"first": first, "second": second} {
		select {
		case msg := <-ch:
			if msg.Type != EventPaymentApplied {
				t.Fatalf("%s got type %q", name, msg.Type)
			}
			if msg.Timestamp.IsZero() {
				t.Fatalf("%s message missing timestamp", name)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s subscriber got nothing", name)
		}
	}

	select {
	case msg := <-other:
		t.Fatalf("account 2 received account 1 traffic: %+v", msg)
	default:
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(7)
	if hub.SubscriberCount(7) != 1 {
		t.Fatalf("subscribers = %d, want 1", hub.SubscriberCount(7))
	}

	cancel()
	if hub.SubscriberCount(7) != 0 {
		t.Fatalf("subscribers = %d, want 0 after cancel", hub.SubscriberCount(7))
	}
	if _, open := <-ch; open {
		t.Fatal("expected a closed channel after cancel")
	}

	// Double cancel is safe.
	cancel()

	// Broadcasting to a cancelled account is a no-op.
	hub.Broadcast(7, Message{Type: EventWalletTopup})
}

func TestHubDropsWhenSubscriberIsSlow(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(9)
	defer cancel()

	// Fill the buffer and keep going; the publisher must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Broadcast(9, Message{Type: EventNotificationCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}

	delivered := 0
	for {
		select {
		case <-ch:
			delivered++
			continue
		default:
		}
		break
	}
	if delivered == 0 || delivered > 16 {
		t.Fatalf("delivered = %d, want 1..16 buffered messages", delivered)
	}
}
