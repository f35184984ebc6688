package notify

import (
	"testing"

	"go.uber.org/zap"
)

func TestHubDeliversToDocumentSubscribers(t *testing.T) {
	h := NewHub(zap.NewNop())

	id1, ch1 := h.Subscribe("d1")
	defer h.Unsubscribe("d1", id1)
	id2, ch2 := h.Subscribe("d2")
	defer h.Unsubscribe("d2", id2)

	h.Broadcast(Event{Type: "processing_completed", DocumentID: "d1", Status: "completed"})

	select {
	case ev := <-ch1:
		if ev.Type != "processing_completed" || ev.DocumentID != "d1" {
			t.Errorf("got %+v", ev)
		}
	default:
		t.Fatal("subscriber for d1 should receive the event")
	}

	select {
	case ev := <-ch2:
		t.Errorf("subscriber for d2 should not receive d1 events, got %+v", ev)
	default:
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(zap.NewNop())

	id, ch := h.Subscribe("d1")
	h.Unsubscribe("d1", id)

	if _, open := <-ch; open {
		t.Error("channel should be closed after unsubscribe")
	}
	if n := h.SubscriberCount("d1"); n != 0 {
		t.Errorf("SubscriberCount = %d, want 0", n)
	}

	// Broadcasting to a fully unsubscribed document is a no-op.
	h.Broadcast(Event{Type: "processing_failed", DocumentID: "d1"})
}

func TestHubDropsWhenSubscriberFull(t *testing.T) {
	h := NewHub(zap.NewNop())

	id, ch := h.Subscribe("d1")
	defer h.Unsubscribe("d1", id)

	for i := 0; i < cap(ch)+5; i++ {
		h.Broadcast(Event{Type: "progress", DocumentID: "d1"})
	}

	if len(ch) != cap(ch) {
		t.Errorf("expected buffer full, len = %d cap = %d", len(ch), cap(ch))
	}
}

func TestHubMultipleSubscribersSameDocument(t *testing.T) {
	h := NewHub(zap.NewNop())

	id1, ch1 := h.Subscribe("d1")
	defer h.Unsubscribe("d1", id1)
	id2, ch2 := h.Subscribe("d1")
	defer h.Unsubscribe("d1", id2)

	h.Broadcast(Event{Type: "processing_started", DocumentID: "d1"})

	if len(ch1) != 1 || len(ch2) != 1 {
		t.Errorf("both subscribers should get the event, got %d and %d", len(ch1), len(ch2))
	}
}
