// Package notify fans out per-document processing events to subscribers.
package notify

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one processing notification for a document.
type Event struct {
	Type       string `json:"type"`
	DocumentID string `json:"doc_id"`
	Status     string `json:"status,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Hub routes events to subscribers keyed by document ID. Delivery is
// non-blocking: a subscriber that stops draining its channel misses
// events instead of stalling the pipeline.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[string]chan Event
	logger *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[string]chan Event),
		logger: logger,
	}
}

// Subscribe registers interest in a document's events. The returned ID
// must be passed to Unsubscribe when the subscriber goes away.
func (h *Hub) Subscribe(documentID string) (string, <-chan Event) {
	id := uuid.New().String()
	ch := make(chan Event, 8)

	h.mu.Lock()
	if h.subs[documentID] == nil {
		h.subs[documentID] = make(map[string]chan Event)
	}
	h.subs[documentID][id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(documentID, subID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subs[documentID]
	if !ok {
		return
	}
	ch, ok := subs[subID]
	if !ok {
		return
	}
	delete(subs, subID)
	if len(subs) == 0 {
		delete(h.subs, documentID)
	}
	close(ch)
}

// Broadcast delivers an event to every subscriber of its document.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for subID, ch := range h.subs[event.DocumentID] {
		select {
		case ch <- event:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				zap.String("doc_id", event.DocumentID),
				zap.String("subscriber", subID),
				zap.String("type", event.Type),
			)
		}
	}
}

// SubscriberCount returns the number of subscribers for a document.
func (h *Hub) SubscriberCount(documentID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[documentID])
}
