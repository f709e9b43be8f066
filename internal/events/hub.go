package events

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Message is delivered to live subscribers of an account.
type Message struct {
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// Hub fans committed events out to in-process subscribers. Initial state and
// incremental updates share the same channel.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[snowflake.ID]map[int]chan Message
}

func NewHub() *Hub {
	return &Hub{subs: make(map[snowflake.ID]map[int]chan Message)}
}

// Subscribe registers a listener for one account. The returned cancel handle
// must be called to release the subscription.
func (h *Hub) Subscribe(accountID snowflake.ID) (<-chan Message, func()) {
	ch := make(chan Message, 16)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	listeners := h.subs[accountID]
	if listeners == nil {
		listeners = make(map[int]chan Message)
		h.subs[accountID] = listeners
	}
	listeners[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if listeners, ok := h.subs[accountID]; ok {
			if ch, ok := listeners[id]; ok {
				delete(listeners, id)
				close(ch)
			}
			if len(listeners) == 0 {
				delete(h.subs, accountID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast delivers a message to every subscriber of the account. Slow
// subscribers drop messages rather than block the publisher.
func (h *Hub) Broadcast(accountID snowflake.ID, msg Message) {
	if h == nil || accountID == 0 {
		return
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[accountID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount reports active listeners for an account.
func (h *Hub) SubscriberCount(accountID snowflake.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[accountID])
}
