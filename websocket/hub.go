// Package websocket provides a per-game broadcast hub. Each game id is a
// room; subscribers receive every payload published to their room until
// they unsubscribe.
package websocket

import "sync"

const sendBuffer = 16

// Subscriber is one listener on a room. Messages arrive on C; a subscriber
// that stops draining is dropped rather than blocking the publisher.
type Subscriber struct {
	send chan []byte
	once sync.Once
}

// C returns the subscriber's message channel. It is closed on unsubscribe.
func (s *Subscriber) C() <-chan []byte {
	return s.send
}

func (s *Subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// Hub fans payloads out to room subscribers.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber on the room.
func (h *Hub) Subscribe(room string) *Subscriber {
	sub := &Subscriber{send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Subscriber]struct{})
	}
	h.rooms[room][sub] = struct{}{}
	return sub
}

// Unsubscribe removes the subscriber and closes its channel. Safe to call
// more than once.
func (h *Hub) Unsubscribe(room string, sub *Subscriber) {
	h.mu.Lock()
	if subs, ok := h.rooms[room]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
	sub.close()
}

// Publish delivers payload to every subscriber of the room. Subscribers
// with a full buffer miss the message; clients resynchronize by polling the
// status endpoint.
func (h *Hub) Publish(room string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[room] {
		select {
		case sub.send <- payload:
		default:
		}
	}
}

// Subscribers returns the number of listeners on the room.
func (h *Hub) Subscribers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
