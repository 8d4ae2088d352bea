// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

var ErrClosed = errors.New("broadcast: closed")

// subscriberBuffer is how many undelivered messages a subscriber may hold
// before further messages to it are dropped.
const subscriberBuffer = 64

// Message is one event published to a room.
type Message struct {
	ID      string          `json:"id"`
	Room    string          `json:"room"`
	Event   string          `json:"event"`
	Sender  string          `json:"sender,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage builds a message with a fresh time-ordered ID.
func NewMessage(room, event, sender string, payload []byte) Message {
	return Message{
		ID:      uuid.Must(uuid.NewV7()).String(),
		Room:    room,
		Event:   event,
		Sender:  sender,
		Payload: json.RawMessage(payload),
	}
}

// NewClientID returns a random identifier for a connecting peer.
func NewClientID() string {
	return uuid.NewString()
}

// Hub fans messages out to every subscriber of a room, the sender included.
// Hub is safe for concurrent use.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Subscription]struct{}
	closed bool
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:  make(map[string]map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscription receives the messages published to one room.
type Subscription struct {
	ClientID string
	Room     string

	ch   chan Message
	hub  *Hub
	once sync.Once
}

// C delivers messages. It is closed when the subscription is closed.
func (s *Subscription) C() <-chan Message { return s.ch }

// Close leaves the room. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		if subs, ok := s.hub.rooms[s.Room]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.hub.rooms, s.Room)
			}
		}
		close(s.ch)
	})
}

// Subscribe joins room on behalf of clientID. After Close the returned
// subscription is already closed.
func (h *Hub) Subscribe(room, clientID string) *Subscription {
	sub := &Subscription{
		ClientID: clientID,
		Room:     room,
		ch:       make(chan Message, subscriberBuffer),
		hub:      h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}
	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.rooms[room] = subs
	}
	subs[sub] = struct{}{}

	h.logger.Info("client joined room", "room", room, "client_id", clientID, "members", len(subs))
	return sub
}

// Publish delivers msg to every subscriber of msg.Room without blocking and
// returns how many subscribers received it. Subscribers whose buffer is
// full miss the message.
func (h *Hub) Publish(msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.rooms[msg.Room] {
		select {
		case sub.ch <- msg:
			delivered++
		default:
			h.logger.Warn("dropping message for slow subscriber",
				"room", msg.Room,
				"event", msg.Event,
				"client_id", sub.ClientID,
			)
		}
	}
	return delivered
}

// Members returns the number of subscribers in room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close ends every subscription so open streams return, and makes later
// subscriptions start closed. Safe to call more than once.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var subs []*Subscription
	for _, room := range h.rooms {
		for sub := range room {
			subs = append(subs, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	if len(subs) > 0 {
		h.logger.Info("closed all rooms", "subscribers", len(subs))
	}
}
