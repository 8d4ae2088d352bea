// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"fmt"
	"sync"
)

// Local is an in-process store.Transport bound directly to a Hub. Messages
// are delivered on a per-client goroutine, as they would be over the wire.
type Local struct {
	hub *Hub
	id  string

	mu       sync.Mutex
	sub      *Subscription
	handlers map[string][]func([]byte)
	done     chan struct{}
}

func NewLocal(hub *Hub) *Local {
	return &Local{
		hub:      hub,
		id:       NewClientID(),
		handlers: make(map[string][]func([]byte)),
		done:     make(chan struct{}),
	}
}

func (l *Local) ID() string { return l.id }

func (l *Local) Join(room string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sub != nil {
		return fmt.Errorf("broadcast: already joined %q", l.sub.Room)
	}
	l.sub = l.hub.Subscribe(room, l.id)
	go l.deliver(l.sub)
	return nil
}

func (l *Local) On(event string, handler func(payload []byte)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[event] = append(l.handlers[event], handler)
}

func (l *Local) Emit(event string, payload []byte) error {
	l.mu.Lock()
	sub := l.sub
	l.mu.Unlock()
	if sub == nil {
		return errNotJoined
	}
	l.hub.Publish(NewMessage(sub.Room, event, l.id, payload))
	return nil
}

// Close leaves the room and waits for in-flight deliveries to finish.
func (l *Local) Close() {
	l.mu.Lock()
	sub := l.sub
	l.mu.Unlock()
	if sub == nil {
		return
	}
	sub.Close()
	<-l.done
}

func (l *Local) deliver(sub *Subscription) {
	defer close(l.done)
	for msg := range sub.C() {
		l.mu.Lock()
		handlers := append([]func([]byte){}, l.handlers[msg.Event]...)
		l.mu.Unlock()
		for _, h := range handlers {
			h(msg.Payload)
		}
	}
}
