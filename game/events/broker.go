package events

import (
	"sync"
	"time"

	"github.com/wricardo/mcp-training/tronarena/game/engine"
)

// Type names an event.
type Type string

const (
	GameStarted  Type = "game_started"
	GameUpdate   Type = "game_update"
	GameFinished Type = "game_finished"
)

// DefaultBuffer is the per-subscriber buffer used when none is configured.
const DefaultBuffer = 256

// Event is a single state change of a match.
type Event struct {
	Type   Type             `json:"type"`
	GameID string           `json:"game_id"`
	Game   *engine.Snapshot `json:"game,omitempty"`
	At     time.Time        `json:"at"`
}

// Broker distributes events to subscribers.
type Broker struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	buffer  int
	dropped uint64
	closed  bool
}

// NewBroker creates a broker whose subscribers buffer up to buffer events.
func NewBroker(buffer int) *Broker {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Broker{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Subscription is one listener's view of the event stream.
type Subscription struct {
	broker *Broker
	ch     chan Event
	once   sync.Once
}

// C returns the channel events are delivered on. It is closed when the
// subscription or the broker is closed.
func (s *Subscription) C() <-chan Event { return s.ch }

// Close detaches the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.broker.remove(s)
}

// Subscribe registers a new listener. Subscribing to a closed broker returns
// a subscription whose channel is already closed.
func (b *Broker) Subscribe() *Subscription {
	s := &Subscription{broker: b, ch: make(chan Event, b.buffer)}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.once.Do(func() { close(s.ch) })
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Publish delivers ev to every subscriber without blocking. A full buffer
// loses its oldest event.
func (b *Broker) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	for s := range b.subs {
		b.deliver(s, ev)
	}
}

// deliver must be called with b.mu held.
func (b *Broker) deliver(s *Subscription, ev Event) {
	select {
	case s.ch <- ev:
		return
	default:
	}

	select {
	case <-s.ch:
		b.dropped++
	default:
	}

	select {
	case s.ch <- ev:
	default:
		b.dropped++
	}
}

// Subscribers returns the number of attached listeners.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped returns how many events were discarded on overflow.
func (b *Broker) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close detaches every subscriber and closes their channels.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		delete(b.subs, s)
		s.once.Do(func() { close(s.ch) })
	}
}

func (b *Broker) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, s)
	s.once.Do(func() { close(s.ch) })
}
