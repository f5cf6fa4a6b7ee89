package natsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/tronarena/game/engine"
	"github.com/wricardo/mcp-training/tronarena/game/events"
)

type message struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []message
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, message{subject: subject, data: data})
	return nil
}

func (f *fakePublisher) messages() []message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]message(nil), f.msgs...)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "tron.events.game_started", New(&fakePublisher{}, "", nil).Subject(events.GameStarted))
	assert.Equal(t, "arena.game_update", New(&fakePublisher{}, "arena", nil).Subject(events.GameUpdate))
}

func TestPublish(t *testing.T) {
	pub := &fakePublisher{}
	b := New(pub, "tron.events", nil)

	err := b.Publish(events.Event{
		Type:   events.GameFinished,
		GameID: "g1",
		Game:   &engine.Snapshot{ID: "g1", Tick: 12},
	})
	require.NoError(t, err)

	msgs := pub.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "tron.events.game_finished", msgs[0].subject)

	var ev events.Event
	require.NoError(t, json.Unmarshal(msgs[0].data, &ev))
	assert.Equal(t, "g1", ev.GameID)
	require.NotNil(t, ev.Game)
	assert.Equal(t, 12, ev.Game.Tick)
	assert.Equal(t, uint64(1), b.Published())
}

func TestPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	b := New(pub, "", nil)

	err := b.Publish(events.Event{Type: events.GameUpdate, GameID: "g1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection closed")
	assert.Equal(t, uint64(1), b.Failed())
	assert.Equal(t, uint64(0), b.Published())
}

func TestRunForwardsUntilCancelled(t *testing.T) {
	pub := &fakePublisher{}
	b := New(pub, "", nil)
	broker := events.NewBroker(8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx, broker.Subscribe())
		close(done)
	}()
	require.Eventually(t, func() bool { return broker.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	broker.Publish(events.Event{Type: events.GameStarted, GameID: "a"})
	broker.Publish(events.Event{Type: events.GameFinished, GameID: "a"})
	require.Eventually(t, func() bool { return len(pub.messages()) == 2 }, time.Second, 5*time.Millisecond)

	msgs := pub.messages()
	assert.Equal(t, "tron.events.game_started", msgs[0].subject)
	assert.Equal(t, "tron.events.game_finished", msgs[1].subject)

	cancel()
	<-done
	assert.Equal(t, 0, broker.Subscribers())
}

func TestRunStopsWhenBrokerCloses(t *testing.T) {
	b := New(&fakePublisher{err: errors.New("down")}, "", nil)
	broker := events.NewBroker(8)
	sub := broker.Subscribe()

	done := make(chan struct{})
	go func() {
		b.Run(context.Background(), sub)
		close(done)
	}()

	broker.Publish(events.Event{Type: events.GameUpdate, GameID: "x"})
	broker.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after broker close")
	}
	assert.Equal(t, uint64(1), b.Failed())
}
