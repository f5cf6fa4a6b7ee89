package natsbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/tronarena/game/events"
)

// DefaultSubject is the subject prefix events are published under.
const DefaultSubject = "tron.events"

// Publisher is the part of *nats.Conn the bridge needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Connect dials a NATS server and logs connection state changes.
func Connect(url string, logger *zap.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name("tron-arena"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return nc, nil
}

// Bridge republishes broker events on NATS as JSON, one subject per event
// type.
type Bridge struct {
	pub     Publisher
	subject string
	logger  *zap.Logger

	published atomic.Uint64
	failed    atomic.Uint64
}

// New creates a bridge publishing under subject.
func New(pub Publisher, subject string, logger *zap.Logger) *Bridge {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{pub: pub, subject: subject, logger: logger}
}

// Subject returns the subject events of type t are published on.
func (b *Bridge) Subject(t events.Type) string {
	return b.subject + "." + string(t)
}

// Publish sends a single event.
func (b *Bridge) Publish(ev events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.pub.Publish(b.Subject(ev.Type), data); err != nil {
		b.failed.Add(1)
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	b.published.Add(1)
	return nil
}

// Run publishes every event from sub until it closes or ctx is cancelled.
// Failures are logged and do not stop the bridge. Run closes sub on return.
func (b *Bridge) Run(ctx context.Context, sub *events.Subscription) {
	defer sub.Close()
	for {
		select {
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			if err := b.Publish(ev); err != nil {
				b.logger.Warn("nats publish failed",
					zap.String("game_id", ev.GameID),
					zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Published returns the number of events sent successfully.
func (b *Bridge) Published() uint64 { return b.published.Load() }

// Failed returns the number of events the publisher rejected.
func (b *Bridge) Failed() uint64 { return b.failed.Load() }
