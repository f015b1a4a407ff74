package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher sends ledger events as JSON. A publisher without a
// connection drops every event.
type NATSPublisher struct {
	nc     conn
	logger *zap.Logger
}

func NewNATSPublisher(nc *nats.Conn, logger *zap.Logger) *NATSPublisher {
	if nc == nil {
		return &NATSPublisher{logger: logger}
	}
	return &NATSPublisher{nc: nc, logger: logger}
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	if p.nc == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	if err := p.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug("Event published", zap.String("subject", subject), zap.Int("bytes", len(payload)))
	return nil
}

// Connect dials NATS. An empty url disables publishing and returns a nil
// connection.
func Connect(url string, logger *zap.Logger) (*nats.Conn, error) {
	if url == "" {
		logger.Info("NATS_URL not set, events are disabled")
		return nil, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("assetledger"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return nc, nil
}
