package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

func TestPublish_EncodesJSON(t *testing.T) {
	nc := &recordingConn{}
	p := &NATSPublisher{nc: nc, logger: zap.NewNop()}

	err := p.Publish(context.Background(), "assets.log.recorded", map[string]int{"asset_id": 7})
	require.NoError(t, err)

	assert.Equal(t, []string{"assets.log.recorded"}, nc.subjects)
	assert.JSONEq(t, `{"asset_id":7}`, string(nc.payloads[0]))
}

func TestPublish_WithoutConnection(t *testing.T) {
	p := NewNATSPublisher(nil, zap.NewNop())

	assert.NoError(t, p.Publish(context.Background(), "assets.log.recorded", struct{}{}))
}

func TestPublish_Errors(t *testing.T) {
	nc := &recordingConn{err: errors.New("connection closed")}
	p := &NATSPublisher{nc: nc, logger: zap.NewNop()}

	err := p.Publish(context.Background(), "assets.log.cancelled", struct{}{})
	assert.ErrorContains(t, err, "publish assets.log.cancelled")

	err = p.Publish(context.Background(), "assets.log.cancelled", make(chan int))
	assert.ErrorContains(t, err, "encode assets.log.cancelled event")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, "assets.log.cancelled", struct{}{}), context.Canceled)
}

func TestConnect_EmptyURL(t *testing.T) {
	nc, err := Connect("", zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, nc)
}
