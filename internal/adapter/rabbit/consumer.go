package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/metrics"
	"github.com/Temutjin2k/smartrash/pkg/rabbit"
)

const (
	consumerPrefetch = 16
	consumeBackoff   = 2 * time.Second
)

// MarkerHandler stores one marker update.
type MarkerHandler func(ctx context.Context, update models.MarkerUpdate) error

// MarkerConsumer reads marker events from the archive queue.
type MarkerConsumer struct {
	client       *rabbit.RabbitMQ
	service      string
	requeueDelay time.Duration

	l logger.Logger
}

func NewMarkerConsumer(client *rabbit.RabbitMQ, service string, l logger.Logger) *MarkerConsumer {
	return &MarkerConsumer{
		client:       client,
		service:      service,
		requeueDelay: time.Second,
		l:            l,
	}
}

// Consume blocks until ctx is done, reconnecting whenever the broker goes away.
// Deliveries are handled one at a time so a device's readings keep their order.
func (c *MarkerConsumer) Consume(ctx context.Context, handler MarkerHandler) error {
	const op = "MarkerConsumer.Consume"
	ctx = wrap.WithAction(ctx, types.ActionArchiveReading)

	for {
		if ctx.Err() != nil {
			c.l.Debug(ctx, "marker consumer stopped by context")
			return nil
		}

		if err := c.client.EnsureConnection(ctx); err != nil {
			c.l.Error(ctx, "ensure connection failed", err, "op", op)
			pause(ctx, consumeBackoff)
			continue
		}

		msgs, err := c.subscribe()
		if err != nil {
			c.l.Error(ctx, "subscribe failed", err, "op", op)
			pause(ctx, consumeBackoff)
			continue
		}

		c.l.Info(ctx, "start consuming marker events", "queue", QueueMarkerArchive)

		if done := c.drain(ctx, msgs, handler); done {
			c.l.Info(ctx, "marker consumer shutting down")
			return nil
		}

		c.l.Warn(ctx, "message channel closed, reconnecting...", "op", op)
		pause(ctx, consumeBackoff)
	}
}

func (c *MarkerConsumer) subscribe() (<-chan amqp.Delivery, error) {
	ch, err := c.client.CurrentChannel()
	if err != nil {
		return nil, err
	}

	q, err := declareArchiveQueue(ch)
	if err != nil {
		return nil, err
	}

	if err := ch.Qos(consumerPrefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", q.Name, err)
	}
	return msgs, nil
}

// drain handles deliveries until the channel closes (false) or ctx is done (true).
func (c *MarkerConsumer) drain(ctx context.Context, msgs <-chan amqp.Delivery, handler MarkerHandler) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case d, ok := <-msgs:
			if !ok {
				return false
			}
			c.handleDelivery(ctx, handler, d)
		}
	}
}

func (c *MarkerConsumer) handleDelivery(ctx context.Context, handler MarkerHandler, d amqp.Delivery) {
	const op = "MarkerConsumer.handleDelivery"

	ctx = wrap.WithRequestID(ctx, d.CorrelationId)

	var update models.MarkerUpdate
	if err := json.Unmarshal(d.Body, &update); err != nil {
		metrics.RecordRabbitMQConsume(c.service, QueueMarkerArchive, err)
		c.l.Error(ctx, "failed to decode marker update", err, "op", op)
		_ = d.Nack(false, false)
		return
	}
	ctx = wrap.WithDeviceID(ctx, update.Marker.DeviceID)

	err := handler(ctx, update)
	metrics.RecordRabbitMQConsume(c.service, QueueMarkerArchive, err)
	if err != nil {
		requeue := isRecoverableError(err)
		c.l.Error(wrap.ErrorCtx(ctx, err), "failed to handle marker update", err, "op", op, "requeue", requeue)
		if requeue {
			pause(ctx, c.requeueDelay)
		}
		_ = d.Nack(false, requeue)
		return
	}

	if err := d.Ack(false); err != nil {
		c.l.Warn(ctx, "ack failed", "error", err.Error(), "op", op)
	}
}
