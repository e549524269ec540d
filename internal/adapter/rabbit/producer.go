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
	publishTimeout = 5 * time.Second
	publishRetries = 3
)

// MarkerProducer fans marker updates out to the bin exchange.
type MarkerProducer struct {
	client  *rabbit.RabbitMQ
	service string
	now     func() time.Time

	l logger.Logger
}

func NewMarkerProducer(client *rabbit.RabbitMQ, service string, l logger.Logger) *MarkerProducer {
	return &MarkerProducer{
		client:  client,
		service: service,
		now:     time.Now,
		l:       l,
	}
}

// DeclareTopology makes sure the exchange exists before the first publish.
func (p *MarkerProducer) DeclareTopology(ctx context.Context) error {
	const op = "MarkerProducer.DeclareTopology"

	ch, err := p.client.CurrentChannel()
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if err := declareExchange(ch); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// OnMarkerUpdate publishes the update with key bin.marker.{device_id}.
func (p *MarkerProducer) OnMarkerUpdate(ctx context.Context, update models.MarkerUpdate) (err error) {
	const op = "MarkerProducer.OnMarkerUpdate"

	defer func() { metrics.RecordRabbitMQPublish(p.service, BinExchange, err) }()

	msg, err := p.publishing(ctx, update)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %v", op, types.ErrPublishFailed, err))
	}
	key := MarkerRoutingKey(update.Marker.DeviceID)

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.client.EnsureConnection(ctx); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %v", op, types.ErrPublishFailed, err))
	}

	err = retry(ctx, publishRetries, 200*time.Millisecond, func() error {
		ch, err := p.client.CurrentChannel()
		if err != nil {
			return err
		}
		return ch.PublishWithContext(ctx, BinExchange, key, false, false, msg)
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %v", op, types.ErrPublishFailed, err))
	}

	p.l.Debug(ctx, "marker event published", "routing_key", key)
	return nil
}

func (p *MarkerProducer) publishing(ctx context.Context, update models.MarkerUpdate) (amqp.Publishing, error) {
	body, err := json.Marshal(update)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal marker update: %w", err)
	}

	return amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		CorrelationId: wrap.FromContext(ctx).RequestID,
		MessageId:     update.Marker.DeviceID,
		Timestamp:     p.now(),
		Body:          body,
	}, nil
}
