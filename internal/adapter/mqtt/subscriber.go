package mqtt

import (
	"context"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/mqttclient"
)

type ReadingHandler interface {
	HandleMessage(ctx context.Context, payload []byte) (models.MarkerUpdate, error)
}

type subscriberClient interface {
	Subscribe(ctx context.Context, topic string, qos byte, h mqttclient.Handler) error
}

// Subscriber feeds bin telemetry from the broker into the map.
type Subscriber struct {
	client  subscriberClient
	topic   string
	qos     byte
	handler ReadingHandler
	log     logger.Logger
}

func NewSubscriber(client subscriberClient, topic string, qos byte, handler ReadingHandler, log logger.Logger) *Subscriber {
	return &Subscriber{
		client:  client,
		topic:   topic,
		qos:     qos,
		handler: handler,
		log:     log,
	}
}

// Start subscribes to the telemetry topic.
func (s *Subscriber) Start(ctx context.Context) error {
	return s.client.Subscribe(ctx, s.topic, s.qos, s.handle)
}

func (s *Subscriber) handle(ctx context.Context, topic string, payload []byte) {
	update, err := s.handler.HandleMessage(ctx, payload)
	if err != nil {
		// one bad message must not stop the stream
		s.log.Warn(wrap.ErrorCtx(ctx, err), "reading rejected",
			"topic", topic,
			"payload_size", len(payload),
			"error", err.Error(),
		)
		return
	}

	s.log.Debug(wrap.WithDeviceID(ctx, update.Marker.DeviceID), "reading applied",
		"topic", topic,
		"percent", update.Marker.Percent,
	)
}
