package mqttbroker

import (
	"context"
	"fmt"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"

	"github.com/Temutjin2k/smartrash/pkg/logger"
)

// Broker is an in-process MQTT broker for local runs without a public broker.
// It accepts every client.
type Broker struct {
	server *mqtt.Server
	addr   string
	log    logger.Logger
}

func New(addr string, log logger.Logger) (*Broker, error) {
	server := mqtt.New(&mqtt.Options{
		InlineClient: true,
		Logger:       log.GetSlogLogger(),
	})

	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, fmt.Errorf("failed to add auth hook: %w", err)
	}

	if err := server.AddListener(listeners.NewTCP("tcp", addr, nil)); err != nil {
		return nil, fmt.Errorf("failed to add tcp listener on %s: %w", addr, err)
	}

	return &Broker{server: server, addr: addr, log: log}, nil
}

// Start serves clients in the background.
func (b *Broker) Start(ctx context.Context) error {
	if err := b.server.Serve(); err != nil {
		return fmt.Errorf("failed to start mqtt broker: %w", err)
	}
	b.log.Info(ctx, "embedded mqtt broker started", "address", b.addr)
	return nil
}

// Publish injects a message as if a device had sent it.
func (b *Broker) Publish(topic string, payload []byte, retain bool, qos byte) error {
	return b.server.Publish(topic, payload, retain, qos)
}

func (b *Broker) Close(ctx context.Context) error {
	if err := b.server.Close(); err != nil {
		return fmt.Errorf("failed to close mqtt broker: %w", err)
	}
	b.log.Info(ctx, "embedded mqtt broker stopped")
	return nil
}
