package mqttclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/metrics"
)

var (
	ErrNotConnected = errors.New("mqtt client is not connected")
	ErrTimeout      = errors.New("mqtt operation timed out")
)

const resubscribeTimeout = 10 * time.Second

type Config struct {
	BrokerURL      string
	ClientID       string
	Username       string
	Password       string
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
}

// Handler receives one message. Messages are delivered one at a time in arrival order.
type Handler func(ctx context.Context, topic string, payload []byte)

type subscription struct {
	qos     byte
	handler mqtt.MessageHandler
}

// Client wraps a paho client. Subscriptions survive reconnects.
type Client struct {
	client mqtt.Client

	mu   sync.Mutex
	subs map[string]subscription

	log logger.Logger
}

// New connects to the broker.
func New(ctx context.Context, cfg Config, log logger.Logger) (*Client, error) {
	c := &Client{
		subs: make(map[string]subscription),
		log:  log,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(false).
		SetOrderMatters(true).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(c.onConnectionLost)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.KeepAlive > 0 {
		opts.SetKeepAlive(cfg.KeepAlive)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	c.client = mqtt.NewClient(opts)

	if err := wait(ctx, c.client.Connect()); err != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker %s: %w", cfg.BrokerURL, err)
	}

	return c, nil
}

// Subscribe registers h for topic and subscribes right away.
func (c *Client) Subscribe(ctx context.Context, topic string, qos byte, h Handler) error {
	sub := subscription{
		qos: qos,
		handler: func(_ mqtt.Client, msg mqtt.Message) {
			msgCtx := wrap.WithAction(context.Background(), types.ActionMQTTMessage)
			h(msgCtx, msg.Topic(), msg.Payload())
		},
	}

	c.mu.Lock()
	c.subs[topic] = sub
	c.mu.Unlock()

	if err := wait(ctx, c.client.Subscribe(topic, qos, sub.handler)); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	c.log.Info(ctx, "subscribed to mqtt topic", "topic", topic, "qos", qos)
	return nil
}

// Publish sends payload to topic and waits for the broker to accept it.
func (c *Client) Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error {
	if !c.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	if err := wait(ctx, c.client.Publish(topic, qos, retained, payload)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (c *Client) IsConnected() bool {
	return c.client.IsConnectionOpen()
}

// Close disconnects, giving in-flight work up to quiesce to finish.
func (c *Client) Close(quiesce time.Duration) {
	c.client.Disconnect(uint(quiesce.Milliseconds()))
	metrics.MQTTConnectedGauge.Set(0)
}

func (c *Client) onConnect(client mqtt.Client) {
	ctx := wrap.WithAction(context.Background(), types.ActionMQTTConnected)
	metrics.MQTTConnectedGauge.Set(1)
	c.log.Info(ctx, "connected to mqtt broker")

	c.mu.Lock()
	subs := make(map[string]subscription, len(c.subs))
	for topic, sub := range c.subs {
		subs[topic] = sub
	}
	c.mu.Unlock()

	// the handler runs on the paho router goroutine and must not block on tokens
	for topic, sub := range subs {
		go func() {
			t := client.Subscribe(topic, sub.qos, sub.handler)
			if err := waitTimeout(t, resubscribeTimeout); err != nil {
				c.log.Error(ctx, "failed to resubscribe", err, "topic", topic)
				return
			}
			c.log.Debug(ctx, "resubscribed", "topic", topic)
		}()
	}
}

func (c *Client) onConnectionLost(_ mqtt.Client, err error) {
	ctx := wrap.WithAction(context.Background(), types.ActionMQTTConnectionLost)
	metrics.MQTTConnectedGauge.Set(0)
	c.log.Error(ctx, "mqtt connection lost, reconnecting", err)
}

func wait(ctx context.Context, t mqtt.Token) error {
	select {
	case <-t.Done():
		return t.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitTimeout is wait for callbacks that have no context.
func waitTimeout(t mqtt.Token, d time.Duration) error {
	if !t.WaitTimeout(d) {
		return fmt.Errorf("%w after %s", ErrTimeout, d)
	}
	return t.Error()
}
