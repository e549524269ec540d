package rabbit

import (
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	BinExchange = "bin_topic"

	QueueMarkerArchive = "bin_marker_archive"

	markerKeyPrefix  = "bin.marker."
	markerBindingKey = "bin.marker.#"
)

// MarkerRoutingKey returns the routing key of a device's marker events, e.g. "bin.marker.42".
func MarkerRoutingKey(deviceID string) string {
	return markerKeyPrefix + strings.TrimSpace(deviceID)
}

func declareExchange(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(BinExchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", BinExchange, err)
	}
	return nil
}

func declareArchiveQueue(ch *amqp.Channel) (amqp.Queue, error) {
	if err := declareExchange(ch); err != nil {
		return amqp.Queue{}, err
	}

	q, err := ch.QueueDeclare(QueueMarkerArchive, true, false, false, false, nil)
	if err != nil {
		return q, fmt.Errorf("declare queue %s: %w", QueueMarkerArchive, err)
	}

	if err := ch.QueueBind(q.Name, markerBindingKey, BinExchange, false, nil); err != nil {
		return q, fmt.Errorf("bind queue %s: %w", q.Name, err)
	}
	return q, nil
}
