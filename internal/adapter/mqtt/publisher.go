package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

type publisherClient interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
}

// Publisher sends readings the way a bin does. Used by the simulator.
type Publisher struct {
	client publisherClient
	topic  string
	qos    byte
}

func NewPublisher(client publisherClient, topic string, qos byte) *Publisher {
	return &Publisher{client: client, topic: topic, qos: qos}
}

func (p *Publisher) Publish(ctx context.Context, r models.Reading) error {
	payload, err := EncodeFirmwarePayload(r)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.topic, p.qos, false, payload)
}

// firmwarePayload mirrors the bin firmware, which quotes every number.
type firmwarePayload struct {
	ID        string `json:"id"`
	GPSMsg    string `json:"gps_msg"`
	Distance  string `json:"distance"`
	Lat       string `json:"lat"`
	LatScale  string `json:"lat_scale"`
	Long      string `json:"long"`
	LongScale string `json:"long_scale"`
}

func EncodeFirmwarePayload(r models.Reading) ([]byte, error) {
	b, err := json.Marshal(firmwarePayload{
		ID:        r.ID,
		GPSMsg:    r.GPSMessage,
		Distance:  formatNumber(r.Distance),
		Lat:       formatNumber(r.Lat),
		LatScale:  formatNumber(r.LatScale),
		Long:      formatNumber(r.Long),
		LongScale: formatNumber(r.LongScale),
	})
	if err != nil {
		return nil, fmt.Errorf("encode reading %s: %w", r.ID, err)
	}
	return b, nil
}

func formatNumber(n models.Number) string {
	return strconv.FormatFloat(n.Float64(), 'f', -1, 64)
}
