package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
)

type fakeAck struct {
	acks     int
	nacks    int
	requeued bool
}

func (f *fakeAck) Ack(uint64, bool) error { f.acks++; return nil }
func (f *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacks++
	f.requeued = requeue
	return nil
}
func (f *fakeAck) Reject(uint64, bool) error { return nil }

func newTestConsumer() *MarkerConsumer {
	c := NewMarkerConsumer(nil, "test", logger.New(io.Discard, "test", "ERROR"))
	c.requeueDelay = 0
	return c
}

func delivery(t *testing.T, ack *fakeAck, body any) amqp.Delivery {
	t.Helper()
	b, ok := body.([]byte)
	if !ok {
		var err error
		if b, err = json.Marshal(body); err != nil {
			t.Fatal(err)
		}
	}
	return amqp.Delivery{Acknowledger: ack, Body: b, CorrelationId: "req-1"}
}

func TestHandleDelivery(t *testing.T) {
	update := models.MarkerUpdate{Marker: models.Marker{DeviceID: "7", Percent: 50, Color: "#fffa00"}}

	tests := []struct {
		name        string
		body        any
		handlerErr  error
		wantAcks    int
		wantNacks   int
		wantRequeue bool
	}{
		{name: "stored", body: update, wantAcks: 1},
		{name: "garbage is dropped", body: []byte("{nope"), wantNacks: 1},
		{name: "database failure is requeued", body: update, handlerErr: fmt.Errorf("insert: %w", types.ErrDatabaseFailed), wantNacks: 1, wantRequeue: true},
		{name: "other failure is dropped", body: update, handlerErr: errors.New("bad"), wantNacks: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			var got models.MarkerUpdate
			var gotRequestID string

			newTestConsumer().handleDelivery(context.Background(), func(ctx context.Context, u models.MarkerUpdate) error {
				got = u
				gotRequestID = wrap.FromContext(ctx).RequestID
				return tt.handlerErr
			}, delivery(t, ack, tt.body))

			if ack.acks != tt.wantAcks || ack.nacks != tt.wantNacks || ack.requeued != tt.wantRequeue {
				t.Fatalf("acks=%d nacks=%d requeue=%v", ack.acks, ack.nacks, ack.requeued)
			}
			if tt.wantAcks == 1 {
				if got.Marker.DeviceID != "7" || got.Marker.Color != "#fffa00" {
					t.Fatalf("unexpected update %+v", got.Marker)
				}
				if gotRequestID != "req-1" {
					t.Fatalf("correlation id must become the request id, got %q", gotRequestID)
				}
			}
		})
	}
}

func TestDrain_StopsWhenChannelCloses(t *testing.T) {
	msgs := make(chan amqp.Delivery, 2)
	ack := &fakeAck{}
	msgs <- delivery(t, ack, models.MarkerUpdate{Marker: models.Marker{DeviceID: "a"}})
	msgs <- delivery(t, ack, models.MarkerUpdate{Marker: models.Marker{DeviceID: "b"}})
	close(msgs)

	var order []string
	done := newTestConsumer().drain(context.Background(), msgs, func(_ context.Context, u models.MarkerUpdate) error {
		order = append(order, u.Marker.DeviceID)
		return nil
	})

	if done {
		t.Fatalf("closed channel must ask for a reconnect")
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("deliveries must be handled in order, got %v", order)
	}
}

func TestDrain_StopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if !newTestConsumer().drain(ctx, make(chan amqp.Delivery), nil) {
		t.Fatalf("cancelled context must stop the consumer")
	}
}

func TestMarkerRoutingKey(t *testing.T) {
	if got := MarkerRoutingKey("42"); got != "bin.marker.42" {
		t.Fatalf("got %q", got)
	}
}

func TestPublishing(t *testing.T) {
	at := time.Date(2022, 1, 10, 12, 0, 0, 0, time.UTC)
	p := NewMarkerProducer(nil, "test", logger.New(io.Discard, "test", "ERROR"))
	p.now = func() time.Time { return at }

	ctx := wrap.WithRequestID(context.Background(), "req-9")
	msg, err := p.publishing(ctx, models.MarkerUpdate{Marker: models.Marker{DeviceID: "7", Percent: 25}})
	if err != nil {
		t.Fatal(err)
	}

	if msg.CorrelationId != "req-9" || msg.MessageId != "7" || !msg.Timestamp.Equal(at) {
		t.Fatalf("unexpected publishing %+v", msg)
	}
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" {
		t.Fatalf("marker events must be persistent json")
	}

	var back models.MarkerUpdate
	if err := json.Unmarshal(msg.Body, &back); err != nil {
		t.Fatal(err)
	}
	if back.Marker.Percent != 25 {
		t.Fatalf("body lost the marker: %+v", back.Marker)
	}
}

func TestRetry(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, 0, func() error {
		calls++
		if calls < 2 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}

	boom := errors.New("boom")
	calls = 0
	if err := retry(context.Background(), 3, 0, func() error { calls++; return boom }); !errors.Is(err, boom) || calls != 3 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}
