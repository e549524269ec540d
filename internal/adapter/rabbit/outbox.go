package rabbit

import (
	"context"
	"fmt"
	"sync"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/metrics"
)

const DefaultOutboxSize = 1024

type markerPublisher interface {
	OnMarkerUpdate(ctx context.Context, update models.MarkerUpdate) error
}

type outboxItem struct {
	ctx    context.Context
	update models.MarkerUpdate
}

// MarkerOutbox publishes marker updates from its own goroutine.
// OnMarkerUpdate never blocks: when the queue is full the update is dropped and counted.
type MarkerOutbox struct {
	publisher markerPublisher
	queue     chan outboxItem
	service   string

	cancel context.CancelFunc
	wg     sync.WaitGroup

	l logger.Logger
}

func NewMarkerOutbox(publisher markerPublisher, size int, service string, l logger.Logger) *MarkerOutbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &MarkerOutbox{
		publisher: publisher,
		queue:     make(chan outboxItem, size),
		service:   service,
		l:         l,
	}
}

// OnMarkerUpdate enqueues the update without blocking.
func (o *MarkerOutbox) OnMarkerUpdate(ctx context.Context, update models.MarkerUpdate) error {
	const op = "MarkerOutbox.OnMarkerUpdate"

	select {
	case o.queue <- outboxItem{ctx: context.WithoutCancel(ctx), update: update}:
		return nil
	default:
		metrics.RecordRabbitMQDrop(o.service, BinExchange)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrEventDropped))
	}
}

// Start runs the publishing goroutine until ctx is done or Close is called.
func (o *MarkerOutbox) Start(ctx context.Context) {
	ctx, o.cancel = context.WithCancel(ctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(ctx)
	}()
}

func (o *MarkerOutbox) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			if n := len(o.queue); n > 0 {
				o.l.Warn(ctx, "marker outbox stopped with pending events", "pending", n)
			}
			return
		case item := <-o.queue:
			o.publish(ctx, item)
		}
	}
}

func (o *MarkerOutbox) publish(runCtx context.Context, item outboxItem) {
	// keep the log context of the reading, stop with the outbox
	ctx, cancel := context.WithCancel(item.ctx)
	stop := context.AfterFunc(runCtx, cancel)
	defer func() {
		stop()
		cancel()
	}()

	if err := o.publisher.OnMarkerUpdate(ctx, item.update); err != nil {
		o.l.Warn(wrap.ErrorCtx(ctx, err), "failed to publish marker event", "error", err.Error())
	}
}

// Close stops publishing and waits for the in-flight event.
func (o *MarkerOutbox) Close() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Len reports the queued events.
func (o *MarkerOutbox) Len() int {
	return len(o.queue)
}
