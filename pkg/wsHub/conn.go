package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/smartrash/pkg/uuid"
)

var (
	ErrConnClosed  = errors.New("connection closed")
	ErrBacklogFull = errors.New("connection backlog full")
)

const (
	writeWait  = 5 * time.Second
	maxBacklog = 256
)

type Conn struct {
	conn    *websocket.Conn
	id      uuid.UUID
	doneCtx context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex

	// while held, Send queues into backlog instead of writing
	held    bool
	backlog []any
}

func NewConn(ctx context.Context, id uuid.UUID, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:    conn,
		id:      id,
		doneCtx: ctx,
		cancel:  cancel,
	}
}

func (c *Conn) ID() uuid.UUID {
	return c.id
}

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.doneCtx.Done()
}

func (c *Conn) Health() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return err
	}

	if err := c.conn.WriteControl(
		websocket.PingMessage,
		[]byte("ping"),
		time.Now().Add(writeWait),
	); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	return nil
}

// Send writes msg as a JSON text frame.
func (c *Conn) Send(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	if c.held {
		if len(c.backlog) >= maxBacklog {
			return fmt.Errorf("send failed: %w", ErrBacklogFull)
		}
		c.backlog = append(c.backlog, msg)
		return nil
	}

	return c.write(msg)
}

// Hold makes Send queue messages until SendFirst is called.
// Use it before the connection becomes visible to broadcasters.
func (c *Conn) Hold() {
	c.mu.Lock()
	c.held = true
	c.mu.Unlock()
}

// SendFirst writes msg, then every message queued since Hold, and resumes
// direct sends.
func (c *Conn) SendFirst(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	backlog := c.backlog
	c.held, c.backlog = false, nil

	if err := c.write(msg); err != nil {
		return err
	}
	for _, queued := range backlog {
		if err := c.write(queued); err != nil {
			return err
		}
	}
	return nil
}

// write must be called with mu held
func (c *Conn) write(msg any) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}

// Listen reads frames until the peer goes away or the connection is closed.
// handler may be nil when the peer is not expected to send anything.
func (c *Conn) Listen(handler func(data []byte) error) error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.doneCtx.Done():
				return ErrConnClosed
			default:
			}
			return fmt.Errorf("read failed: %w", err)
		}
		if handler == nil {
			continue
		}
		if err := handler(data); err != nil {
			return fmt.Errorf("handler failed: %w", err)
		}
	}
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.doneCtx.Done():
		return nil
	default:
	}
	c.cancel()

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return c.conn.Close()
}

// usable must be called with mu held
func (c *Conn) usable() error {
	if c.conn == nil {
		return errors.New("connection is nil")
	}
	select {
	case <-c.doneCtx.Done():
		return ErrConnClosed
	default:
	}
	return nil
}
