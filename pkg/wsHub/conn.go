package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4 << 10
	sendBuffer     = 16
)

var (
	ErrConnClosed = errors.New("connection closed")
	ErrSlowPeer   = errors.New("peer is not reading, connection dropped")
)

// Conn is a websocket owned by one entity. Outgoing messages are queued and
// written by a single pump goroutine; a single goroutine must call Listen.
type Conn struct {
	conn     *websocket.Conn
	entityID uuid.UUID
	send     chan []byte

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewConn(ctx context.Context, entityID uuid.UUID, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	c := &Conn{
		conn:     conn,
		entityID: entityID,
		send:     make(chan []byte, sendBuffer),
		ctx:      ctx,
		cancel:   cancel,
	}
	go c.writePump()

	return c
}

// Done is closed when the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Send queues msg as JSON and never waits on the peer.
// A peer whose queue is full is disconnected with ErrSlowPeer.
func (c *Conn) Send(msg any) error {
	if c.ctx.Err() != nil {
		return ErrConnClosed
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	select {
	case c.send <- data:
		return nil
	default:
		_ = c.Close()
		return ErrSlowPeer
	}
}

// writePump is the only writer of data frames. It also pings the peer every pingPeriod.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				_ = c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = c.Close()
				return
			}
		}
	}
}

// Listen reads client messages until the peer goes away, stops answering pings,
// or the connection is closed.
func (c *Conn) Listen(handler func(msg map[string]any) error) error {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg map[string]any
		if err := c.conn.ReadJSON(&msg); err != nil {
			if c.ctx.Err() != nil {
				return ErrConnClosed
			}
			return fmt.Errorf("read failed: %w", err)
		}
		if err := handler(msg); err != nil {
			return fmt.Errorf("handler failed: %w", err)
		}
	}
}

// Close is idempotent. Queued messages that were not written yet are dropped.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		c.cancel()

		// WriteControl may run concurrently with the pump's writes
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)

		err = c.conn.Close()
	})
	return err
}
