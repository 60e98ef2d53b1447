package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/pivot-location/pkg/logger"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
	ErrHubClosed      = errors.New("connection hub closed")
)

// ConnectionHub keeps one live connection per entity (user).
type ConnectionHub struct {
	clients map[uuid.UUID]*Conn
	closed  bool
	mu      sync.Mutex

	gauge prometheus.Gauge
	l     logger.Logger
}

func NewConnHub(service string, l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[uuid.UUID]*Conn),
		gauge:   metrics.WebSocketConnectionsGauge.WithLabelValues(service),
		l:       l,
	}
}

// Add registers a connection. An existing connection of the same entity is closed and replaced.
func (h *ConnectionHub) Add(conn *Conn) error {
	if conn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}

	if existing, ok := h.clients[conn.entityID]; ok {
		ctx := wrap.WithAction(context.Background(), "add_ws_connection")
		h.l.Debug(ctx, "replacing existing connection", "entity_id", conn.entityID)
		h.closeConn(existing)
	} else {
		h.gauge.Inc()
	}

	h.clients[conn.entityID] = conn

	return nil
}

// Remove closes conn and drops it if it is still the registered one for its entity.
func (h *ConnectionHub) Remove(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closeConn(conn)

	if current, ok := h.clients[conn.entityID]; ok && current == conn {
		delete(h.clients, conn.entityID)
		h.gauge.Dec()
	}
}

// SendTo sends msg to the connection of id.
// Returns ErrConnIsNotFound when the entity has no live connection.
func (h *ConnectionHub) SendTo(id uuid.UUID, msg any) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}
	return conn.Send(msg)
}

// Close closes every connection and rejects new ones.
func (h *ConnectionHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, conn := range h.clients {
		h.closeConn(conn)
		delete(h.clients, id)
		h.gauge.Dec()
	}

	h.l.Info(wrap.WithAction(context.Background(), "hub_close"), "all websocket connections closed")
}

// Len returns the number of live connections.
func (h *ConnectionHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *ConnectionHub) closeConn(conn *Conn) {
	if err := conn.Close(); err != nil {
		ctx := wrap.WithAction(context.Background(), "ws_connection_close")
		h.l.Debug(ctx, "failed to close conn", "entity_id", conn.entityID, "error", err.Error())
	}
}
