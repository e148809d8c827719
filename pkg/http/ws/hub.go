package ws

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub tracks WebSocket connections and the session channels they listen on.
// A user may hold several connections at once.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection
	channels    map[string]map[uuid.UUID]struct{} // channel -> connection ids
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		channels:    make(map[string]map[uuid.UUID]struct{}),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[conn.ID] = conn
	h.logger.Debug().Str("conn_id", conn.ID.String()).Int64("user_id", conn.UserID).Msg("connection registered")
}

// Unregister closes a connection and drops it from every channel.
func (h *Hub) Unregister(connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[connID]; exists {
		conn.Close()
		delete(h.connections, connID)
		h.logger.Debug().Str("conn_id", connID.String()).Msg("connection unregistered")
	}
	for channel, members := range h.channels {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
}

// Subscribe attaches a registered connection to channel.
func (h *Hub) Subscribe(channel string, connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.connections[connID]; !ok {
		return
	}
	members, ok := h.channels[channel]
	if !ok {
		members = make(map[uuid.UUID]struct{})
		h.channels[channel] = members
	}
	members[connID] = struct{}{}
}

// Unsubscribe detaches connID from channel.
func (h *Hub) Unsubscribe(channel string, connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.channels[channel]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
}

// Publish sends msg to every connection subscribed to channel and returns
// the first delivery error.
func (h *Hub) Publish(channel string, msg Message) error {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.channels[channel]))
	for connID := range h.channels[channel] {
		if conn, ok := h.connections[connID]; ok {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	var firstErr error
	for _, conn := range targets {
		if err := conn.Send(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			h.logger.Warn().Err(err).Str("channel", channel).Str("conn_id", conn.ID.String()).Msg("channel send failed")
		}
	}
	return firstErr
}

// Subscribers lists the distinct user ids (decimal) connected to channel.
func (h *Hub) Subscribers(channel string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[int64]struct{})
	for connID := range h.channels[channel] {
		if conn, ok := h.connections[connID]; ok {
			seen[conn.UserID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	sort.Strings(ids)
	return ids
}

// SendTo delivers a message to a single connection.
func (h *Hub) SendTo(connID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[connID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}
	return conn.Send(msg)
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	ID     uuid.UUID
	UserID int64

	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection for userID.
func NewConnection(conn *websocket.Conn, userID int64, logger zerolog.Logger) *Connection {
	id := uuid.New()
	return &Connection{
		ID:     id,
		UserID: userID,
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger.With().Str("conn_id", id.String()).Int64("user_id", userID).Logger(),
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump sends queued messages and keeps the peer alive with pings.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn().Err(err).Msg("write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump receives messages and calls the handler until the peer goes away.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
