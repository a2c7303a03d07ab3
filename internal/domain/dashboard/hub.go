package dashboard

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"intakeflow/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// connection is one operator websocket bound to a dashboard session.
type connection struct {
	firmID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks connected operator websockets per firm.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]map[*connection]struct{}
	log         logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]map[*connection]struct{}),
		log:         log.With("component", "dashboard_hub"),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.firmID]
	if !ok {
		set = make(map[*connection]struct{})
		h.connections[c.firmID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.connections[c.firmID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.connections, c.firmID)
	}
}

// Connections returns how many operators of firmID are connected.
func (h *Hub) Connections(firmID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[firmID])
}

// Serve pumps a started session's events to conn and blocks until the client
// disconnects. The session is closed on return.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, sess *Session) {
	c := &connection{
		firmID: sess.FirmID(),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.register(c)
	defer h.unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go sess.Run(ctx)
	go h.forward(c, sess)
	go h.writePump(c)

	h.readPump(c)
	if err := sess.Close(); err != nil {
		h.log.Warn("dashboard session close failed", "firm_id", c.firmID, "error", err)
	}
}

// forward owns c.send and closes it once the session's events end.
func (h *Hub) forward(c *connection, sess *Session) {
	defer close(c.send)
	for ev := range sess.Events() {
		data, err := json.Marshal(ev)
		if err != nil {
			h.log.Error("encode dashboard event", "error", err)
			continue
		}
		select {
		case c.send <- data:
		default:
			// client too slow
			h.log.Warn("dashboard client lagging, event skipped", "firm_id", c.firmID, "type", ev.Type)
		}
	}
}

// readPump only watches for disconnects; operators send nothing but pongs.
func (h *Hub) readPump(c *connection) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("dashboard websocket closed", "firm_id", c.firmID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
