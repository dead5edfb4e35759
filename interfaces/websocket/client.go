package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512 * 1024 // 512KB

	// Send buffer size
	sendBufferSize = 256
)

// presence message types a client may relay to its room.
var presenceTypes = map[string]bool{
	"cursor":    true,
	"node_drag": true,
	"selection": true,
}

// Client represents one WebSocket connection watching one map.
type Client struct {
	id     string          // Unique connection ID
	mapID  string          // Room the connection watches
	hub    *Hub            // Reference to hub
	conn   *websocket.Conn // WebSocket connection
	send   chan []byte     // Buffered channel of outbound messages
	logger *zap.Logger
}

// NewClient creates a new WebSocket client
func NewClient(mapID string, hub *Hub, conn *websocket.Conn, logger *zap.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:    id,
		mapID: mapID,
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		logger: logger.With(
			zap.String("mapID", mapID),
			zap.String("connectionID", id),
		),
	}
}

// Start begins the client's read and write pumps
func (c *Client) Start() {
	// Register with hub
	c.hub.register <- c

	// Start goroutines for reading and writing
	go c.writePump()
	go c.readPump()

	// Send initial connection established message
	c.sendConnectionEstablished()
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		c.logger.Debug("Read pump stopped")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket read error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.handleTextMessage(message)
		case websocket.BinaryMessage:
			c.logger.Warn("Binary messages not supported")
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.Debug("Write pump stopped")
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

			// Add queued messages to the current message batch
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					c.logger.Error("Failed to write batched message", zap.Error(err))
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

// handleTextMessage processes incoming text messages. Presence
// updates (cursor moves, drags, selections) are relayed to the other
// watchers of the same map; everything else is ignored.
func (c *Client) handleTextMessage(message []byte) {
	message = bytes.TrimSpace(message)

	if string(message) == `{"type":"pong"}` {
		return
	}

	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(message, &envelope); err != nil {
		c.logger.Debug("Ignoring malformed client message")
		return
	}
	if !presenceTypes[envelope.Type] {
		c.logger.Debug("Ignoring unsupported client message",
			zap.String("type", envelope.Type),
		)
		return
	}

	relay := &BroadcastMessage{
		MapID:      c.mapID,
		SkipClient: c,
		Type:       envelope.Type,
		Data:       envelope.Data,
		Timestamp:  time.Now().Unix(),
	}
	select {
	case c.hub.broadcast <- relay:
	default:
		c.logger.Warn("Dropping presence message, hub busy")
	}
}

// sendConnectionEstablished sends an initial connection message
func (c *Client) sendConnectionEstablished() {
	message := fmt.Sprintf(`{"type":"connection_established","timestamp":%d,"data":{"connectionId":"%s","mapId":"%s"}}`,
		time.Now().Unix(), c.id, c.mapID)

	select {
	case c.send <- []byte(message):
	default:
		c.logger.Error("Failed to send connection established message")
	}
}

// GetID returns the client's connection ID
func (c *Client) GetID() string {
	return c.id
}

// GetMapID returns the map the client watches
func (c *Client) GetMapID() string {
	return c.mapID
}
