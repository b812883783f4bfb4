package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum frame size allowed from peer
	maxMessageSize = 8 * 1024

	// Budget for persisting an inbound message
	sendTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// inboundFrame is a client-to-server websocket frame.
type inboundFrame struct {
	Type string `json:"type"`
	Body string `json:"message,omitempty"`
}

// Client bridges one websocket connection and a channel subscription.
type Client struct {
	conn      *websocket.Conn
	sub       *Subscription
	hub       *Hub
	sender    MessageSender
	userID    int64
	collegeID int64

	// private deliveries (send failures) merged into the write pump
	direct chan Event

	logger zerolog.Logger
}

// readPump consumes client frames: "message" frames go through the
// authoritative write path, "heartbeat" frames refresh the presence
// lease. The subscription is closed when the reader exits, which
// withdraws presence and unsubscribes both streams.
func (c *Client) readPump() {
	defer func() {
		c.sub.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().
					Int64("userID", c.userID).
					Int64("collegeID", c.collegeID).
					Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).
					Int64("userID", c.userID).
					Int64("collegeID", c.collegeID).
					Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).
					Int64("userID", c.userID).
					Int64("collegeID", c.collegeID).
					Msg("WebSocket read error")
			}
			break
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.logger.Error().Err(err).
				Int64("userID", c.userID).
				Str("frame", string(raw)).
				Msg("Failed to unmarshal client frame")
			continue
		}

		switch frame.Type {
		case "message":
			c.handleSend(frame.Body)
		case "heartbeat":
			c.hub.Touch(c.collegeID, c.userID)
		default:
			c.logger.Debug().
				Str("type", frame.Type).
				Msg("Ignoring unknown client frame type")
		}
	}
}

// handleSend runs the authoritative write. The committed message comes
// back to this client through the channel broadcast, never directly.
func (c *Client) handleSend(body string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := c.sender.Send(ctx, c.userID, c.collegeID, body); err != nil {
		c.logger.Warn().Err(err).
			Int64("userID", c.userID).
			Int64("collegeID", c.collegeID).
			Msg("Forum message write failed")
		select {
		case c.direct <- Event{Type: EventError, Error: err.Error()}:
		default:
		}
	}
}

// writePump pushes subscription events and private deliveries to the
// websocket connection, and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.sub.Events():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Subscription torn down or this client was evicted.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeEvent(ev); err != nil {
				return
			}

		case ev := <-c.direct:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.writeEvent(ev); err != nil {
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

func (c *Client) writeEvent(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to marshal channel event")
		return nil
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
