package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds a subscription request
	maxMessageSize = 512

	sendBufferSize = 256
)

// Subscription actions a client can send
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// SubscriptionRequest is the message a client sends to change which goals it follows.
// A goalId of zero means every goal.
type SubscriptionRequest struct {
	Action string `json:"action"`
	GoalID int32  `json:"goalId"`
}

// Client is one WebSocket connection to the change feed
type Client struct {
	id     string
	goalID int32
	conn   *websocket.Conn
	hub    *Hub
	send   chan []byte

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewClient creates a client that starts out following goalID, or every goal for AllGoals
func NewClient(conn *websocket.Conn, goalID int32, hub *Hub) *Client {
	return &Client{
		id:     uuid.New().String(),
		goalID: goalID,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBufferSize),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// GoalID returns the goal the client followed when it connected
func (c *Client) GoalID() int32 {
	return c.goalID
}

// Send queues a message for the write loop. A full buffer counts as a dead client.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close stops the client. It can be called more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump reads subscription requests until the connection fails, then unregisters the client.
// Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket unexpected close")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.handleMessage(data)
	}
}

// handleMessage applies one subscription request and replies with the outcome
func (c *Client) handleMessage(data []byte) {
	var req SubscriptionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.reply(SubscriptionRejected("message must be a JSON subscription request"))
		return
	}
	if req.GoalID < 0 {
		c.reply(SubscriptionRejected("goalId must not be negative"))
		return
	}

	var err error
	switch req.Action {
	case ActionSubscribe:
		err = c.hub.Subscribe(c, req.GoalID)
	case ActionUnsubscribe:
		err = c.hub.Unsubscribe(c, req.GoalID)
	default:
		c.reply(SubscriptionRejected(fmt.Sprintf("unknown action %q", req.Action)))
		return
	}
	if err != nil {
		c.reply(SubscriptionRejected(err.Error()))
		return
	}

	goals := c.hub.Subscriptions(c.id)
	log.Debug().
		Str("client_id", c.id).
		Str("action", req.Action).
		Int32("goal_id", req.GoalID).
		Ints32("following", goals).
		Msg("WebSocket subscriptions changed")

	c.reply(SubscriptionUpdated(req.GoalID, goals))
}

func (c *Client) reply(event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("client_id", c.id).Msg("Failed to serialize reply")
		return
	}
	if err := c.Send(data); err != nil {
		log.Debug().Err(err).Str("client_id", c.id).Msg("Dropped reply to closed client")
	}
}

// WritePump writes queued messages and keepalive pings until the client closes.
// Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket write error")
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
