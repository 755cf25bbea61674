package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/mindmap/internal/models"
	"github.com/persistorai/mindmap/internal/state"
)

const (
	writeTimeout     = 10 * time.Second
	dispatchTimeout  = 5 * time.Second
	wsReadLimit      = 4096
	clientSendBuffer = 16
	maxConnLifetime  = 12 * time.Hour
	pingInterval     = 30 * time.Second
	pingTimeout      = 10 * time.Second
	maxMissedPongs   = int32(2)
)

// Client wraps a single WebSocket connection managed by the Hub.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	log         *logrus.Logger
	closeOnce   sync.Once
	connectedAt time.Time
}

// closeSend safely closes the send channel exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// NewClient creates a new Client for the given WebSocket connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, clientSendBuffer),
		log:         hub.log,
		connectedAt: time.Now(),
	}
}

// ReadPump reads messages from the WebSocket connection until it closes.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
	}()

	c.conn.SetReadLimit(wsReadLimit)

	for {
		_, msgBytes, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.log.WithField("status", websocket.CloseStatus(err)).Debug("client disconnected")
			}

			return
		}

		c.handleMessage(ctx, msgBytes)
	}
}

// sendPing sends a WebSocket ping and tracks missed pongs.
// Returns true if the connection should be closed.
func (c *Client) sendPing(ctx context.Context, missedPongs *atomic.Int32) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := c.conn.Ping(pingCtx)
	cancel()

	if err != nil {
		if missedPongs.Add(1) >= maxMissedPongs {
			c.log.Debug("closing: 2 consecutive missed pongs")

			return true
		}

		return false
	}

	missedPongs.Store(0)

	return false
}

// handleMessage processes an incoming client message.
func (c *Client) handleMessage(ctx context.Context, msgBytes []byte) {
	var msg inbound
	if err := json.Unmarshal(msgBytes, &msg); err != nil {
		c.reply(ErrorMsg{Type: "error", Message: "invalid message"})
		return
	}

	switch msg.Type {
	case msgSubscribe:
		c.subscribe(msg.LastEventID)
	case msgSelect:
		c.selectNode(ctx, msg.ID)
	}
}

func (c *Client) subscribe(lastEventID uint64) {
	if c.hub.ReplayEvents(c, lastEventID) {
		return
	}

	c.reply(ResetMsg{
		Type:   EventReset,
		Reason: "requested events no longer available, perform full refresh",
	})
}

// selectNode forwards a node click. The resulting state reaches every
// viewer through the normal broadcast.
func (c *Client) selectNode(ctx context.Context, id *int64) {
	if id == nil || *id <= 0 {
		c.reply(ErrorMsg{Type: "error", Message: models.ErrInvalidNodeID.Error()})
		return
	}
	if c.hub.dispatcher == nil {
		return
	}

	dctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	if _, _, err := c.hub.dispatcher.Dispatch(dctx, state.NodeClicked{ID: models.NodeID(*id)}); err != nil {
		c.log.WithError(err).Warn("dispatching node click")
	}
}

func (c *Client) reply(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		return
	}

	select {
	case c.send <- msg:
	default:
	}
}

// WritePump writes messages from the send channel to the WebSocket connection.
// It enforces a maximum connection lifetime.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	lifetimeTimer := time.NewTimer(time.Until(c.connectedAt.Add(maxConnLifetime)))
	defer lifetimeTimer.Stop()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	var missedPongs atomic.Int32

	for {
		select {
		case <-pingTicker.C:
			if c.sendPing(ctx, &missedPongs) {
				return
			}
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)

			err := c.conn.Write(writeCtx, websocket.MessageText, msg)

			cancel()

			if err != nil {
				c.log.WithError(err).Debug("write failed")

				return
			}
		case <-lifetimeTimer.C:
			c.log.Info("closing WebSocket: max connection lifetime exceeded")
			c.conn.Close(websocket.StatusNormalClosure, "max connection lifetime exceeded") //nolint:errcheck // best-effort

			return
		}
	}
}
