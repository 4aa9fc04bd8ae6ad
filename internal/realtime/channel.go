package realtime

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brightbite/campus-client/internal/models"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1024 * 1024 // 1MB
)

// Handler receives channel events. HandleDown fires at most once per
// channel, and never after a deliberate Close.
type Handler interface {
	HandleMessage(msg models.Message)
	HandleDown(err error)
}

// Dialer opens realtime channels addressed by user id
type Dialer struct {
	baseURL string
	log     *slog.Logger
}

// NewDialer creates a new dialer. baseURL is the ws(s) endpoint, e.g.
// ws://host/ws/orders.
func NewDialer(baseURL string, log *slog.Logger) *Dialer {
	if log == nil {
		log = slog.Default()
	}
	return &Dialer{baseURL: baseURL, log: log}
}

// Dial opens a channel for the given user and starts its pumps
func (d *Dialer) Dial(ctx context.Context, userID string, handler Handler) (*Channel, error) {
	u, err := url.Parse(d.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("userId", userID)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	c := &Channel{
		conn:    conn,
		handler: handler,
		log:     d.log,
		done:    make(chan struct{}),
	}
	go c.readPump()
	go c.pingPump()
	return c, nil
}

// Channel is one live realtime connection. It is single-use: once down or
// closed it is discarded and the owner dials again.
type Channel struct {
	conn    *websocket.Conn
	handler Handler
	log     *slog.Logger

	mu     sync.Mutex
	closed bool
	once   sync.Once
	done   chan struct{}
}

// Close tears the connection down and suppresses the down callback. Safe to
// call more than once.
func (c *Channel) Close() {
	c.mu.Lock()
	already := c.closed
	c.closed = true
	c.mu.Unlock()
	if already {
		return
	}
	close(c.done)
	c.conn.Close()
}

func (c *Channel) down(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		deliberate := c.closed
		c.mu.Unlock()
		if deliberate {
			return
		}
		c.handler.HandleDown(err)
	})
}

func (c *Channel) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			c.down(err)
			return
		}

		msg, ok := models.ParseMessage(frame)
		if !ok {
			// Malformed frames are dropped, never fatal
			c.log.Debug("discarding malformed frame")
			continue
		}
		if msg.Type == models.TypePing {
			continue
		}
		c.handler.HandleMessage(msg)
	}
}

func (c *Channel) pingPump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(writeWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
