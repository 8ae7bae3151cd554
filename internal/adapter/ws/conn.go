package ws

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout  = 10 * time.Second
	pingInterval  = 30 * time.Second
	outboundQueue = 64
)

// Conn wraps one websocket connection behind a single writer goroutine.
// Broadcast goroutines enqueue into the outbound channel and never touch
// the socket, which gorilla/websocket does not allow concurrently.
type Conn struct {
	id     string
	ws     *websocket.Conn
	out    chan interface{}
	done   chan struct{}
	once   sync.Once
	logger *zap.Logger
}

// NewConn wraps an upgraded websocket and starts its write pump
func NewConn(ws *websocket.Conn, logger *zap.Logger) *Conn {
	c := &Conn{
		id:     uuid.New().String(),
		ws:     ws,
		out:    make(chan interface{}, outboundQueue),
		done:   make(chan struct{}),
		logger: logger,
	}
	go c.writePump()
	return c
}

// ID returns the connection's registry identity
func (c *Conn) ID() string {
	return c.id
}

// Send enqueues one outbound event. Never blocks: a full queue means the
// peer has stopped reading, so the event is dropped and an error returned.
func (c *Conn) Send(v interface{}) error {
	select {
	case <-c.done:
		return fmt.Errorf("connection closed")
	default:
	}

	select {
	case c.out <- v:
		return nil
	default:
		return fmt.Errorf("outbound queue full")
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case v := <-c.out:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteJSON(v); err != nil {
				if c.logger != nil {
					c.logger.Debug("websocket write failed",
						zap.String("conn_id", c.id),
						zap.Error(err),
					)
				}
				c.Close()
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				c.Close()
				return
			}
		}
	}
}
