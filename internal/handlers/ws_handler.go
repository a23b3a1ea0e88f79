package handlers

import (
	"net/http"
	"sync"
	"time"

	"kanban-task-api/internal/middleware"
	"kanban-task-api/internal/realtime"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// wsClient implements realtime.Client by wrapping a websocket connection.
// Events are queued and written by writePump, so Send never blocks.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues message. It reports false when the client is gone or too far
// behind, in which case the event is dropped.
func (c *wsClient) Send(message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *wsClient) Close() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// writePump is the only writer on the connection: queued events and pings.
func (c *wsClient) writePump() {
	pingTicker := time.NewTicker(pingPeriod)
	defer func() {
		pingTicker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-pingTicker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || middleware.IsAllowedOrigin(origin)
	},
}

// EventsHandler upgrades the connection and subscribes it to board events.
// The feed is write-only; anything the client sends is discarded.
func EventsHandler(hub *realtime.Hub, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// the upgrader already replied with an HTTP error
			logger.Warn("websocket upgrade failed", "err", err)
			return
		}

		client := newWSClient(conn)
		if !hub.Register(client) {
			client.Close()
			return
		}
		logger.Debug("board client connected", "remote", conn.RemoteAddr().String(), "clients", hub.Len())

		go client.writePump()
		defer func() {
			hub.Unregister(client)
			client.Close()
			logger.Debug("board client disconnected", "clients", hub.Len())
		}()

		conn.SetReadLimit(1024)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
