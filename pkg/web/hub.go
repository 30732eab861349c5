package web

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	// subscriberBuffer is how many alerts may queue for a slow client before
	// new ones are dropped for it.
	subscriberBuffer = 32
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = pongWait * 9 / 10
)

// AlertHub streams published alerts to WebSocket clients. Each client
// follows one guild, or every guild when it asked for none.
type AlertHub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	upgrader    websocket.Upgrader
}

type subscriber struct {
	guildID string
	send    chan []byte
}

// NewAlertHub creates an empty hub.
func NewAlertHub() *AlertHub {
	return &AlertHub{
		subscribers: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the route is already behind the host filter and the API token
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Publish implements correlator.Publisher. The guild is the last topic level.
func (h *AlertHub) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	guildID := topic[strings.LastIndex(topic, "/")+1:]

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		if sub.guildID != "" && sub.guildID != guildID {
			continue
		}
		select {
		case sub.send <- data:
		default:
			logger.Debug("Cliente WebSocket lento, alerta descartada", "WebSocket")
		}
	}
	return nil
}

// Len returns the number of connected clients.
func (h *AlertHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *AlertHub) add(guildID string) *subscriber {
	sub := &subscriber{guildID: guildID, send: make(chan []byte, subscriberBuffer)}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *AlertHub) remove(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
}

// serveWS upgrades the request and streams alerts until the client leaves.
// ?guild=<id> restricts the stream to one guild.
func (h *AlertHub) serveWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(fmt.Sprintf("Error actualizando a WebSocket: %v", err), "WebSocket")
		return
	}

	sub := h.add(c.Query("guild"))
	logger.Debug(fmt.Sprintf("Cliente WebSocket conectado desde %s", c.ClientIP()), "WebSocket")

	done := make(chan struct{})
	go h.readLoop(conn, done)
	h.writeLoop(conn, sub, done)

	h.remove(sub)
	conn.Close()
}

// readLoop discards client messages and closes done when the peer goes away.
func (h *AlertHub) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *AlertHub) writeLoop(conn *websocket.Conn, sub *subscriber, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-sub.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
