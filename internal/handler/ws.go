// internal/handler/ws.go

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/internal/driver"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBuffer     = 64
)

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	id   string
}

// Hub fans preference and driver updates out to connected websocket
// clients. Slow clients are dropped rather than blocking the broadcast.
type Hub struct {
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
	upgrader   websocket.Upgrader

	prefs  domain.PreferenceService
	driver DriverService
}

// NewHub starts the hub loop. prefs and drv may be nil.
func NewHub(prefs domain.PreferenceService, drv DriverService) *Hub {
	h := &Hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		prefs:  prefs,
		driver: drv,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues an event for every connected client. It never blocks
// once the hub is closed.
func (h *Hub) Broadcast(event domain.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.WithError(err).Error("Failed to encode websocket event")
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// Watch subscribes the hub to preference and driver updates. The returned
// func detaches both subscriptions.
func (h *Hub) Watch() func() {
	var unsubs []func()
	if h.prefs != nil {
		unsubs = append(unsubs, h.prefs.Subscribe(func(p domain.Preferences) {
			h.Broadcast(preferenceEvent(p))
		}))
	}
	if h.driver != nil {
		unsubs = append(unsubs, h.driver.Subscribe(func(s driver.Snapshot) {
			h.Broadcast(driverEvent(s))
		}))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Close disconnects every client and stops the hub loop.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// Serve handles GET /ws. The client receives the current preferences and
// driver state first, then live updates.
func (h *Hub) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Error("WebSocket upgrade failed")
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  h,
		id:   uuid.NewString(),
	}

	ctx := c.Request.Context()
	if h.prefs != nil {
		client.queue(preferenceEvent(h.prefs.Get(ctx)))
	}
	if h.driver != nil {
		client.queue(driverEvent(h.driver.Snapshot(ctx)))
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	logger.WithFields(map[string]interface{}{"client_id": client.id}).Debug("WebSocket client connected")

	go client.writePump()
	go client.readPump()
}

func preferenceEvent(p domain.Preferences) domain.Event {
	return domain.Event{
		Type: domain.EventPreferenceUpdate,
		Data: map[string]string{
			"theme": p.Theme.String(),
			"role":  p.Role.String(),
		},
	}
}

func driverEvent(s driver.Snapshot) domain.Event {
	data := map[string]string{
		"status":          string(s.Status),
		"trips_completed": strconv.Itoa(s.TripsCompleted),
	}
	if s.Request != nil {
		data["request_id"] = s.Request.ID
	}
	if s.Trip != nil {
		data["trip_id"] = s.Trip.ID
	}
	return domain.Event{Type: domain.EventDriverUpdate, Data: data}
}

func (c *wsClient) queue(event domain.Event) {
	event.OccurredAt = time.Now().UTC()
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump sends one JSON event per text frame.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
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
