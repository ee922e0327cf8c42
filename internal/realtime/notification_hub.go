package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"leadforge/internal/services"
)

// sendBuffer is how many notifications may queue for one client before it
// is dropped as too slow.
const sendBuffer = 32

// NotificationHub pushes every notification to the connected dashboards.
// Each client has its own writer so a stalled peer never blocks Notify.
type NotificationHub struct {
	mu      sync.RWMutex
	clients map[*Conn]chan services.Notification
	log     *zap.Logger
}

func NewNotificationHub(log *zap.Logger) *NotificationHub {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationHub{
		clients: make(map[*Conn]chan services.Notification),
		log:     log.Named("realtime"),
	}
}

func (h *NotificationHub) Register(conn *Conn) {
	send := make(chan services.Notification, sendBuffer)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()
	go h.writePump(conn, send)
}

func (h *NotificationHub) Unregister(conn *Conn) {
	h.mu.Lock()
	send, ok := h.clients[conn]
	delete(h.clients, conn)
	if ok {
		close(send)
	}
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}

// Len reports the number of connected clients.
func (h *NotificationHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notify queues n for every client. Clients whose buffer is full are dropped.
func (h *NotificationHub) Notify(_ context.Context, n services.Notification) error {
	var slow []*Conn
	h.mu.RLock()
	for c, send := range h.clients {
		select {
		case send <- n:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Debug("drop slow websocket client")
		h.Unregister(c)
	}
	return nil
}

func (h *NotificationHub) writePump(conn *Conn, send <-chan services.Notification) {
	for n := range send {
		if err := conn.WriteJSON(n); err != nil {
			h.log.Debug("drop websocket client", zap.Error(err))
			h.Unregister(conn)
			return
		}
	}
}
