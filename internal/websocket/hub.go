package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"taskflow/internal/models"
	"taskflow/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client merepresentasikan klien WebSocket.
type Client struct {
	Conn   Conn
	UserID string
	Mu     sync.Mutex
}

// Hub mengelola koneksi WebSocket dan menyiarkan audit event ke semua klien.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client

	done chan struct{}
}

const broadcastBuffer = 64

// NewHub membuat instance Hub baru.
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, broadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run menjalankan loop Hub sampai ctx selesai. Semua koneksi ditutup saat keluar.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.Clients {
			h.drop(client)
		}
		close(h.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.Register:
			h.Clients[client] = true
			logger.SystemLogger.Info("Event stream client connected", zap.String("user_id", client.UserID))
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				h.drop(client)
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				client.Mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, message)
				client.Mu.Unlock()
				if err != nil {
					logger.ErrorLogger.Warn("Event stream write failed", zap.String("user_id", client.UserID), zap.Error(err))
					h.drop(client)
				}
			}
		}
	}
}

// Done ditutup setelah Run berhenti.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Join mendaftarkan client. Mengembalikan false jika hub sudah berhenti.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave melepas client; tidak memblokir setelah hub berhenti.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.Clients, client)
	_ = client.Conn.Close()
}

// Publish mengirim satu audit record ke semua klien. Tidak pernah memblokir:
// record dibuang jika buffer penuh.
func (h *Hub) Publish(record models.AuditRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		logger.ErrorLogger.Error("Failed to encode audit event", zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- payload:
	default:
		logger.SystemLogger.Warn("Event stream buffer full, dropping event", zap.String("id", record.ID))
	}
}
