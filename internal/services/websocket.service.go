package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"netgauge/internal/models"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"` // "deltas", "auth", "auth_error", "error"
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Token     string      `json:"token,omitempty"` // For auth messages from client
}

// DeltaPayload is the real-time throughput frame pushed to clients.
type DeltaPayload struct {
	Interfaces models.Snapshot  `json:"interfaces"`
	Deltas     []models.Delta   `json:"deltas"`
	Wan        *models.WanStats `json:"wan,omitempty"`
	RxRate     float64          `json:"rx_rate"`
	TxRate     float64          `json:"tx_rate"`
	RxHuman    string           `json:"rx_human"`
	TxHuman    string           `json:"tx_human"`
	Timestamp  time.Time        `json:"timestamp"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan WebSocketMessage
	Close chan bool
}

// WebSocketHub manages all connected WebSocket clients
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	register   chan *ClientConnection
	unregister chan string
	mu         sync.RWMutex
	ticker     *time.Ticker
	done       chan bool
}

var wsHub *WebSocketHub

// InitWebSocketHub initializes the WebSocket hub and starts its event
// loop, pushing a delta frame every interval.
func InitWebSocketHub(interval time.Duration) *WebSocketHub {
	wsHub = &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan bool),
	}

	go wsHub.run(interval)

	return wsHub
}

// run manages the hub's event loop
func (h *WebSocketHub) run(interval time.Duration) {
	h.ticker = time.NewTicker(interval)
	defer h.ticker.Stop()

	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("[WS] Client connected: %s (total: %d)", client.ID, len(h.clients))

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("[WS] Client disconnected: %s (total: %d)", clientID, len(h.clients))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Client's send channel is full, skip this message
				}
			}
			h.mu.RUnlock()

		case <-h.ticker.C:
			payload := h.gatherDeltas()
			data, err := json.Marshal(payload)
			if err != nil {
				log.Printf("[WS] Error marshaling deltas: %v", err)
				continue
			}

			msg := WebSocketMessage{
				Type:      "deltas",
				Timestamp: time.Now(),
				Data:      json.RawMessage(data),
			}

			select {
			case h.broadcast <- msg:
			default:
				// Channel full, skip this broadcast
			}
		}
	}
}

// gatherDeltas builds the current throughput frame from the poller cache.
func (h *WebSocketHub) gatherDeltas() *DeltaPayload {
	status, _ := GetCachedStatus()
	rxRate, txRate := GetAggregateRates()

	return &DeltaPayload{
		Interfaces: status.Interfaces,
		Deltas:     status.Deltas,
		Wan:        status.Wan,
		RxRate:     rxRate,
		TxRate:     txRate,
		RxHuman:    HumanBytesPerSec(rxRate),
		TxHuman:    HumanBytesPerSec(txRate),
		Timestamp:  status.Timestamp,
	}
}

// Register adds a new client to the hub
func (h *WebSocketHub) Register(client *ClientConnection) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	h.unregister <- clientID
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) {
	h.broadcast <- msg
}

// Stop shuts the hub down.
func (h *WebSocketHub) Stop() {
	close(h.done)
}

// GetWebSocketHub returns the WebSocket hub
func GetWebSocketHub() *WebSocketHub {
	return wsHub
}
