package notify

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub maintains the set of connected toast clients and delivers
// notifications to them by session ID.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Clients indexed by session ID for direct delivery
	sessionClients map[string]map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Notification for a specific session
	direct chan *directMessage

	mu sync.RWMutex
}

type directMessage struct {
	SessionID string
	Message   []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		sessionClients: make(map[string]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		direct:         make(chan *directMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	log.Println("[Hub] Notification hub started")

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case dm := <-h.direct:
			h.sendToSession(dm)

		case <-pingTicker.C:
			h.pingClients()
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	if h.sessionClients[client.SessionID] == nil {
		h.sessionClients[client.SessionID] = make(map[*Client]bool)
	}
	h.sessionClients[client.SessionID][client] = true

	log.Printf("[Hub] ✅ Client registered: session=%s, total_clients=%d",
		client.SessionID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)

		if clients, ok := h.sessionClients[client.SessionID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.sessionClients, client.SessionID)
			}
		}

		close(client.Send)
		log.Printf("[Hub] ❌ Client disconnected: session=%s, total_clients=%d",
			client.SessionID, len(h.clients))
	}
}

func (h *Hub) sendToSession(dm *directMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.sessionClients[dm.SessionID]
	if !ok {
		return
	}

	for client := range clients {
		select {
		case client.Send <- dm.Message:
		default:
			go func(c *Client) {
				h.unregister <- c
			}(client)
		}
	}
}

func (h *Hub) pingClients() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- []byte(`{"type":"ping"}`):
		default:
			go func(c *Client) {
				h.unregister <- c
			}(client)
		}
	}
}

// Push delivers a notification to every connection of the given session. If
// the session has no open connection the toast is dropped.
func (h *Hub) Push(sessionID string, n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("[Hub] Error marshaling notification: %v", err)
		return
	}

	log.Printf("[Hub] 📤 Push: session=%s, type=%s", sessionID, n.Type)

	h.direct <- &directMessage{
		SessionID: sessionID,
		Message:   data,
	}
}

// IsConnected checks if a session has at least one open connection.
func (h *Hub) IsConnected(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.sessionClients[sessionID]
	return ok
}

// ConnectedCount returns the total number of connected clients.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
