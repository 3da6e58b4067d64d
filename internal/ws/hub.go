package ws

import (
	"sync"
)

// Hub manages the connected editor windows and pushes session state at them.
// Every client sees the same session, so broadcasts go to everyone, with an
// optional exclusion for the window that caused the change.
type Hub struct {
	mu sync.RWMutex

	// clients maps client ID to client
	clients map[string]*Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, client.ID)
}

// Broadcast sends a message to every connected client except the one
// identified by excludeClientID, and reports how many clients it reached.
// Pass an empty id to reach everyone.
func (h *Hub) Broadcast(msg Message, excludeClientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0

	for clientID, client := range h.clients {
		if clientID == excludeClientID {
			continue
		}

		sent++

		// Send in goroutine to avoid blocking on slow clients
		go func(c *Client) {
			_ = c.Send(msg)
		}(client)
	}

	return sent
}

// BroadcastStatus is a convenience method for pushing the save indicator.
func (h *Hub) BroadcastStatus(payload StatusPayload) {
	h.Broadcast(Message{Type: MessageTypeStatus, Payload: payload}, "")
}

// BroadcastDocuments is a convenience method for pushing the list.
func (h *Hub) BroadcastDocuments(payload DocumentsPayload) {
	h.Broadcast(Message{Type: MessageTypeDocuments, Payload: payload}, "")
}

// BroadcastOpen asks every window to load a document and reports how many
// windows were asked. Each of them echoes the load as a content change.
func (h *Hub) BroadcastOpen(payload OpenPayload) int {
	return h.Broadcast(Message{Type: MessageTypeOpen, Payload: payload}, "")
}

// BroadcastError pushes an error notification to every window.
func (h *Hub) BroadcastError(code, message string) {
	h.Broadcast(Message{Type: MessageTypeError, Payload: ErrorPayload{Code: code, Message: message}}, "")
}

// TotalClients returns the total number of connected clients.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
