package ws

import (
	"encoding/json"
	"sync"
)

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	WriteJSON(v any) error
	ReadJSON(v any) error
	Close() error
}

// Client represents one connected editor window. Several windows of the same
// session may be connected at once; each gets the same pushes.
type Client struct {
	ID   string
	conn Conn

	mu sync.Mutex
}

// NewClient creates a new client wrapper.
func NewClient(id string, conn Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
	}
}

// Send sends a message to the client.
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(msg)
}

// SendError sends an error message to the client.
func (c *Client) SendError(code, message string) error {
	return c.Send(Message{
		Type: MessageTypeError,
		Payload: ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Receive reads a message from the client.
func (c *Client) Receive() (Message, error) {
	var raw struct {
		Type    MessageType     `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}

	if err := c.conn.ReadJSON(&raw); err != nil {
		return Message{}, err
	}

	msg := Message{Type: raw.Type}

	// Parse payload based on message type
	switch raw.Type {
	case MessageTypeEdit:
		var payload EditPayload
		if err := json.Unmarshal(raw.Payload, &payload); err != nil {
			return Message{}, err
		}

		msg.Payload = payload
	case MessageTypeTitle:
		var payload TitlePayload
		if err := json.Unmarshal(raw.Payload, &payload); err != nil {
			return Message{}, err
		}

		msg.Payload = payload
	case MessageTypeSave:
		// Save carries no payload.
	case MessageTypeOpen, MessageTypeStatus, MessageTypeDocuments, MessageTypeError:
		// Server-to-client messages - keep raw payload
		msg.Payload = raw.Payload
	}

	return msg, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
