package ws

import (
	"time"

	"github.com/quillpad/quillpad/internal/content"
	"github.com/quillpad/quillpad/internal/store"
)

// MessageType identifies the kind of WebSocket message.
type MessageType string

const (
	// Client to Server messages.
	MessageTypeEdit  MessageType = "edit"  // Surface reports changed content
	MessageTypeTitle MessageType = "title" // Surface renames a document
	MessageTypeSave  MessageType = "save"  // Surface requests an immediate save

	// Server to Client messages.
	MessageTypeOpen      MessageType = "open"      // Server asks the surface to load a document
	MessageTypeStatus    MessageType = "status"    // Server pushes the save indicator and counts
	MessageTypeDocuments MessageType = "documents" // Server pushes the recency-ordered list
	MessageTypeError     MessageType = "error"     // Server reports an error
)

// Message is the envelope for all WebSocket communication.
type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

// EditPayload is sent when the surface's content changed. It carries the
// whole canonical tree; the server decides whether it was a user edit or the
// echo of a programmatic load.
type EditPayload struct {
	Content content.Node `json:"content"`
}

// TitlePayload is sent when the surface renames a document.
type TitlePayload struct {
	DocID string `json:"docId"`
	Title string `json:"title"`
}

// DocumentPayload is the wire form of a document.
type DocumentPayload struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   content.Node `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewDocumentPayload converts a stored document to its wire form.
func NewDocumentPayload(doc store.Document) DocumentPayload {
	return DocumentPayload{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// OpenPayload asks the surface to replace its displayed content.
type OpenPayload struct {
	Document DocumentPayload `json:"document"`
}

// StatusPayload pushes the save indicator and live counts.
type StatusPayload struct {
	ActiveID    string     `json:"activeId"`
	State       string     `json:"state"`
	IsSaving    bool       `json:"isSaving"`
	LastSavedAt *time.Time `json:"lastSavedAt,omitempty"`
	Words       int        `json:"words"`
	Chars       int        `json:"chars"`
}

// DocumentsPayload pushes the recency-ordered list and the active id.
type DocumentsPayload struct {
	Documents []DocumentPayload `json:"documents"`
	ActiveID  string            `json:"activeId"`
}

// ErrorPayload reports an error to the client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrorCodeSaveFailed     = "save_failed"
	ErrorCodeLastDocument   = "last_document"
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeInternalError  = "internal_error"
)
