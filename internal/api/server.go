// Package api exposes the editing session over HTTP and WebSocket. The
// browser surface is a thin client of this API: it renders what the server
// pushes and reports edits back.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/quillpad/quillpad/internal/content"
	"github.com/quillpad/quillpad/internal/editor"
	"github.com/quillpad/quillpad/internal/store"
	"github.com/quillpad/quillpad/internal/ws"
)

// Session is the slice of the editor session the API consumes. Narrowed to
// an interface so handlers can be tested against a fake.
type Session interface {
	SetActive(id string) error
	ContentChanged(node content.Node)
	WindowConnected() (store.Document, bool)
	SetTitle(ctx context.Context, id, title string) error
	Create(ctx context.Context, title string) (store.Document, error)
	Delete(ctx context.Context, id string) error
	Save()
	Documents() ([]store.Document, string)
	Status() editor.Status
}

// Server handles HTTP requests for the editor API.
type Server struct {
	session  Session
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
	origin   string
}

// ServerConfig holds configuration for creating a server.
type ServerConfig struct {
	Session Session
	Hub     *ws.Hub
	Logger  *slog.Logger

	// AllowedOrigin is the CORS origin the browser surface is served from.
	// "*" allows any.
	AllowedOrigin string
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	return &Server{
		session: cfg.Session,
		hub:     cfg.Hub,
		logger:  logger,
		origin:  origin,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true // Origin is enforced by the CORS layer
			},
		},
	}
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/documents", http.HandlerFunc(s.handleDocuments))
	mux.Handle("/documents/", http.HandlerFunc(s.handleDocumentByID))
	mux.Handle("/save", http.HandlerFunc(s.handleSave))
	mux.Handle("/status", http.HandlerFunc(s.handleStatus))
	mux.Handle("/ws", http.HandlerFunc(s.handleWebSocket))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})

	return s.logMiddleware(c.Handler(mux))
}

// handleDocuments routes GET and POST requests for /documents.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListDocuments(w, r)
	case http.MethodPost:
		s.handleCreateDocument(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// statusPayload converts the session status to its wire form.
func statusPayload(st editor.Status) ws.StatusPayload {
	payload := ws.StatusPayload{
		ActiveID: st.ActiveID,
		State:    st.State.String(),
		IsSaving: st.IsSaving,
		Words:    st.Words,
		Chars:    st.Chars,
	}

	if !st.LastSavedAt.IsZero() {
		t := st.LastSavedAt
		payload.LastSavedAt = &t
	}

	return payload
}
