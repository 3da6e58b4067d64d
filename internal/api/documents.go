package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/quillpad/quillpad/internal/remote"
	"github.com/quillpad/quillpad/internal/store"
	"github.com/quillpad/quillpad/internal/ws"
)

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	Title string `json:"title"`
}

// Validate checks the request fields.
func (r CreateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 255)),
	)
}

// ListDocumentsResponse is the response body for listing documents.
type ListDocumentsResponse struct {
	Documents []ws.DocumentPayload `json:"documents"`
	ActiveID  string               `json:"activeId"`
}

// handleListDocuments handles GET /documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, _ *http.Request) {
	docs, activeID := s.session.Documents()

	payloads := make([]ws.DocumentPayload, len(docs))
	for i, doc := range docs {
		payloads[i] = ws.NewDocumentPayload(doc)
	}

	s.writeJSON(w, http.StatusOK, ListDocumentsResponse{
		Documents: payloads,
		ActiveID:  activeID,
	})
}

// handleCreateDocument handles POST /documents.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	doc, err := s.session.Create(r.Context(), req.Title)
	if err != nil {
		s.writeSessionError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, ws.NewDocumentPayload(doc))
}

// handleDocumentByID routes requests for /documents/{id} and
// /documents/{id}/activate.
func (s *Server) handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/documents/")

	if docID, ok := strings.CutSuffix(rest, "/activate"); ok {
		s.handleActivateDocument(w, r, docID)

		return
	}

	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	s.handleDeleteDocument(w, r, rest)
}

// handleActivateDocument handles POST /documents/{id}/activate.
func (s *Server) handleActivateDocument(w http.ResponseWriter, r *http.Request, docID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	if docID == "" {
		http.Error(w, "document ID is required", http.StatusBadRequest)

		return
	}

	if err := s.session.SetActive(docID); err != nil {
		s.writeSessionError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, statusPayload(s.session.Status()))
}

// handleDeleteDocument handles DELETE /documents/{id}.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request, docID string) {
	if docID == "" {
		http.Error(w, "document ID is required", http.StatusBadRequest)

		return
	}

	if err := s.session.Delete(r.Context(), docID); err != nil {
		s.writeSessionError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSave handles POST /save: commit the active document now, skipping
// the quiet period.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	s.session.Save()

	s.writeJSON(w, http.StatusOK, statusPayload(s.session.Status()))
}

// handleStatus handles GET /status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	s.writeJSON(w, http.StatusOK, statusPayload(s.session.Status()))
}

// writeSessionError maps session errors to HTTP status codes.
func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrLastDocument):
		http.Error(w, "cannot delete the last document", http.StatusConflict)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
	case errors.Is(err, remote.ErrRemoteWrite):
		http.Error(w, "remote store unavailable", http.StatusBadGateway)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// writeJSON encodes v as the response body.
func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
