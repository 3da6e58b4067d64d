package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/quillpad/quillpad/internal/ws"
)

// handleWebSocket handles GET /ws. Each connected window gets the current
// list, status, and active document on connect, then pushes for every
// change. Upstream it reports edits, renames, and manual saves.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)

		return
	}

	client := ws.NewClient(uuid.New().String(), conn)
	s.hub.Register(client)

	defer func() {
		s.hub.Unregister(client)
		_ = client.Close()
	}()

	if err := s.sendInitialState(client); err != nil {
		return
	}

	s.handleMessages(r, client)
}

// sendInitialState pushes the list, the save status, and the active
// document at a freshly connected window.
func (s *Server) sendInitialState(client *ws.Client) error {
	docs, activeID := s.session.Documents()

	payloads := make([]ws.DocumentPayload, len(docs))
	for i, doc := range docs {
		payloads[i] = ws.NewDocumentPayload(doc)
	}

	if err := client.Send(ws.Message{
		Type:    ws.MessageTypeDocuments,
		Payload: ws.DocumentsPayload{Documents: payloads, ActiveID: activeID},
	}); err != nil {
		return err
	}

	if err := client.Send(ws.Message{
		Type:    ws.MessageTypeStatus,
		Payload: statusPayload(s.session.Status()),
	}); err != nil {
		return err
	}

	// The session registers the echo this open provokes, so a refresh or a
	// second window never counts as a user edit.
	active, ok := s.session.WindowConnected()
	if !ok {
		return nil
	}

	return client.Send(ws.Message{
		Type:    ws.MessageTypeOpen,
		Payload: ws.OpenPayload{Document: ws.NewDocumentPayload(active)},
	})
}

// handleMessages processes incoming messages from a window until it
// disconnects.
func (s *Server) handleMessages(r *http.Request, client *ws.Client) {
	for {
		msg, err := client.Receive()
		if err != nil {
			return
		}

		switch msg.Type {
		case ws.MessageTypeEdit:
			payload, ok := msg.Payload.(ws.EditPayload)
			if !ok {
				_ = client.SendError(ws.ErrorCodeInvalidMessage, "invalid edit payload")

				continue
			}

			s.session.ContentChanged(payload.Content)
		case ws.MessageTypeTitle:
			payload, ok := msg.Payload.(ws.TitlePayload)
			if !ok {
				_ = client.SendError(ws.ErrorCodeInvalidMessage, "invalid title payload")

				continue
			}

			if err := s.session.SetTitle(r.Context(), payload.DocID, payload.Title); err != nil {
				_ = client.SendError(ws.ErrorCodeInternalError, err.Error())
			}
		case ws.MessageTypeSave:
			s.session.Save()
		case ws.MessageTypeOpen, ws.MessageTypeStatus, ws.MessageTypeDocuments, ws.MessageTypeError:
			// Server-to-client messages - ignore if received from client
			_ = client.SendError(ws.ErrorCodeInvalidMessage, "unexpected message type")
		}
	}
}
