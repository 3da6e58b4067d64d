package api

import (
	"github.com/quillpad/quillpad/internal/editor"
	"github.com/quillpad/quillpad/internal/store"
	"github.com/quillpad/quillpad/internal/ws"
)

// HubSurface bridges session notifications onto the WebSocket hub so every
// connected window stays in sync.
type HubSurface struct {
	hub *ws.Hub
}

// NewHubSurface creates the bridge.
func NewHubSurface(hub *ws.Hub) *HubSurface {
	return &HubSurface{hub: hub}
}

// LoadContent asks every window to replace its displayed content and
// returns the number of windows asked, each of which will echo the load.
func (s *HubSurface) LoadContent(doc store.Document) int {
	return s.hub.BroadcastOpen(ws.OpenPayload{Document: ws.NewDocumentPayload(doc)})
}

// StatusChanged pushes the save indicator and counts.
func (s *HubSurface) StatusChanged(st editor.Status) {
	s.hub.BroadcastStatus(statusPayload(st))
}

// DocumentsChanged pushes the recency-ordered list.
func (s *HubSurface) DocumentsChanged(docs []store.Document, activeID string) {
	payloads := make([]ws.DocumentPayload, len(docs))
	for i, doc := range docs {
		payloads[i] = ws.NewDocumentPayload(doc)
	}

	s.hub.BroadcastDocuments(ws.DocumentsPayload{Documents: payloads, ActiveID: activeID})
}

// SaveFailed surfaces a failed remote write as a one-shot notification.
func (s *HubSurface) SaveFailed(err error) {
	s.hub.BroadcastError(ws.ErrorCodeSaveFailed, err.Error())
}
