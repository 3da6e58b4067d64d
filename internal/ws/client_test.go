package ws_test

import (
	"testing"

	"github.com/quillpad/quillpad/internal/content"
	"github.com/quillpad/quillpad/internal/ws"
)

func TestClient_Send(t *testing.T) {
	t.Parallel()

	conn := newMockConn()
	client := ws.NewClient("c1", conn)

	msg := ws.Message{
		Type: ws.MessageTypeStatus,
		Payload: ws.StatusPayload{
			ActiveID: "doc1",
			State:    "saved",
		},
	}

	err := client.Send(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages := conn.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}

	if messages[0].Type != ws.MessageTypeStatus {
		t.Errorf("expected status type, got %s", messages[0].Type)
	}
}

func TestClient_SendError(t *testing.T) {
	t.Parallel()

	conn := newMockConn()
	client := ws.NewClient("c1", conn)

	err := client.SendError(ws.ErrorCodeLastDocument, "cannot delete the last document")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages := conn.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}

	if messages[0].Type != ws.MessageTypeError {
		t.Errorf("expected error type, got %s", messages[0].Type)
	}
}

func TestClient_Receive_Edit(t *testing.T) {
	t.Parallel()

	conn := newMockConn()
	client := ws.NewClient("c1", conn)

	conn.incoming <- ws.Message{
		Type:    ws.MessageTypeEdit,
		Payload: ws.EditPayload{Content: content.FromText("hello")},
	}

	msg, err := client.Receive()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, ok := msg.Payload.(ws.EditPayload)
	if !ok {
		t.Fatalf("expected EditPayload, got %T", msg.Payload)
	}

	if got := content.Text(payload.Content); got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}

func TestClient_Receive_Title(t *testing.T) {
	t.Parallel()

	conn := newMockConn()
	client := ws.NewClient("c1", conn)

	conn.incoming <- ws.Message{
		Type:    ws.MessageTypeTitle,
		Payload: ws.TitlePayload{DocID: "doc1", Title: "Renamed"},
	}

	msg, err := client.Receive()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, ok := msg.Payload.(ws.TitlePayload)
	if !ok {
		t.Fatalf("expected TitlePayload, got %T", msg.Payload)
	}

	if payload.DocID != "doc1" || payload.Title != "Renamed" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestClient_Receive_Save(t *testing.T) {
	t.Parallel()

	conn := newMockConn()
	client := ws.NewClient("c1", conn)

	conn.incoming <- ws.Message{Type: ws.MessageTypeSave}

	msg, err := client.Receive()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Type != ws.MessageTypeSave {
		t.Errorf("expected save type, got %s", msg.Type)
	}

	if msg.Payload != nil {
		t.Errorf("expected nil payload, got %v", msg.Payload)
	}
}

func TestClient_Close(t *testing.T) {
	t.Parallel()

	conn := newMockConn()
	client := ws.NewClient("c1", conn)

	err := client.Close()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !conn.IsClosed() {
		t.Error("expected connection to be closed")
	}
}
