// Package remote is the network boundary to the document store. It exposes
// list, create, update, and delete over HTTP JSON, and applies the content
// normalizer to every document read from the wire so that only canonical
// trees enter the rest of the system.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quillpad/quillpad/internal/content"
	"github.com/quillpad/quillpad/internal/store"
)

// ErrRemoteWrite reports a failed remote call: network error, timeout, or a
// non-2xx response. The in-memory state is never rolled back on this error;
// the caller surfaces it and keeps the user's edit.
var ErrRemoteWrite = errors.New("remote write failed")

// defaultTimeout bounds every remote call when no http.Client is injected.
// A hung write must resolve to a failure rather than hold the save pipeline
// open forever.
const defaultTimeout = 30 * time.Second

// Client talks to the remote document store.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:5002/api".
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// wireDocument is the document shape on the wire. Content may be any of the
// legacy forms; timestamps are ISO-8601 strings.
type wireDocument struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// updatePayload is the body of an update call.
type updatePayload struct {
	Title   string       `json:"title"`
	Content content.Node `json:"content"`
}

// List fetches all documents, newest first, normalized.
func (c *Client) List(ctx context.Context) ([]store.Document, error) {
	var wire []wireDocument
	if err := c.do(ctx, http.MethodGet, "/documents", nil, &wire); err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(wire))
	for _, w := range wire {
		docs = append(docs, store.Document{
			ID:        w.ID,
			Title:     w.Title,
			Content:   content.Normalize(w.Content),
			CreatedAt: parseWireTime(w.CreatedAt),
			UpdatedAt: parseWireTime(w.UpdatedAt),
		})
	}

	return docs, nil
}

// Create persists a new document.
func (c *Client) Create(ctx context.Context, doc store.Document) error {
	payload := wireDocument{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   content.Raw(doc.Content),
		CreatedAt: doc.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: doc.UpdatedAt.UTC().Format(time.RFC3339),
	}

	return c.do(ctx, http.MethodPost, "/documents", payload, nil)
}

// Update persists the title and content of an existing document.
func (c *Client) Update(ctx context.Context, id, title string, body content.Node) error {
	payload := updatePayload{Title: title, Content: body}

	return c.do(ctx, http.MethodPut, "/documents/"+id, payload, nil)
}

// Delete removes a document from the remote store.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+id, nil, nil)
}

// do performs one request/response round trip. Timeout behaviour belongs to
// the injected http.Client and the caller's context.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, ErrRemoteWrite)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s: %w", method, path, errorMessage(resp), ErrRemoteWrite)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}

	return nil
}

// errorMessage extracts the store's {"error": "..."} body when present, or
// falls back to the HTTP status.
func errorMessage(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}

	return resp.Status
}

// wireTimeLayouts covers the timestamp shapes observed from the store:
// RFC 3339 and naive ISO-8601 with or without fractional seconds.
var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// parseWireTime parses an ISO-8601 timestamp, returning the zero time for
// anything unparseable rather than failing the whole list.
func parseWireTime(value string) time.Time {
	for _, layout := range wireTimeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}

	return time.Time{}
}
