// Package content defines the canonical structured-tree representation of a
// document body and the normalizer that converts legacy content into it.
//
// Historically three shapes have been stored for document content: a
// structured node tree, a JSON serialization of that tree, and plain text.
// Everything downstream of this package operates on Node only; Normalize is
// applied at every boundary where content enters the system.
package content

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Node is a node in the document tree. The root node has type "doc"; block
// nodes carry children in Content, text leaves carry Text and optional Marks.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Mark is a formatting annotation on a text node (bold, italic, link, ...).
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// EmptyDoc returns the canonical empty document: one empty paragraph.
func EmptyDoc() Node {
	return Node{
		Type:    "doc",
		Content: []Node{{Type: "paragraph"}},
	}
}

// FromText wraps plain text as a single-paragraph document. An empty string
// maps to the empty document.
func FromText(text string) Node {
	if text == "" {
		return EmptyDoc()
	}

	return Node{
		Type: "doc",
		Content: []Node{{
			Type:    "paragraph",
			Content: []Node{{Type: "text", Text: text}},
		}},
	}
}

// Normalize converts raw wire content in any accepted legacy form into a
// canonical Node. The forms are tried in a fixed order:
//
//  1. A JSON object with a node type: decoded and returned as the tree it
//     already is.
//  2. A JSON string whose value parses as a tree serialization: parsed.
//  3. A JSON string that does not parse as a tree: wrapped as a single
//     paragraph of plain text. A typeless object gets the same wrapping,
//     whether it arrives raw or serialized inside a string.
//
// null, missing, and any other JSON value map to the empty document.
// Normalize never fails; unrecognized input degrades to plain-text wrapping
// so that historical documents stay openable.
func Normalize(raw json.RawMessage) Node {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return EmptyDoc()
	}

	switch trimmed[0] {
	case '{':
		var node Node
		if err := json.Unmarshal(trimmed, &node); err != nil || node.Type == "" {
			// Same rule as the serialized-string form: an object without a
			// node type is not a tree, so its text is preserved verbatim.
			return FromText(string(trimmed))
		}

		return node
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return FromText(string(trimmed))
		}

		return normalizeString(text)
	default:
		return EmptyDoc()
	}
}

// normalizeString handles content stored as a string column: either a
// serialized tree or plain text.
func normalizeString(text string) Node {
	candidate := strings.TrimSpace(text)
	if strings.HasPrefix(candidate, "{") {
		var node Node
		if err := json.Unmarshal([]byte(candidate), &node); err == nil && node.Type != "" {
			return node
		}
	}

	return FromText(text)
}

// Raw serializes a node back to its wire form.
func Raw(node Node) json.RawMessage {
	data, err := json.Marshal(node)
	if err != nil {
		// Node contains only JSON-representable fields; Marshal cannot fail
		// on values built through this package.
		return json.RawMessage(`{"type":"doc"}`)
	}

	return json.RawMessage(data)
}
