package content

import "strings"

// Text flattens a node tree to plain text. Block-level siblings are separated
// by newlines, matching what the editing surface reports for its own content.
func Text(node Node) string {
	var b strings.Builder
	writeText(&b, node)

	return b.String()
}

func writeText(b *strings.Builder, node Node) {
	if node.Type == "text" {
		b.WriteString(node.Text)

		return
	}

	for i, child := range node.Content {
		if i > 0 && isBlock(child) {
			b.WriteByte('\n')
		}

		writeText(b, child)
	}
}

// isBlock reports whether a node starts a new line of text.
func isBlock(node Node) bool {
	switch node.Type {
	case "text", "hardBreak":
		return false
	default:
		return true
	}
}

// CountResult holds the word and character counts shown next to the editor.
type CountResult struct {
	Words int `json:"words"`
	Chars int `json:"chars"`
}

// Count computes word and character counts over the flattened text: the text
// is trimmed, words are maximal runs of non-whitespace, and the character
// count is the rune length of the trimmed text.
func Count(node Node) CountResult {
	clean := strings.TrimSpace(Text(node))
	if clean == "" {
		return CountResult{}
	}

	return CountResult{
		Words: len(strings.Fields(clean)),
		Chars: len([]rune(clean)),
	}
}
