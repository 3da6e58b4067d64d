package store

import (
	"time"

	"github.com/quillpad/quillpad/internal/content"
)

// Document is the persisted unit: an id assigned at creation, a mutable
// title, and a canonical content tree. UpdatedAt is refreshed on every
// committed mutation.
type Document struct {
	ID        string
	Title     string
	Content   content.Node
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch carries the mutable fields of a document. Nil fields are left
// untouched by the merge.
type Patch struct {
	Title   *string
	Content *content.Node
}

// TitlePatch builds a patch that changes only the title.
func TitlePatch(title string) Patch {
	return Patch{Title: &title}
}

// ContentPatch builds a patch that changes only the content.
func ContentPatch(node content.Node) Patch {
	return Patch{Content: &node}
}

// apply merges the patch into the document.
func (p Patch) apply(doc *Document) {
	if p.Title != nil {
		doc.Title = *p.Title
	}

	if p.Content != nil {
		doc.Content = *p.Content
	}
}
