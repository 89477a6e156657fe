package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/amishk599/talentlens/internal/document"
	"github.com/amishk599/talentlens/internal/model"
)

// DefaultExtensions are the formats the screening backend accepts.
var DefaultExtensions = []string{"pdf", "doc", "docx", "txt"}

// Ensure DocumentFilter implements model.DocumentFilter.
var _ model.DocumentFilter = (*DocumentFilter)(nil)

// DocumentFilter rejects documents the backend would refuse, before any
// upload is attempted. Extension matching is case-insensitive; an empty
// extension list accepts every extension.
type DocumentFilter struct {
	extensions  []string
	maxSize     int64
	requireText bool
}

// NewDocumentFilter returns a filter allowing the given extensions (without
// dots) up to maxSize bytes. maxSize <= 0 disables the size check. When
// requireText is set, documents must yield non-blank text locally; formats
// that cannot be read locally are let through for the backend to judge.
func NewDocumentFilter(extensions []string, maxSize int64, requireText bool) *DocumentFilter {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		exts = append(exts, strings.TrimPrefix(strings.ToLower(strings.TrimSpace(e)), "."))
	}
	return &DocumentFilter{
		extensions:  exts,
		maxSize:     maxSize,
		requireText: requireText,
	}
}

// Check returns nil if doc may be uploaded, or an error naming the problem.
func (f *DocumentFilter) Check(doc model.Document) error {
	if len(doc.Data) == 0 {
		return fmt.Errorf("%s is empty", doc.Name)
	}

	ext := document.Ext(doc)
	if len(f.extensions) > 0 && !slices.Contains(f.extensions, ext) {
		return fmt.Errorf("%s: file type %q not allowed (allowed: %s)", doc.Name, ext, strings.Join(f.extensions, ", "))
	}

	if f.maxSize > 0 && int64(len(doc.Data)) > f.maxSize {
		return fmt.Errorf("%s is too large: %d bytes (max %d)", doc.Name, len(doc.Data), f.maxSize)
	}

	if f.requireText {
		text, err := document.ExtractText(doc)
		if errors.Is(err, document.ErrUnsupported) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", doc.Name, err)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("%s has no extractable text", doc.Name)
		}
	}

	return nil
}
