// Package document loads local resume and job description files and
// extracts their plain text for preflight checks.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/amishk599/talentlens/internal/model"
)

// ErrUnsupported is returned by ExtractText for formats it cannot read locally.
var ErrUnsupported = errors.New("unsupported document format")

var (
	xmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
	paragraphEnd  = regexp.MustCompile(`</w:p>`)
	blankRunRegex = regexp.MustCompile(`\n{3,}`)
)

// Load reads the file at path into a Document named after its base name.
func Load(path string) (model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return model.Document{
		Name: filepath.Base(path),
		Path: path,
		Data: data,
	}, nil
}

// LoadAll loads every path in order, stopping at the first failure.
func LoadAll(paths []string) ([]model.Document, error) {
	docs := make([]model.Document, 0, len(paths))
	for _, p := range paths {
		d, err := Load(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// Ext returns the lower-cased extension of the document name without the dot.
func Ext(doc model.Document) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(doc.Name)), ".")
}

// ExtractText returns the plain text of doc, chosen by file extension.
func ExtractText(doc model.Document) (string, error) {
	switch Ext(doc) {
	case "txt", "md":
		return string(doc.Data), nil
	case "pdf":
		return extractPDF(doc.Data)
	case "docx":
		return extractDocx(doc.Data)
	default:
		return "", fmt.Errorf("%s: %w", doc.Name, ErrUnsupported)
	}
}

// pdfMu serializes PDF extraction while stdout is redirected.
var pdfMu sync.Mutex

// extractPDF reads the text layer of a PDF. The pdf package panics on
// malformed cross-reference data and prints DEBUG lines to stdout while
// parsing, so both are contained here.
func extractPDF(data []byte) (text string, err error) {
	pdfMu.Lock()
	defer pdfMu.Unlock()

	restore := silenceStdout()
	defer restore()

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("open pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			// Unreadable pages are skipped; the remaining text is still useful.
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String()), nil
}

// silenceStdout points os.Stdout at the null device until the returned
// func is called. If the null device cannot be opened stdout is left alone.
func silenceStdout() func() {
	null, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return func() {}
	}
	orig := os.Stdout
	os.Stdout = null
	return func() {
		os.Stdout = orig
		null.Close()
	}
}

func extractDocx(data []byte) (string, error) {
	d, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer d.Close()

	return xmlToText(d.Editable().GetContent()), nil
}

// xmlToText flattens WordprocessingML into plain text, one line per paragraph.
func xmlToText(content string) string {
	withBreaks := paragraphEnd.ReplaceAllString(content, "\n")
	plain := html.UnescapeString(xmlTagRegex.ReplaceAllString(withBreaks, ""))

	lines := strings.Split(plain, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.TrimSpace(blankRunRegex.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
