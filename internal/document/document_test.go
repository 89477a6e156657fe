package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amishk599/talentlens/internal/model"
)

func TestLoad_UsesBaseName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alice.txt")
	if err := os.WriteFile(path, []byte("Go, Kubernetes"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Name != "alice.txt" {
		t.Errorf("Name = %q, want alice.txt", doc.Name)
	}
	if doc.Path != path {
		t.Errorf("Path = %q", doc.Path)
	}
	if string(doc.Data) != "Go, Kubernetes" {
		t.Errorf("Data = %q", doc.Data)
	}
}

func TestLoadAll_StopsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.txt")
	if err := os.WriteFile(ok, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAll([]string{ok, filepath.Join(dir, "missing.pdf")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExtractText_PlainText(t *testing.T) {
	got, err := ExtractText(model.Document{Name: "Resume.TXT", Data: []byte("hello")})
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestExtractText_Unsupported(t *testing.T) {
	_, err := ExtractText(model.Document{Name: "legacy.doc", Data: []byte{0xd0, 0xcf}})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestExtractText_CorruptPDF(t *testing.T) {
	if _, err := ExtractText(model.Document{Name: "bad.pdf", Data: []byte("not a pdf")}); err == nil {
		t.Error("expected error for corrupt pdf")
	}
}

// brokenXrefPDF has a valid header and trailer but a cross-reference
// object whose dictionary key is an integer, which the pdf package panics on.
func brokenXrefPDF() []byte {
	head := "%PDF-1.4\n%" + strings.Repeat("x", 120) + "\n"
	body := "1 0 obj\n<< 0 0 >>\nendobj\n"
	return []byte(fmt.Sprintf("%s%sstartxref\n%d\n%%%%EOF\n", head, body, len(head)))
}

func TestExtractText_MalformedXrefReturnsError(t *testing.T) {
	text, err := ExtractText(model.Document{Name: "damaged.pdf", Data: brokenXrefPDF()})
	if err == nil {
		t.Fatal("expected error for pdf with malformed cross-reference data")
	}
	if !strings.Contains(err.Error(), "open pdf") {
		t.Errorf("err = %v, want an open pdf error", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestExtractText_PDFLeavesStdoutInPlace(t *testing.T) {
	orig := os.Stdout
	ExtractText(model.Document{Name: "damaged.pdf", Data: brokenXrefPDF()})
	if os.Stdout != orig {
		t.Error("os.Stdout was not restored after extraction")
	}
}

func TestXMLToText(t *testing.T) {
	xml := `<w:body><w:p><w:r><w:t>Jane  Doe</w:t></w:r></w:p><w:p><w:r><w:t>Go &amp; Rust</w:t></w:r></w:p></w:body>`
	if got := xmlToText(xml); got != "Jane Doe\nGo & Rust" {
		t.Errorf("xmlToText = %q", got)
	}
}

func TestExt(t *testing.T) {
	if got := Ext(model.Document{Name: "a.Final.PDF"}); got != "pdf" {
		t.Errorf("Ext = %q", got)
	}
	if got := Ext(model.Document{Name: "noext"}); got != "" {
		t.Errorf("Ext = %q", got)
	}
}
