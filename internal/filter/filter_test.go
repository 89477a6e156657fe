package filter

import (
	"strconv"
	"strings"
	"testing"

	"github.com/amishk599/talentlens/internal/model"
)

func doc(name, data string) model.Document {
	return model.Document{Name: name, Data: []byte(data)}
}

func TestCheck(t *testing.T) {
	f := NewDocumentFilter([]string{"PDF", ".docx", "txt"}, 10, false)

	tests := []struct {
		name    string
		doc     model.Document
		wantErr string
	}{
		{"allowed extension", doc("cv.pdf", "%PDF"), ""},
		{"extension case-insensitive", doc("cv.DOCX", "PK"), ""},
		{"disallowed extension", doc("cv.exe", "MZ"), "not allowed"},
		{"no extension", doc("README", "x"), "not allowed"},
		{"too large", doc("cv.txt", "01234567890"), "too large"},
		{"empty file", doc("cv.txt", ""), "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.Check(tt.doc)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.doc.Name) {
				t.Errorf("err = %v, want it to name %s", err, tt.doc.Name)
			}
		})
	}
}

func TestCheck_EmptyExtensionListAcceptsAll(t *testing.T) {
	f := NewDocumentFilter(nil, 0, false)
	if err := f.Check(doc("anything.xyz", "data")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheck_RequireText(t *testing.T) {
	f := NewDocumentFilter(DefaultExtensions, 0, true)

	if err := f.Check(doc("blank.txt", "   \n\t")); err == nil {
		t.Error("expected error for blank text document")
	}
	if err := f.Check(doc("ok.txt", "Go developer")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	// .doc cannot be read locally, so it is left for the backend.
	if err := f.Check(doc("legacy.doc", "binary")); err != nil {
		t.Errorf("unexpected error for .doc: %v", err)
	}
	if err := f.Check(doc("broken.pdf", "not a pdf")); err == nil {
		t.Error("expected error for unreadable pdf")
	}
}

func TestCheck_RequireTextDamagedPDF(t *testing.T) {
	head := "%PDF-1.4\n%" + strings.Repeat("x", 120) + "\n"
	body := "1 0 obj\n<< 0 0 >>\nendobj\n"
	damaged := head + body + "startxref\n" + strconv.Itoa(len(head)) + "\n%%EOF\n"

	f := NewDocumentFilter(DefaultExtensions, 0, true)
	err := f.Check(doc("damaged.pdf", damaged))
	if err == nil {
		t.Fatal("expected error for pdf with malformed cross-reference data")
	}
	if !strings.Contains(err.Error(), "damaged.pdf") {
		t.Errorf("err = %q, want it to name the file", err)
	}
}
