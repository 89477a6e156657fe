package model

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestError_Messages(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"validation", ValidationError("Please provide both resumes and a job description"), "Please provide both resumes and a job description"},
		{"job description upload", &Error{Kind: KindUpload, Err: cause}, "Failed to upload job description: connection refused"},
		{"resume upload", &Error{Kind: KindUpload, File: "a.pdf", Err: cause}, "Failed to process resume a.pdf: connection refused"},
		{"analysis", &Error{Kind: KindAnalysis, File: "b.pdf", Err: cause}, "Failed to process resume b.pdf: connection refused"},
		{"unknown", &Error{Kind: KindUnknown, Err: cause}, "An unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_UnwrapsCause(t *testing.T) {
	err := fmt.Errorf("run: %w", &Error{Kind: KindAnalysis, File: "x.pdf", Err: context.Canceled})
	if !errors.Is(err, context.Canceled) {
		t.Error("expected errors.Is to find context.Canceled")
	}
	if KindOf(err) != KindAnalysis {
		t.Errorf("KindOf = %q, want analysis", KindOf(err))
	}
}

func TestKindOf_PlainErrorIsUnknown(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindUnknown {
		t.Errorf("KindOf = %q, want unknown", got)
	}
}

func TestKindOf_NilHasNoKind(t *testing.T) {
	if got := KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %q, want empty", got)
	}
}

func TestHTTPError_PrefersDetail(t *testing.T) {
	withDetail := &HTTPError{StatusCode: 400, Detail: "File type .exe not allowed", Err: errors.New("resume upload failed")}
	if got := withDetail.Error(); got != "File type .exe not allowed" {
		t.Errorf("Error() = %q", got)
	}

	generic := &HTTPError{StatusCode: 502, Err: errors.New("analysis failed")}
	if got := generic.Error(); got != "analysis failed (HTTP 502)" {
		t.Errorf("Error() = %q", got)
	}
}
