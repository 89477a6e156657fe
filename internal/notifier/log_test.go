package notifier

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/amishk599/talentlens/internal/model"
)

func TestLogNotifier_Notify_zeroResults(t *testing.T) {
	n := NewLogNotifier(discardLogger())
	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if err := n.Notify([]model.AnalysisResult{}); err != nil {
		t.Errorf("Notify([]) = %v, want nil", err)
	}
}

func TestLogNotifier_Notify_logsOneLinePerResult(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	results := []model.AnalysisResult{
		sampleResult("alice.pdf", 91),
		{FileName: "bob.docx", Analysis: model.AnalysisResults{OverallFit: 42}},
	}
	if err := n.Notify(results); err != nil {
		t.Fatalf("Notify = %v, want nil", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "file=alice.pdf") || !strings.Contains(lines[0], "overall_fit=91") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[0], "top_recommendation=") {
		t.Errorf("line 0 missing top recommendation: %q", lines[0])
	}
	if strings.Contains(lines[1], "top_recommendation") {
		t.Errorf("line 1 should have no recommendation: %q", lines[1])
	}
}

func TestNopNotifier(t *testing.T) {
	if err := (NopNotifier{}).Notify([]model.AnalysisResult{sampleResult("a.pdf", 1)}); err != nil {
		t.Errorf("Notify = %v, want nil", err)
	}
}
