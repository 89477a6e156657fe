package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/amishk599/talentlens/internal/model"
)

func mockResults() []model.AnalysisResult {
	return []model.AnalysisResult{
		{
			ResumeID: "r-1",
			FileName: "resume1.pdf",
			ParsedResume: model.ParsedContent{
				OriginalText:    "Jane Doe\nGo engineer",
				MarkdownContent: "# Jane Doe\n\nGo engineer",
			},
			Analysis: model.AnalysisResults{
				SkillsMatch:     85,
				ExperienceMatch: 70.5,
				EducationMatch:  90,
				OverallFit:      82,
				Recommendations: []string{"Add metrics to achievements", "Mention Kubernetes", "Tighten summary"},
				DetailedAnalysis: &model.DetailedAnalysis{
					ExecutiveSummary: "Solid backend profile.",
					FitAnalysis:      &model.FitAnalysis{OverallAssessment: "Good fit", FitScore: 80},
					KeyStrengths:     &model.KeyStrengths{Skills: []string{"Go", "gRPC"}},
					ScoreBreakdown:   map[string]string{"skills": "strong", "education": "meets"},
				},
			},
		},
		{
			ResumeID: "r-2",
			FileName: "resume2.docx",
			Analysis: model.AnalysisResults{OverallFit: 41, Recommendations: []string{}},
		},
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	results := mockResults()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, results); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got []model.AnalysisResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(results, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	// Field names are the backend's, so the output can be fed back to other tools.
	for _, key := range []string{`"overallFit"`, `"skillsMatch"`, `"experienceMatch"`, `"recommendations"`, `"fileName"`, `"analysis_results"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("output missing key %s", key)
		}
	}
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, mockResults()); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[0], "Resume") || !strings.Contains(lines[0], "Overall") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "resume1.pdf") || !strings.Contains(lines[1], "82%") || !strings.Contains(lines[1], "70.5%") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "resume2.docx") || !strings.Contains(lines[2], "41%") {
		t.Errorf("row 2 = %q", lines[2])
	}
	if !strings.Contains(buf.String(), "Total: 2 resumes") {
		t.Errorf("missing total:\n%s", buf.String())
	}
}

func TestWriteDetail_RecommendationsInOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDetail(&buf, mockResults()); err != nil {
		t.Fatalf("WriteDetail: %v", err)
	}
	out := buf.String()

	first := strings.Index(out, "1. Add metrics to achievements")
	second := strings.Index(out, "2. Mention Kubernetes")
	third := strings.Index(out, "3. Tighten summary")
	if first < 0 || second < first || third < second {
		t.Errorf("recommendations missing or out of order:\n%s", out)
	}
	for _, want := range []string{"Solid backend profile.", "Fit assessment (80%)", "  - gRPC", "education: meets", "resume2.docx"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail output missing %q", want)
		}
	}
	// Breakdown keys are sorted.
	if strings.Index(out, "education: meets") > strings.Index(out, "skills: strong") {
		t.Error("score breakdown not sorted")
	}
}

func TestDetail_DetailedAnalysisError(t *testing.T) {
	r := model.AnalysisResult{
		FileName: "x.pdf",
		Analysis: model.AnalysisResults{DetailedAnalysis: &model.DetailedAnalysis{Error: "LLM timeout"}},
	}
	if got := Detail(r); !strings.Contains(got, "Detailed analysis unavailable: LLM timeout") {
		t.Errorf("Detail = %q", got)
	}
}

func TestWrite_Formats(t *testing.T) {
	for _, format := range []string{"", FormatTable, FormatDetail, FormatJSON} {
		var buf bytes.Buffer
		if err := Write(&buf, format, mockResults()); err != nil {
			t.Errorf("Write(%q): %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%q) produced no output", format)
		}
	}
	if err := Write(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("Write(xml): expected error")
	}
}

func TestScore(t *testing.T) {
	for in, want := range map[float64]string{0: "0%", 85: "85%", 72.5: "72.5%", 100: "100%"} {
		if got := Score(in); got != want {
			t.Errorf("Score(%v) = %q, want %q", in, got, want)
		}
	}
}
