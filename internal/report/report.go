// Package report renders analysis results for the terminal or for other tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/amishk599/talentlens/internal/model"
)

// Formats accepted by Write.
const (
	FormatTable  = "table"
	FormatDetail = "detail"
	FormatJSON   = "json"
)

// Write renders results in the named format.
func Write(w io.Writer, format string, results []model.AnalysisResult) error {
	switch format {
	case FormatTable, "":
		return WriteTable(w, results)
	case FormatDetail:
		return WriteDetail(w, results)
	case FormatJSON:
		return WriteJSON(w, results)
	default:
		return fmt.Errorf("unknown format %q (want table, detail or json)", format)
	}
}

// WriteTable prints one row per result with the headline scores.
func WriteTable(w io.Writer, results []model.AnalysisResult) error {
	width := len("Resume")
	for _, r := range results {
		width = max(width, len(r.FileName))
	}

	row := fmt.Sprintf("%%-%ds  %%8s  %%8s  %%10s  %%9s\n", width)
	fmt.Fprintf(w, row, "Resume", "Overall", "Skills", "Experience", "Education")
	for _, r := range results {
		a := r.Analysis
		fmt.Fprintf(w, row, r.FileName, Score(a.OverallFit), Score(a.SkillsMatch), Score(a.ExperienceMatch), Score(a.EducationMatch))
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d resumes\n", len(results))
	return err
}

// WriteDetail prints every field of every result, recommendations in order.
func WriteDetail(w io.Writer, results []model.AnalysisResult) error {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w, strings.Repeat("─", 60))
		}
		if _, err := io.WriteString(w, Detail(r)); err != nil {
			return err
		}
	}
	return nil
}

// Detail formats a single result as plain text.
func Detail(r model.AnalysisResult) string {
	var b strings.Builder
	a := r.Analysis

	fmt.Fprintf(&b, "%s  (id %s)\n\n", r.FileName, r.ResumeID)
	fmt.Fprintf(&b, "  Overall fit   %s\n", Score(a.OverallFit))
	fmt.Fprintf(&b, "  Skills        %s\n", Score(a.SkillsMatch))
	fmt.Fprintf(&b, "  Experience    %s\n", Score(a.ExperienceMatch))
	fmt.Fprintf(&b, "  Education     %s\n", Score(a.EducationMatch))

	if len(a.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for i, rec := range a.Recommendations {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
		}
	}

	if d := a.DetailedAnalysis; d != nil {
		writeDetailed(&b, d)
	}
	return b.String()
}

func writeDetailed(b *strings.Builder, d *model.DetailedAnalysis) {
	if d.Error != "" {
		fmt.Fprintf(b, "\nDetailed analysis unavailable: %s\n", d.Error)
		return
	}
	if d.ExecutiveSummary != "" {
		fmt.Fprintf(b, "\nSummary:\n  %s\n", d.ExecutiveSummary)
	}
	if f := d.FitAnalysis; f != nil {
		fmt.Fprintf(b, "\nFit assessment (%s):\n  %s\n", Score(f.FitScore), f.OverallAssessment)
	}
	if s := d.KeyStrengths; s != nil {
		writeList(b, "Strengths: skills", s.Skills)
		writeList(b, "Strengths: experience", s.Experience)
		writeList(b, "Notable achievements", s.NotableAchievements)
	}
	if g := d.AreasForDevelopment; g != nil {
		writeList(b, "Skills gaps", g.SkillsGaps)
		writeList(b, "Experience gaps", g.ExperienceGaps)
		writeList(b, "Development", g.Recommendations)
	}
	if len(d.ScoreBreakdown) > 0 {
		keys := make([]string, 0, len(d.ScoreBreakdown))
		for k := range d.ScoreBreakdown {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\nScore breakdown:\n")
		for _, k := range keys {
			fmt.Fprintf(b, "  %s: %s\n", k, d.ScoreBreakdown[k])
		}
	}
	if d.InterestingFact != "" {
		fmt.Fprintf(b, "\nDid you know: %s\n", d.InterestingFact)
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
}

// WriteJSON writes results as an indented JSON array using the backend's field names.
func WriteJSON(w io.Writer, results []model.AnalysisResult) error {
	if results == nil {
		results = []model.AnalysisResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// Score formats a 0–100 percentage without trailing zeros.
func Score(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
