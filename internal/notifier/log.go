package notifier

import (
	"log/slog"

	"github.com/amishk599/talentlens/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes analysis results to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each result via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each result with file name and scores.
// Returns nil (log output does not fail).
func (n *LogNotifier) Notify(results []model.AnalysisResult) error {
	for _, r := range results {
		a := r.Analysis
		args := []any{
			"file", r.FileName,
			"resume_id", r.ResumeID,
			"overall_fit", a.OverallFit,
			"skills", a.SkillsMatch,
			"experience", a.ExperienceMatch,
			"education", a.EducationMatch,
		}
		if len(a.Recommendations) > 0 {
			args = append(args, "top_recommendation", a.Recommendations[0])
		}
		n.logger.Info("resume analyzed", args...)
	}
	return nil
}
