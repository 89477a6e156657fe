package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/talentlens/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

const maxSlackRecommendations = 3

// SlackNotifier posts analysis results to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	pause      time.Duration // gap between consecutive messages
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each result to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		pause:      500 * time.Millisecond,
		logger:     logger,
	}
}

// Notify sends each result as a separate Slack message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(results []model.AnalysisResult) error {
	if len(results) == 0 {
		return nil
	}

	failures := 0
	for i, r := range results {
		if i > 0 {
			time.Sleep(s.pause)
		}

		if err := s.sendMessage(r); err != nil {
			s.logger.Error("slack notification failed", "file", r.FileName, "error", err)
			failures++
		}
	}

	if failures == len(results) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", len(results)-failures, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(r model.AnalysisResult) error {
	body, err := json.Marshal(buildPayload(r))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}

	if status == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(retryAfter)
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		status, _, err = s.post(body)
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", status)
		}
		s.logger.Info("slack message sent", "file", r.FileName, "retried", true)
		return nil
	}

	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Info("slack message sent", "file", r.FileName)
	return nil
}

func (s *SlackNotifier) post(body []byte) (int, string, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Retry-After"), nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a sample result to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	sample := model.AnalysisResult{
		ResumeID: "test-001",
		FileName: "test-resume.pdf",
		Analysis: model.AnalysisResults{
			SkillsMatch:     88,
			ExperienceMatch: 75,
			EducationMatch:  90,
			OverallFit:      84,
			Recommendations: []string{"Integration verified: results will be posted here."},
		},
	}
	return n.Notify([]model.AnalysisResult{sample})
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func buildPayload(r model.AnalysisResult) slackPayload {
	a := r.Analysis

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "📄 " + r.FileName + ": " + formatScore(a.OverallFit) + " fit"},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Overall fit:*\n" + formatScore(a.OverallFit)},
				{Type: "mrkdwn", Text: "*Skills:*\n" + formatScore(a.SkillsMatch)},
				{Type: "mrkdwn", Text: "*Experience:*\n" + formatScore(a.ExperienceMatch)},
				{Type: "mrkdwn", Text: "*Education:*\n" + formatScore(a.EducationMatch)},
			},
		},
	}

	if d := a.DetailedAnalysis; d != nil && d.ExecutiveSummary != "" {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Summary:* " + d.ExecutiveSummary},
		})
	}

	if len(a.Recommendations) > 0 {
		recs := a.Recommendations
		if len(recs) > maxSlackRecommendations {
			recs = recs[:maxSlackRecommendations]
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Recommendations:*\n• " + strings.Join(recs, "\n• ")},
		})
	}

	blocks = append(blocks, slackBlock{Type: "divider"})
	return slackPayload{Blocks: blocks}
}
