package model

import "context"

// RemoteID identifies a document stored by the screening backend.
type RemoteID string

// Document is a local file selected for upload.
type Document struct {
	Name string // base file name, reported back as AnalysisResult.FileName
	Path string // source path on disk, empty for in-memory documents
	Data []byte
}

// JobDescription is supplied either as a file or as pasted text.
// When both are set, the file wins.
type JobDescription struct {
	File *Document
	Text string
}

// Batch is one screening run: a job description and the resumes to score against it.
type Batch struct {
	Resumes        []Document
	JobDescription JobDescription
}

// AnalysisRequest pairs an uploaded resume with an uploaded job description.
type AnalysisRequest struct {
	ResumeID         RemoteID `json:"resume_id"`
	JobDescriptionID RemoteID `json:"job_description_id"`
}

// ParsedContent is the backend's parse of one document. Opaque to this client.
type ParsedContent struct {
	OriginalText    string         `json:"original_text"`
	MarkdownContent string         `json:"markdown_content"`
	StructuredData  map[string]any `json:"structured_data,omitempty"`
}

// AnalysisResult is the per-resume outcome returned by the analysis endpoint.
type AnalysisResult struct {
	ResumeID             RemoteID        `json:"resumeId"`
	FileName             string          `json:"fileName"`
	ParsedResume         ParsedContent   `json:"parsed_resume"`
	ParsedJobDescription ParsedContent   `json:"parsed_job_description"`
	Analysis             AnalysisResults `json:"analysis_results"`
}

// AnalysisResults holds the match scores. Scores are percentages in 0–100.
type AnalysisResults struct {
	SkillsMatch      float64           `json:"skillsMatch"`
	ExperienceMatch  float64           `json:"experienceMatch"`
	EducationMatch   float64           `json:"educationMatch"`
	OverallFit       float64           `json:"overallFit"`
	Recommendations  []string          `json:"recommendations"`
	DetailedAnalysis *DetailedAnalysis `json:"detailed_analysis,omitempty"`
}

// DetailedAnalysis is the optional breakdown behind the headline scores.
type DetailedAnalysis struct {
	ExecutiveSummary    string               `json:"executive_summary,omitempty"`
	FitAnalysis         *FitAnalysis         `json:"fit_analysis,omitempty"`
	KeyStrengths        *KeyStrengths        `json:"key_strengths,omitempty"`
	AreasForDevelopment *AreasForDevelopment `json:"areas_for_development,omitempty"`
	ScoreBreakdown      map[string]string    `json:"score_breakdown,omitempty"`
	InterestingFact     string               `json:"interesting_fact,omitempty"`
	Error               string               `json:"error,omitempty"`
}

type FitAnalysis struct {
	OverallAssessment string  `json:"overall_assessment,omitempty"`
	FitScore          float64 `json:"fit_score"`
}

type KeyStrengths struct {
	Skills              []string `json:"skills,omitempty"`
	Experience          []string `json:"experience,omitempty"`
	NotableAchievements []string `json:"notable_achievements,omitempty"`
}

type AreasForDevelopment struct {
	SkillsGaps      []string `json:"skills_gaps,omitempty"`
	ExperienceGaps  []string `json:"experience_gaps,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Backend is the screening service: document uploads plus analysis.
type Backend interface {
	UploadJobDescription(ctx context.Context, doc Document) (RemoteID, error)
	UploadJobDescriptionText(ctx context.Context, text string) (RemoteID, error)
	UploadResume(ctx context.Context, doc Document) (RemoteID, error)
	Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error)
}

// DocumentFilter decides whether a local document may be uploaded.
type DocumentFilter interface {
	Check(doc Document) error
}

// Notifier publishes the results of a finished batch.
type Notifier interface {
	Notify(results []AnalysisResult) error
}
