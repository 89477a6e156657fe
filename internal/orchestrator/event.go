package orchestrator

// Stage names the step a batch is in.
type Stage string

const (
	StageJobDescription Stage = "job_description"
	StageUpload         Stage = "upload"
	StageAnalysis       Stage = "analysis"
	StageDone           Stage = "done"
)

// Event reports progress through a batch. Index is the 0-based resume
// position, -1 while the job description is being submitted.
type Event struct {
	Stage Stage
	File  string
	Index int
	Total int
}

// Observer receives progress events.
type Observer func(Event)
