package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/talentlens/internal/model"
	"github.com/amishk599/talentlens/internal/orchestrator"
)

// BatchFunc runs a batch under ctx, reporting progress through observe.
type BatchFunc func(ctx context.Context, observe orchestrator.Observer) ([]model.AnalysisResult, error)

type batchDoneMsg struct {
	results []model.AnalysisResult
	err     error
}

type progressMsg orchestrator.Event

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

type loaderModel struct {
	spinner    spinner.Model
	run        func() tea.Msg
	cancel     context.CancelFunc
	event      orchestrator.Event
	started    bool
	cancelling bool
	done       bool
	results    []model.AnalysisResult
	err        error
}

func newLoaderModel(run func() tea.Msg, cancel context.CancelFunc) loaderModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return loaderModel{spinner: sp, run: run, cancel: cancel}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.run, m.spinner.Tick)
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case batchDoneMsg:
		m.results = msg.results
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case progressMsg:
		m.event = orchestrator.Event(msg)
		m.started = true
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.cancelling {
			// Keep running until the batch observes the cancellation and returns.
			m.cancelling = true
			m.cancel()
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	if m.cancelling {
		return fmt.Sprintf("%s Cancelling...\n", m.spinner.View())
	}
	return fmt.Sprintf("%s %s\n%s\n", m.spinner.View(), describe(m.event, m.started), hintStyle.Render("  ctrl+c to cancel"))
}

func describe(e orchestrator.Event, started bool) string {
	if !started {
		return "Starting..."
	}
	switch e.Stage {
	case orchestrator.StageJobDescription:
		return "Uploading job description..."
	case orchestrator.StageUpload:
		return fmt.Sprintf("Uploading resume %d/%d: %s", e.Index+1, e.Total, e.File)
	case orchestrator.StageAnalysis:
		return fmt.Sprintf("Analyzing resume %d/%d: %s", e.Index+1, e.Total, e.File)
	case orchestrator.StageDone:
		return fmt.Sprintf("Analyzed %d resumes", e.Total)
	}
	return string(e.Stage)
}

// batchRun holds the outcome of a batch started by RunLoader. done is closed
// once fn has returned.
type batchRun struct {
	done    chan struct{}
	results []model.AnalysisResult
	err     error
}

func (r *batchRun) wait() tea.Msg {
	<-r.done
	return batchDoneMsg{results: r.results, err: r.err}
}

// RunLoader runs fn while showing an inline spinner with live progress.
// ctrl+c cancels the context passed to fn; RunLoader then waits for fn to
// return and reports its error. If the program exits before fn returns
// (SIGTERM, a terminal error), fn is cancelled and awaited the same way, so
// RunLoader never returns while the batch is still running.
func RunLoader(ctx context.Context, fn BatchFunc, opts ...tea.ProgramOption) ([]model.AnalysisResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	run := &batchRun{done: make(chan struct{})}
	p := tea.NewProgram(newLoaderModel(run.wait, cancel), opts...)

	go func() {
		defer close(run.done)
		run.results, run.err = fn(ctx, func(e orchestrator.Event) {
			p.Send(progressMsg(e))
		})
	}()

	final, err := p.Run()
	if m, ok := final.(loaderModel); ok && err == nil && m.done {
		return m.results, m.err
	}

	cancel()
	<-run.done
	if run.err != nil {
		return nil, run.err
	}
	if err != nil {
		return nil, err
	}
	// The batch finished before it saw the cancellation.
	return run.results, nil
}
