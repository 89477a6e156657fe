package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/talentlens/internal/model"
	"github.com/amishk599/talentlens/internal/report"
)

// Lines per result item in the list pane (name + scores + blank separator).
const resultItemHeight = 3

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	itemTitleStyle    = lipgloss.NewStyle().Bold(true)
	itemSubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// markdownRenderer turns markdown into terminal output wrapped at width.
type markdownRenderer func(md string, width int) (string, error)

func glamourRenderer(opts ...glamour.TermRendererOption) markdownRenderer {
	return func(md string, width int) (string, error) {
		r, err := glamour.NewTermRenderer(append([]glamour.TermRendererOption{glamour.WithWordWrap(width)}, opts...)...)
		if err != nil {
			return "", err
		}
		return r.Render(md)
	}
}

type browserModel struct {
	results []model.AnalysisResult
	cursor  int
	list    viewport.Model
	detail  viewport.Model
	width   int
	height  int
	ready   bool

	showResume bool
	showJD     bool
	render     markdownRenderer
}

func newBrowserModel(results []model.AnalysisResult, render markdownRenderer) browserModel {
	return browserModel{results: results, render: render}
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up":
			m.moveCursor(-1)
			return m, nil
		case "down":
			m.moveCursor(1)
			return m, nil
		case "m":
			m.showResume = !m.showResume
			m.refreshDetail(true)
			return m, nil
		case "j":
			m.showJD = !m.showJD
			m.refreshDetail(true)
			return m, nil
		}

		// pgup/pgdn/home/end scroll the detail pane.
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *browserModel) moveCursor(delta int) {
	next := clamp(m.cursor+delta, 0, max(len(m.results)-1, 0))
	if next == m.cursor {
		return
	}
	m.cursor = next
	m.list.SetContent(renderResults(m.results, m.cursor))
	m.ensureCursorVisible()
	m.refreshDetail(true)
}

func (m *browserModel) ensureCursorVisible() {
	top := m.cursor * resultItemHeight
	bottom := top + resultItemHeight - 1
	if top < m.list.YOffset {
		m.list.SetYOffset(top)
	} else if bottom >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(bottom - m.list.Height + 1)
	}
}

func (m *browserModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	listWidth := max(m.width/3, 24)
	detailWidth := max(m.width-listWidth-5, 30)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	height := max(m.height-4, 5)

	if !m.ready {
		m.list = viewport.New(listWidth, height)
		m.detail = viewport.New(detailWidth, height)
		m.ready = true
	} else {
		m.list.Width, m.list.Height = listWidth, height
		m.detail.Width, m.detail.Height = detailWidth, height
	}

	m.list.SetContent(renderResults(m.results, m.cursor))
	m.refreshDetail(false)
}

func (m *browserModel) refreshDetail(resetScroll bool) {
	if !m.ready {
		return
	}
	m.detail.SetContent(m.renderDetail())
	if resetScroll {
		m.detail.SetYOffset(0)
	}
}

func (m browserModel) renderDetail() string {
	if len(m.results) == 0 {
		return "  (no results)"
	}
	r := m.results[m.cursor]
	width := max(m.detail.Width-2, 20)

	var b strings.Builder
	b.WriteString(report.Detail(r))

	divider := func(label string) string {
		return dividerStyle.Render(label + strings.Repeat("─", max(width-len(label), 3)))
	}
	section := func(label, md string, shown bool, key string) {
		b.WriteByte('\n')
		if !shown {
			b.WriteString(hintStyle.Render(fmt.Sprintf("  press %s to read the %s", key, strings.ToLower(label))) + "\n")
			return
		}
		b.WriteString(divider("── "+label+" ") + "\n")
		if strings.TrimSpace(md) == "" {
			b.WriteString(hintStyle.Render("  (empty)") + "\n")
			return
		}
		out, err := m.render(md, width)
		if err != nil {
			b.WriteString(errorStyle.Render("⚠ render markdown: "+err.Error()) + "\n")
			out = md
		}
		b.WriteString(out)
	}

	section("Parsed Resume", r.ParsedResume.MarkdownContent, m.showResume, "m")
	section("Parsed Job Description", r.ParsedJobDescription.MarkdownContent, m.showJD, "j")
	return b.String()
}

func (m browserModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.list.Width+2).Render(headerStyle.Render(fmt.Sprintf("Results (%d)", len(m.results)))),
		" ",
		headerStyle.Render("Detail"),
	)
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		inactiveBorderStyle.Width(m.list.Width).Render(m.list.View()),
		" ",
		activeBorderStyle.Width(m.detail.Width).Render(m.detail.View()),
	)
	status := statusBarStyle.Width(m.width).Render(" ↑/↓ select  pgup/pgdn scroll  m resume  j job description  q quit")

	return header + "\n" + panes + "\n" + status
}

func renderResults(results []model.AnalysisResult, cursor int) string {
	if len(results) == 0 {
		return "  (no results)"
	}

	var b strings.Builder
	for i, r := range results {
		titleSt, subtitleSt, prefix := itemTitleStyle, itemSubtitleStyle, "  "
		if i == cursor {
			titleSt, subtitleSt, prefix = selectedTitleStyle, selectedSubtitleStyle, "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(r.FileName))
		b.WriteByte('\n')
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s fit · skills %s", report.Score(r.Analysis.OverallFit), report.Score(r.Analysis.SkillsMatch))))
		b.WriteByte('\n')

		if i < len(results)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RunBrowser launches the full-screen results browser. Results are listed in
// the order they were submitted.
func RunBrowser(results []model.AnalysisResult) error {
	m := newBrowserModel(results, glamourRenderer(glamour.WithAutoStyle()))
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
