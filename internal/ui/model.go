package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/feelsunbreeze/student_portal_tui/internal/portal"
	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

// Looker runs lookups for the model. portal.Session satisfies it.
type Looker interface {
	Lookup(ctx context.Context, input string) (portal.Outcome, error)
	Open(ctx context.Context, enrollmentID string) (*report.Report, error)
}

// Exporter writes the print view of a report and returns where it went.
type Exporter func(r *report.Report) (string, error)

type ViewType int

const (
	InputView ViewType = iota
	LoadingView
	SelectView
	ReportView
	ResultView
)

type Tab int

const (
	DetailsTab Tab = iota
	AttendanceTab
	ExamsTab
)

var tabNames = []string{"Details", "Attendance", "Exams"}

type LookupResultMsg struct {
	Outcome portal.Outcome
	Err     error
}

type ReportLoadedMsg struct {
	Report *report.Report
	Err    error
}

type ExportResultMsg struct {
	Path string
	Err  error
}

type LoadingState struct {
	Reason     string
	HelpText   string
	BottomText string
}

type Options struct {
	Looker  Looker
	Export  Exporter
	AppName string
	// Initial pre-fills the identifier input.
	Initial string
}

type Model struct {
	width        int
	height       int
	currentView  ViewType
	looker       Looker
	export       Exporter
	appName      string
	input        textinput.Model
	inputErr     error
	spinner      spinner.Model
	loadingState LoadingState

	identifier portal.Identifier
	candidates []report.Enrollment
	selected   int

	report     *report.Report
	tab        Tab
	source     int
	examTable  table.Model
	exporting  bool
	exportNote string
	exportErr  error

	err error
}

func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "ENR-..., S-... or phone number"
	ti.CharLimit = 40
	ti.Width = 32
	ti.Prompt = "› "
	ti.SetValue(opts.Initial)
	ti.Focus()

	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(BLUE)
	s.Spinner = spinner.Points

	name := opts.AppName
	if name == "" {
		name = "Student Portal"
	}

	return Model{
		currentView: InputView,
		looker:      opts.Looker,
		export:      opts.Export,
		appName:     name,
		input:       ti,
		spinner:     s,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) CurrentView() ViewType { return m.currentView }

func (m Model) Report() *report.Report { return m.report }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LookupResultMsg:
		m.identifier = msg.Outcome.Identifier
		if msg.Err != nil {
			m.fail(msg.Err)
			return m, nil
		}
		if msg.Outcome.NeedsChoice() {
			m.clearReport()
			m.candidates = msg.Outcome.Candidates
			m.selected = 0
			m.currentView = SelectView
			return m, nil
		}
		m.setReport(msg.Outcome.Report)

	case ReportLoadedMsg:
		if msg.Err != nil {
			m.fail(msg.Err)
			return m, nil
		}
		m.setReport(msg.Report)

	case ExportResultMsg:
		m.exporting = false
		m.exportNote = msg.Path
		m.exportErr = msg.Err

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	if m.currentView == InputView {
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.currentView {
	case InputView:
		return m.handleInputKeys(msg)
	case LoadingView:
		return m.handleLoadingKeys(msg)
	case SelectView:
		return m.handleSelectKeys(msg)
	case ReportView:
		return m.handleReportKeys(msg)
	case ResultView:
		return m.handleResultKeys(msg)
	default:
		return m, nil
	}
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		id, err := portal.Classify(m.input.Value())
		if err != nil {
			m.inputErr = err
			return m, nil
		}
		m.inputErr = nil
		cmd := m.startLookup(id)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputErr = nil
	return m, cmd
}

func (m Model) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "n":
		m.resetToInput()
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.candidates)-1 {
			m.selected++
		}
	case "enter":
		if len(m.candidates) == 0 {
			return m, nil
		}
		cmd := m.openEnrollment(m.candidates[m.selected].ID)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleReportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n", "r":
		m.resetToInput()
	case "esc":
		if len(m.candidates) > 1 {
			m.clearReport()
			m.currentView = SelectView
		} else {
			m.resetToInput()
		}
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
	case "shift+tab", "left", "h":
		m.tab = (m.tab - 1 + Tab(len(tabNames))) % Tab(len(tabNames))
	case "1", "2", "3":
		m.tab = Tab(msg.String()[0] - '1')
	case "p":
		if m.export == nil || m.report == nil || m.exporting {
			return m, nil
		}
		m.exporting = true
		m.exportNote, m.exportErr = "", nil
		rep, export := m.report, m.export
		return m, func() tea.Msg {
			path, err := export(rep)
			return ExportResultMsg{Path: path, Err: err}
		}
	case "up", "k", "down", "j":
		switch m.tab {
		case AttendanceTab:
			if n := len(m.report.Attendance); n > 0 {
				if msg.String() == "up" || msg.String() == "k" {
					m.source = (m.source - 1 + n) % n
				} else {
					m.source = (m.source + 1) % n
				}
			}
		case ExamsTab:
			var cmd tea.Cmd
			m.examTable, cmd = m.examTable.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r", "enter", "n", "esc":
		m.resetToInput()
	}
	return m, nil
}

func (m *Model) setLoadingState(reason, helpText, bottomText string) {
	m.loadingState = LoadingState{
		Reason:     reason,
		HelpText:   helpText,
		BottomText: bottomText,
	}
}

func (m *Model) startLookup(id portal.Identifier) tea.Cmd {
	m.clearReport()
	m.candidates = nil
	m.err = nil
	m.identifier = id
	m.setLoadingState(
		fmt.Sprintf("🔎 Looking up %s %s", id.Kind, id.Value),
		"Fetching enrollment, attendance and exam results from the portal",
		"• Q: Quit",
	)
	m.currentView = LoadingView

	looker, input := m.looker, m.input.Value()
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			outcome, err := looker.Lookup(context.Background(), input)
			return LookupResultMsg{Outcome: outcome, Err: err}
		},
	)
}

func (m *Model) openEnrollment(enrollmentID string) tea.Cmd {
	m.setLoadingState(
		fmt.Sprintf("📂 Opening %s", enrollmentID),
		"Fetching enrollment, attendance and exam results from the portal",
		"• Q: Quit",
	)
	m.currentView = LoadingView

	looker := m.looker
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			rep, err := looker.Open(context.Background(), enrollmentID)
			return ReportLoadedMsg{Report: rep, Err: err}
		},
	)
}

// fail drops everything from the previous lookup so no stale section is
// shown next to the error.
func (m *Model) fail(err error) {
	m.clearReport()
	m.err = err
	m.currentView = ResultView
}

func (m *Model) setReport(r *report.Report) {
	m.report = r
	m.tab = DetailsTab
	m.source = 0
	m.exportNote, m.exportErr, m.exporting = "", nil, false
	m.examTable = newExamTable(r.Exams)
	m.err = nil
	m.currentView = ReportView
}

func (m *Model) clearReport() {
	m.report = nil
	m.tab = DetailsTab
	m.source = 0
	m.exportNote, m.exportErr, m.exporting = "", nil, false
	m.examTable = table.Model{}
}

func (m *Model) resetToInput() {
	m.clearReport()
	m.candidates = nil
	m.selected = 0
	m.err = nil
	m.inputErr = nil
	m.input.SetValue("")
	m.input.Focus()
	m.currentView = InputView
}

func newExamTable(ex report.ExamReport) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Subject/Paper", Width: 24},
		{Title: "Exam Type", Width: 14},
		{Title: "Type of Test", Width: 14},
		{Title: "Total", Width: 6},
		{Title: "Obtained", Width: 8},
		{Title: "%", Width: 7},
		{Title: "Band", Width: 9},
	}

	rows := make([]table.Row, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		cells := examCells(row)
		cells[len(cells)-1] = strings.TrimSuffix(cells[len(cells)-1], "%")
		rows = append(rows, append(table.Row(cells), row.Band.String()))
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(min(max(len(rows)+1, 5), 15)),
		table.WithFocused(true),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(BLUE).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(WHITE).
		Background(BLUE).
		Bold(true)
	tbl.SetStyles(s)
	return tbl
}
