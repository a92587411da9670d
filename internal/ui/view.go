package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/feelsunbreeze/student_portal_tui/internal/portal"
)

func (m Model) View() string {
	switch m.currentView {
	case InputView:
		return m.renderInput()
	case LoadingView:
		return m.renderLoading()
	case SelectView:
		return m.renderSelect()
	case ReportView:
		return m.renderReport()
	case ResultView:
		return m.renderResult()
	default:
		return "Unknown view"
	}
}

func (m Model) place(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderInput() string {
	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BLUE).
		Padding(0, 1).
		Width(38).
		MarginBottom(1)

	title := titleStyle.MarginBottom(2).Render(fmt.Sprintf("🎓 %s", m.appName))
	label := lipgloss.NewStyle().Bold(true).Foreground(WHITE).
		Render("Enrollment ID, Student ID or Phone Number:")

	parts := []string{title, label, inputStyle.Render(m.input.View())}
	if m.inputErr != nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(RED).Render("❌ "+portal.Message(m.inputErr)))
	}
	parts = append(parts, helpStyle.Render("• Enter: Look up • Esc/Ctrl+C: Quit"))

	return m.place(lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (m Model) renderLoading() string {
	reasonStyle := lipgloss.NewStyle().
		Foreground(WHITE).
		Bold(true).
		MarginBottom(1)

	content := lipgloss.JoinVertical(lipgloss.Center,
		reasonStyle.Render(m.loadingState.Reason),
		m.spinner.View(),
		helpStyle.Render(m.loadingState.HelpText),
		helpStyle.Render(m.loadingState.BottomText),
	)
	return m.place(content)
}

func (m Model) renderSelect() string {
	title := titleStyle.Render(fmt.Sprintf("📋 %d enrollments found for %s %s",
		len(m.candidates), m.identifier.Kind, m.identifier.Value))

	list := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BLUE).
		Padding(1, 2).
		Render(RenderCandidates(m.candidates, m.selected))

	help := helpStyle.Render("• ↑/↓: Navigate • Enter: Open • Esc: New lookup • Q: Quit")
	return m.place(lipgloss.JoinVertical(lipgloss.Center, title, list, help))
}

func (m Model) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(WHITE).Background(BLUE).Padding(0, 2)
	inactive := lipgloss.NewStyle().Foreground(GREY).Padding(0, 2)

	var tabs []string
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == m.tab {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderReport() string {
	r := m.report
	if r == nil {
		return m.renderResult()
	}

	name := r.Enrollment.StudentName
	if name == "" {
		name = r.Enrollment.ID
	}
	header := titleStyle.Render(fmt.Sprintf("🎓 %s • %s", name, r.Enrollment.ID))

	var body, help string
	switch m.tab {
	case AttendanceTab:
		help = "• ←/→: Switch tab • ↑/↓: Switch schedule • P: Export • N: New lookup • Q: Quit"
		if len(r.Attendance) == 0 {
			body = lipgloss.NewStyle().Foreground(GREY).MarginTop(1).Render("📝 No attendance data available")
			break
		}
		src := min(m.source, len(r.Attendance)-1)
		nav := lipgloss.NewStyle().Foreground(GREY).
			Render(fmt.Sprintf("Schedule %d of %d", src+1, len(r.Attendance)))
		body = lipgloss.JoinVertical(lipgloss.Left, nav, "", RenderAttendance(r.Attendance[src]))
	case ExamsTab:
		help = "• ←/→: Switch tab • ↑/↓: Scroll • P: Export • N: New lookup • Q: Quit"
		if r.Exams.Empty() {
			body = lipgloss.NewStyle().Foreground(GREY).MarginTop(1).Render("📝 No exam results found")
			break
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			renderExamStats(r.Exams),
			"",
			renderScoreBubbles(r.Exams, 12),
			"",
			m.examTable.View(),
		)
	default:
		help = "• ←/→: Switch tab • P: Export • N: New lookup • Q: Quit"
		body = RenderDetails(r.Enrollment)
	}

	parts := []string{header, m.renderTabs(), "", body}
	switch {
	case m.exporting:
		parts = append(parts, helpStyle.Render("🖨  Writing print view..."))
	case m.exportErr != nil:
		parts = append(parts, lipgloss.NewStyle().Foreground(RED).MarginTop(1).Render("❌ Export failed: "+m.exportErr.Error()))
	case m.exportNote != "":
		parts = append(parts, lipgloss.NewStyle().Foreground(GREEN).MarginTop(1).Render("✅ Saved "+m.exportNote))
	}
	parts = append(parts, helpStyle.Render(help))

	return m.place(lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (m Model) renderResult() string {
	var statusText string
	switch portal.CodeOf(m.err) {
	case portal.ErrNone:
		statusText = "❓ Nothing to show"
	case portal.ErrInvalidInput:
		statusText = "✏️  " + portal.Message(m.err)
	case portal.ErrNetworkIssue:
		statusText = "🌐 " + portal.Message(m.err)
	case portal.ErrNotFound:
		statusText = "🔍 " + portal.Message(m.err)
	default:
		statusText = "❓ " + portal.Message(m.err)
	}

	responseStyle := lipgloss.NewStyle().Foreground(RED).Bold(true)
	help := helpStyle.Render("• R/Enter: Try again • Q: Quit")

	return m.place(lipgloss.JoinVertical(lipgloss.Center,
		responseStyle.Render(strings.TrimSpace(statusText)),
		help,
	))
}
