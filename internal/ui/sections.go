package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

// HeatmapColumns is the number of days per heatmap row.
const HeatmapColumns = 15

const detailColumns = 3

func currency(d report.Detail) string {
	if d.Currency {
		return "₹ " + d.Value
	}
	return d.Value
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// RenderDetails draws the enrollment as a grid of labelled cards.
func RenderDetails(enr report.Enrollment) string {
	details := enr.Details()

	var rows []string
	for start := 0; start < len(details); start += detailColumns {
		var cards []string
		for _, d := range details[start:min(start+detailColumns, len(details))] {
			value := lipgloss.NewStyle().Foreground(toneColor(d.Tone)).Bold(d.Tone != report.TonePlain)
			if d.Label == "Status" {
				value = value.Foreground(stateColor(enr.State())).Bold(true)
			}
			cards = append(cards, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
				labelStyle.Render(d.Label),
				value.Render(orDash(currency(d))),
			)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	if enr.State() == report.StateDropped && enr.DropoutReason != "" {
		rows = append(rows, lipgloss.NewStyle().Foreground(RED).MarginTop(1).
			Render("Dropout reason: "+enr.DropoutReason))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderAttendanceStats(att report.AttendanceReport) string {
	plain := lipgloss.NewStyle().Foreground(WHITE)
	parts := []string{
		plain.Render("Recorded Days: ") + lipgloss.NewStyle().Foreground(TURQUOISE).Render(fmt.Sprint(att.RecordedDays)),
	}
	for _, s := range att.Scheme.Statuses() {
		parts = append(parts, plain.Render(s.String()+": ")+
			lipgloss.NewStyle().Foreground(statusColor(s)).Bold(true).Render(fmt.Sprint(att.Count(s))))
	}
	if att.HasRate() {
		color := GREEN
		switch {
		case att.Rate < 60:
			color = RED
		case att.Rate < 75:
			color = YELLOW
		}
		parts = append(parts, plain.Render("Attendance: ")+
			lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%.1f%%", att.Rate)))
	}
	return strings.Join(parts, " | ")
}

func renderHeatmap(att report.AttendanceReport) string {
	cell := lipgloss.NewStyle().Width(4).Align(lipgloss.Center)

	var rows []string
	for _, row := range att.Grid(HeatmapColumns) {
		var cells []string
		for _, d := range row {
			style := cell.Background(statusColor(d.Status)).Foreground(WHITE)
			if d.Status == report.NoRecord {
				style = style.Foreground(GREY)
			}
			cells = append(cells, style.Render(fmt.Sprint(d.Date.Day())))
		}
		rows = append(rows, strings.Join(cells, " "))
	}

	if len(att.Days) > 0 {
		first, last := att.Days[0].Date, att.Days[len(att.Days)-1].Date
		rows = append([]string{lipgloss.NewStyle().Foreground(GREY).
			Render(fmt.Sprintf("%d %s → %d %s", first.Day(), first.MonthAbbrev(), last.Day(), last.MonthAbbrev()))}, rows...)
	}
	return strings.Join(rows, "\n")
}

func renderLegend(scheme report.Scheme) string {
	var items []string
	for _, s := range append(scheme.Statuses(), report.NoRecord) {
		box := lipgloss.NewStyle().Background(statusColor(s)).Render("  ")
		items = append(items, box+" "+lipgloss.NewStyle().Foreground(WHITE).Render(s.String()))
	}
	return strings.Join(items, "   ")
}

// RenderAttendance draws one attendance source: stats, heatmap and legend.
func RenderAttendance(att report.AttendanceReport) string {
	parts := []string{
		lipgloss.NewStyle().Bold(true).Foreground(LAVENDER).Render(att.Label),
		renderAttendanceStats(att),
		"",
		renderHeatmap(att),
		"",
		renderLegend(att.Scheme),
	}
	if n := len(att.Unrecognized); n > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(YELLOW).MarginTop(1).
			Render(fmt.Sprintf("⚠ %d day(s) carry an unrecognised status and are shown as No Record", n)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderExamStats(ex report.ExamReport) string {
	plain := lipgloss.NewStyle().Foreground(WHITE)
	return fmt.Sprintf("%s %s | %s %s | %s %s",
		plain.Render("Total Exams:"),
		lipgloss.NewStyle().Foreground(TURQUOISE).Render(fmt.Sprint(len(ex.Rows))),
		plain.Render("Daily Test Average:"),
		lipgloss.NewStyle().Foreground(bandColor(report.BandFor(ex.DailyTestAverage))).Render(fmt.Sprintf("%.2f%%", ex.DailyTestAverage)),
		plain.Render("Overall:"),
		lipgloss.NewStyle().Foreground(bandColor(report.BandFor(ex.Percentage))).Bold(true).Render(fmt.Sprintf("%.2f%%", ex.Percentage)),
	)
}

// renderScoreBubbles shows the latest n scores as coloured pills.
func renderScoreBubbles(ex report.ExamReport, n int) string {
	var bubbles []string
	for _, row := range ex.Rows[:min(n, len(ex.Rows))] {
		bubbles = append(bubbles, lipgloss.NewStyle().
			Background(bandColor(row.Band)).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1).
			Render(fmt.Sprintf("%.0f%%", row.Percentage)))
	}
	return strings.Join(bubbles, " ")
}

func examCells(row report.ExamRow) []string {
	return []string{
		string(row.Key),
		orDash(row.Subject),
		orDash(row.ExamType),
		orDash(row.TestType),
		fmt.Sprint(row.TotalMarks),
		fmt.Sprint(row.ObtainedMarks),
		fmt.Sprintf("%.2f%%", row.Percentage),
	}
}

var examHeaders = []string{"Date", "Subject/Paper", "Exam Type", "Type of Test", "Total", "Obtained", "Percentage"}

// RenderExams draws the exam stats and a static table with band colours.
func RenderExams(ex report.ExamReport) string {
	if ex.Empty() {
		return lipgloss.NewStyle().Foreground(GREY).Render("📝 No exam results found")
	}

	rows := make([][]string, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		rows = append(rows, examCells(row))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BLUE)).
		Headers(examHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Bold(true).Foreground(LIGHT_BLUE)
			case col == len(examHeaders)-1 && row < len(ex.Rows):
				return style.Bold(true).Foreground(bandColor(ex.Rows[row].Band))
			default:
				return style.Foreground(WHITE)
			}
		})

	return lipgloss.JoinVertical(lipgloss.Left, renderExamStats(ex), t.String())
}

// RenderCandidates lists the enrollments a secondary key matched. selected
// is highlighted; pass -1 for none.
func RenderCandidates(candidates []report.Enrollment, selected int) string {
	dim := lipgloss.NewStyle().Foreground(GREY)

	var lines []string
	for i, enr := range candidates {
		cursor := "  "
		name := lipgloss.NewStyle().Bold(true).Foreground(WHITE)
		if i == selected {
			cursor = lipgloss.NewStyle().Foreground(LIGHT_BLUE).Render("▶ ")
			name = name.Foreground(LIGHT_BLUE)
		}

		lines = append(lines, cursor+name.Render(naOr(enr.StudentName))+dim.Render("  ID: "+naOr(enr.StudentID)))

		line := "    " + enr.ID
		if badge := stateBadge(enr.State()); badge != "" {
			line += " " + badge
		}
		line += "  " + naOr(enr.Program)
		if !enr.Created.IsZero() {
			line += dim.Render("  Created: " + enr.Created.Format("02 Jan 2006"))
		}
		lines = append(lines, line)

		if enr.Dropped {
			reason := enr.DropoutReason
			if reason == "" {
				reason = "Not specified"
			}
			lines = append(lines, dim.PaddingLeft(4).Render("Reason: "+reason))
		}
	}
	return strings.Join(lines, "\n")
}

func naOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func stateBadge(s report.EnrollmentState) string {
	if s == report.StateActive {
		return ""
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(WHITE).
		Background(stateColor(s)).
		Padding(0, 1).
		Render(strings.ToUpper(s.String()))
}

// RenderReport is the whole report as one block of styled text.
func RenderReport(r *report.Report) string {
	parts := []string{
		titleStyle.Render(fmt.Sprintf("🎓 %s (%s)", orDash(r.Enrollment.StudentName), r.Enrollment.ID)),
		sectionStyle.Render("Student Details"),
		RenderDetails(r.Enrollment),
		"",
		sectionStyle.Render("Attendance Summary"),
	}
	if len(r.Attendance) == 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(GREY).Render("📝 No attendance data available"))
	}
	for _, att := range r.Attendance {
		parts = append(parts, RenderAttendance(att), "")
	}
	parts = append(parts, "", sectionStyle.Render("Exam Results"), RenderExams(r.Exams))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
