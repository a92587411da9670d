package printview

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

//go:embed report.html.tmpl
var reportTemplate string

var htmlTemplate = template.Must(template.New("report").
	Funcs(template.FuncMap{"toneClass": toneClass}).
	Parse(reportTemplate))

func toneClass(t report.Tone) string {
	switch t {
	case report.ToneAmount:
		return "amount"
	case report.ToneDiscount:
		return "discount"
	default:
		return ""
	}
}

type htmlCell struct {
	Day   int
	Month string
	Class string
	Title string
}

type htmlAttendance struct {
	Label  string
	Stats  []stat
	Rows   [][]htmlCell
	Legend []stat
	Issues int
}

type htmlExamRow struct {
	Date       string
	Subject    string
	ExamType   string
	TestType   string
	Total      string
	Obtained   string
	Percentage string
	Band       string
}

type htmlPage struct {
	Title        string
	EnrollmentID string
	Details      []report.Detail
	Attendance   []htmlAttendance
	ExamStats    []stat
	ExamRows     []htmlExamRow
	GeneratedAt  string
}

// WriteHTML renders the complete report as a standalone HTML page.
func WriteHTML(w io.Writer, r *report.Report) error {
	if err := htmlTemplate.Execute(w, buildPage(r)); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}

func buildPage(r *report.Report) htmlPage {
	page := htmlPage{
		Title:        "Student Complete Report",
		EnrollmentID: r.Enrollment.ID,
		Details:      r.Enrollment.Details(),
		GeneratedAt:  generatedAt(r),
	}

	for _, att := range r.Attendance {
		section := htmlAttendance{
			Label:  att.Label,
			Stats:  attendanceStats(att),
			Issues: len(att.Unrecognized),
		}
		for _, row := range att.Grid(GridColumns) {
			cells := make([]htmlCell, 0, len(row))
			for _, d := range row {
				title := fmt.Sprintf("%s: %s", d.Date, d.Status)
				if d.Status == report.NoRecord && d.Raw != "" {
					title = fmt.Sprintf("%s: %s", d.Date, d.Raw)
				}
				cells = append(cells, htmlCell{
					Day:   d.Date.Day(),
					Month: d.Date.MonthAbbrev(),
					Class: statusClass(d.Status),
					Title: title,
				})
			}
			section.Rows = append(section.Rows, cells)
		}
		for _, s := range att.Scheme.Statuses() {
			section.Legend = append(section.Legend, stat{Label: s.String(), Class: statusClass(s)})
		}
		section.Legend = append(section.Legend, stat{Label: report.NoRecord.String(), Class: "empty"})
		page.Attendance = append(page.Attendance, section)
	}

	if !r.Exams.Empty() {
		page.ExamStats = examStats(r.Exams)
		for _, row := range r.Exams.Rows {
			page.ExamRows = append(page.ExamRows, htmlExamRow{
				Date:       displayDate(row.Key),
				Subject:    orDash(row.Subject),
				ExamType:   orDash(row.ExamType),
				TestType:   orDash(row.TestType),
				Total:      fmt.Sprint(row.TotalMarks),
				Obtained:   fmt.Sprint(row.ObtainedMarks),
				Percentage: fmt.Sprintf("%.2f%%", row.Percentage),
				Band:       row.Band.String(),
			})
		}
	}
	return page
}
