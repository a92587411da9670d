// Package printview renders a report as a printable document, either an
// HTML page or a PDF.
package printview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

const (
	FormatHTML = "html"
	FormatPDF  = "pdf"

	// GridColumns is the width of the printed attendance heatmap.
	GridColumns = 15
)

var ErrUnknownFormat = errors.New("unknown print format")

// FileName is the export name for an enrollment.
func FileName(enrollmentID, format string) string {
	id := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, enrollmentID)
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("student-report-%s.%s", id, format)
}

// Export writes the report into dir and returns the path of the file.
func Export(r *report.Report, dir, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != FormatHTML && format != FormatPDF {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(r.Enrollment.ID, format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if format == FormatPDF {
		err = WritePDF(f, r)
	} else {
		err = WriteHTML(f, r)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// statusClass is the CSS class, and PDF colour key, of a heatmap cell.
func statusClass(s report.Status) string {
	switch s {
	case report.Present:
		return "present"
	case report.Absent:
		return "absent"
	case report.AtBatch:
		return "at-batch"
	case report.AtHostel:
		return "at-hostel"
	case report.AtHome:
		return "at-home"
	default:
		return "empty"
	}
}

type stat struct {
	Label string
	Value string
	Class string
}

// attendanceStats are the figures shown above a heatmap.
func attendanceStats(att report.AttendanceReport) []stat {
	stats := []stat{{Label: "Recorded Days", Value: fmt.Sprint(att.RecordedDays)}}
	for _, s := range att.Scheme.Statuses() {
		stats = append(stats, stat{Label: s.String(), Value: fmt.Sprint(att.Count(s)), Class: statusClass(s) + "-count"})
	}
	if att.HasRate() {
		stats = append(stats, stat{Label: "Attendance Rate", Value: fmt.Sprintf("%.1f%%", att.Rate)})
	}
	return stats
}

func examStats(ex report.ExamReport) []stat {
	return []stat{
		{Label: "Total Exams", Value: fmt.Sprint(len(ex.Rows))},
		{Label: "Daily Test Average", Value: fmt.Sprintf("%.2f%%", ex.DailyTestAverage)},
		{Label: "Overall Percentage", Value: fmt.Sprintf("%.2f%%", ex.Percentage)},
	}
}

// displayDate formats a key the way the portal prints dates, day first.
func displayDate(k report.DateKey) string {
	t, err := k.Time()
	if err != nil {
		return string(k)
	}
	return t.Format("2/1/2006")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func generatedAt(r *report.Report) string {
	t := r.GeneratedAt
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("January 02, 2006 at 3:04 PM")
}
