// Package report turns raw enrollment, attendance and exam records into the
// figures shown to the user: a fixed day-by-day attendance window with counts,
// banded exam rows with percentages, and the enrollment display state.
// Everything here is pure and recomputed on every lookup.
package report

import "time"

// DefaultWindowDays is the length of the attendance heatmap.
const DefaultWindowDays = 90

type BuildInput struct {
	LookupID   string
	Enrollment Enrollment
	Attendance []AttendanceSource
	Exams      []ExamResult
	Today      time.Time
	WindowDays int
	ExamMonths int
}

type Report struct {
	LookupID    string
	Enrollment  Enrollment
	Window      []DateKey
	Attendance  []AttendanceReport
	Exams       ExamReport
	GeneratedAt time.Time
}

func Build(in BuildInput) Report {
	if in.WindowDays <= 0 {
		in.WindowDays = DefaultWindowDays
	}
	if in.ExamMonths <= 0 {
		in.ExamMonths = DefaultExamMonths
	}

	window := Window(in.WindowDays, in.Today)
	attendance := make([]AttendanceReport, 0, len(in.Attendance))
	for _, src := range in.Attendance {
		attendance = append(attendance, SummarizeAttendance(src, window))
	}

	return Report{
		LookupID:    in.LookupID,
		Enrollment:  in.Enrollment,
		Window:      window,
		Attendance:  attendance,
		Exams:       SummarizeExams(in.Exams, in.Today, in.ExamMonths),
		GeneratedAt: in.Today,
	}
}
