package portal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

type fakeSource struct {
	calls      []string
	lookupIDs  []string
	enrollment map[string]report.Enrollment
	byStudent  []report.Enrollment
	attendance []report.AttendanceSource
	exams      []report.ExamResult

	enrollmentErr error
	searchErr     error
	attendanceErr error
	examsErr      error
}

func (f *fakeSource) record(ctx context.Context, call string) {
	f.calls = append(f.calls, call)
	f.lookupIDs = append(f.lookupIDs, LookupIDFrom(ctx))
}

func (f *fakeSource) Enrollment(ctx context.Context, enrollmentID string) (report.Enrollment, error) {
	f.record(ctx, "enrollment:"+enrollmentID)
	if f.enrollmentErr != nil {
		return report.Enrollment{}, f.enrollmentErr
	}
	enr, ok := f.enrollment[enrollmentID]
	if !ok {
		return report.Enrollment{}, &LookupError{Code: ErrNotFound, Kind: KeyEnrollment, Op: "enrollment", Err: ErrStudentNotFound}
	}
	return enr, nil
}

func (f *fakeSource) EnrollmentsByStudent(ctx context.Context, id Identifier) ([]report.Enrollment, error) {
	f.record(ctx, "search:"+id.Value)
	return f.byStudent, f.searchErr
}

func (f *fakeSource) Attendance(ctx context.Context, studentID string) ([]report.AttendanceSource, error) {
	f.record(ctx, "attendance:"+studentID)
	return f.attendance, f.attendanceErr
}

func (f *fakeSource) ExamResults(ctx context.Context, enrollmentID string) ([]report.ExamResult, error) {
	f.record(ctx, "exams:"+enrollmentID)
	return f.exams, f.examsErr
}

func newTestSession(src DataSource) *Session {
	return NewSession(src, SessionOptions{
		Now:    func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.Local) },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func testSource() *fakeSource {
	return &fakeSource{
		enrollment: map[string]report.Enrollment{
			"ENR-001": {ID: "ENR-001", StudentID: "S-001", StudentName: "Asha Verma"},
			"ENR-002": {ID: "ENR-002", StudentID: "S-001", StudentName: "Asha Verma", Dropped: true},
		},
		attendance: []report.AttendanceSource{{
			Label:   "Daily Summary",
			Scheme:  report.SchemeLocation,
			Records: report.DailyRecordMap{"2024-03-15": "At Batch", "2024-03-14": "On Leave"},
		}},
		exams: []report.ExamResult{
			{Date: "2024-03-10", Subject: "Physics", TotalMarks: 100, ObtainedMarks: 80},
			{Date: "2023-10-01", Subject: "Chemistry", TotalMarks: 100, ObtainedMarks: 20},
		},
	}
}

func TestSession_LookupEnrollment(t *testing.T) {
	src := testSource()
	out, err := newTestSession(src).Lookup(context.Background(), " ENR-001 ")
	require.NoError(t, err)
	require.NotNil(t, out.Report)
	assert.False(t, out.NeedsChoice())

	assert.Equal(t, []string{"enrollment:ENR-001", "attendance:S-001", "exams:ENR-001"}, src.calls)
	require.NotEmpty(t, src.lookupIDs[0])
	for _, id := range src.lookupIDs {
		assert.Equal(t, src.lookupIDs[0], id)
	}
	assert.Equal(t, src.lookupIDs[0], out.Report.LookupID)

	rep := out.Report
	assert.Equal(t, "Asha Verma", rep.Enrollment.StudentName)
	assert.Len(t, rep.Window, report.DefaultWindowDays)
	require.Len(t, rep.Attendance, 1)
	assert.Equal(t, 1, rep.Attendance[0].Count(report.AtBatch))
	assert.Equal(t, []report.DateKey{"2024-03-14"}, rep.Attendance[0].Unrecognized)
	require.Len(t, rep.Exams.Rows, 1)
	assert.Equal(t, "Physics", rep.Exams.Rows[0].Subject)
}

func TestSession_LookupByStudent(t *testing.T) {
	t.Run("Success: single match opens it", func(t *testing.T) {
		src := testSource()
		src.byStudent = []report.Enrollment{{ID: "ENR-002", StudentID: "S-001"}}

		out, err := newTestSession(src).Lookup(context.Background(), "9876543210")
		require.NoError(t, err)
		require.NotNil(t, out.Report)
		assert.Equal(t, KeyPhone, out.Identifier.Kind)
		assert.Equal(t, []string{"search:9876543210", "enrollment:ENR-002", "attendance:S-001", "exams:ENR-002"}, src.calls)
		assert.Equal(t, report.StateDropped, out.Report.Enrollment.State())
	})

	t.Run("Success: several matches need a choice", func(t *testing.T) {
		src := testSource()
		src.byStudent = []report.Enrollment{{ID: "ENR-002"}, {ID: "ENR-001"}, {ID: "ENR-003"}}

		out, err := newTestSession(src).Lookup(context.Background(), "S-001")
		require.NoError(t, err)
		assert.True(t, out.NeedsChoice())
		assert.Nil(t, out.Report)
		require.Len(t, out.Candidates, 3)
		assert.Equal(t, "ENR-002", out.Candidates[0].ID)
		assert.Equal(t, "ENR-003", out.Candidates[2].ID)
		assert.Equal(t, []string{"search:S-001"}, src.calls)
	})

	t.Run("Error: no matches", func(t *testing.T) {
		for _, input := range []string{"S-404", "9999999999"} {
			src := testSource()
			_, err := newTestSession(src).Lookup(context.Background(), input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoEnrollments))
			assert.Equal(t, ErrNotFound, CodeOf(err))
		}

		_, err := newTestSession(testSource()).Lookup(context.Background(), "S-404")
		assert.Equal(t, "No enrollments found for this Student ID", Message(err))
		_, err = newTestSession(testSource()).Lookup(context.Background(), "9999999999")
		assert.Equal(t, "No enrollments found for this Phone Number", Message(err))
	})

	t.Run("Error: search failure", func(t *testing.T) {
		src := testSource()
		src.searchErr = &LookupError{Code: ErrNetworkIssue, Op: "enrollments-by-student", Err: errors.New("timeout")}

		_, err := newTestSession(src).Lookup(context.Background(), "S-001")
		require.Error(t, err)
		assert.Equal(t, "Internal Server Error", Message(err))
	})
}

func TestSession_InvalidInputMakesNoCalls(t *testing.T) {
	for _, input := range []string{"", "  ", "12345", "hello"} {
		src := testSource()
		_, err := newTestSession(src).Lookup(context.Background(), input)
		require.Error(t, err, input)
		assert.Equal(t, ErrInvalidInput, CodeOf(err), input)
		assert.Empty(t, src.calls, input)
	}
}

func TestSession_ChainAbortsOnFailure(t *testing.T) {
	t.Run("Error: enrollment not found", func(t *testing.T) {
		src := testSource()
		_, err := newTestSession(src).Lookup(context.Background(), "ENR-404")
		require.Error(t, err)
		assert.Equal(t, "Student not found", Message(err))
		assert.Equal(t, []string{"enrollment:ENR-404"}, src.calls)
	})

	t.Run("Error: attendance fails", func(t *testing.T) {
		src := testSource()
		src.attendanceErr = &LookupError{Code: ErrNetworkIssue, Op: "attendance", Err: errors.New("502")}

		out, err := newTestSession(src).Lookup(context.Background(), "ENR-001")
		require.Error(t, err)
		assert.Nil(t, out.Report)
		assert.Equal(t, []string{"enrollment:ENR-001", "attendance:S-001"}, src.calls)
	})

	t.Run("Error: exam results fail", func(t *testing.T) {
		src := testSource()
		src.examsErr = &LookupError{Code: ErrParsingError, Op: "result", Err: errors.New("bad json")}

		out, err := newTestSession(src).Lookup(context.Background(), "ENR-001")
		require.Error(t, err)
		assert.Nil(t, out.Report)
		assert.Equal(t, "Error fetching data", Message(err))
	})

	t.Run("Error: enrollment without a student id", func(t *testing.T) {
		src := testSource()
		src.enrollment["ENR-009"] = report.Enrollment{ID: "ENR-009"}

		_, err := newTestSession(src).Lookup(context.Background(), "ENR-009")
		require.Error(t, err)
		assert.Equal(t, ErrParsingError, CodeOf(err))
		assert.Equal(t, []string{"enrollment:ENR-009"}, src.calls)
	})
}

func TestSession_Open(t *testing.T) {
	src := testSource()
	s := newTestSession(src)

	rep, err := s.Open(context.Background(), "ENR-002")
	require.NoError(t, err)
	assert.Equal(t, "ENR-002", rep.Enrollment.ID)

	_, err = s.Open(context.Background(), " ")
	require.Error(t, err)
	assert.Equal(t, ErrInvalidInput, CodeOf(err))
}
