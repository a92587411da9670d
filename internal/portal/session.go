package portal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

// DataSource is the portal API as seen by a Session.
type DataSource interface {
	Enrollment(ctx context.Context, enrollmentID string) (report.Enrollment, error)
	EnrollmentsByStudent(ctx context.Context, id Identifier) ([]report.Enrollment, error)
	Attendance(ctx context.Context, studentID string) ([]report.AttendanceSource, error)
	ExamResults(ctx context.Context, enrollmentID string) ([]report.ExamResult, error)
}

type lookupIDKey struct{}

func WithLookupID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, lookupIDKey{}, id)
}

func LookupIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(lookupIDKey{}).(string)
	return id
}

// Outcome is either a finished report or, when a student id or phone number
// matches several enrollments, the candidates to choose from.
type Outcome struct {
	Identifier Identifier
	Report     *report.Report
	Candidates []report.Enrollment
}

func (o Outcome) NeedsChoice() bool {
	return o.Report == nil && len(o.Candidates) > 0
}

type SessionOptions struct {
	WindowDays int
	ExamMonths int
	Now        func() time.Time
	Logger     *slog.Logger
}

// Session runs lookups one at a time. It keeps no record of the previous
// lookup; every call starts from scratch.
type Session struct {
	source     DataSource
	windowDays int
	examMonths int
	now        func() time.Time
	log        *slog.Logger
}

func NewSession(source DataSource, opts SessionOptions) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Session{
		source:     source,
		windowDays: opts.WindowDays,
		examMonths: opts.ExamMonths,
		now:        opts.Now,
		log:        opts.Logger,
	}
}

// Lookup classifies the input and runs the matching chain. Invalid input is
// rejected before any request is made.
func (s *Session) Lookup(ctx context.Context, input string) (Outcome, error) {
	id, err := Classify(input)
	if err != nil {
		return Outcome{}, err
	}

	lookupID := uuid.NewString()
	ctx = WithLookupID(ctx, lookupID)
	log := s.log.With("lookup_id", lookupID, "kind", id.Kind.String())
	log.Info("lookup started")

	if id.Kind == KeyEnrollment {
		rep, err := s.open(ctx, log, lookupID, id.Value)
		if err != nil {
			return Outcome{Identifier: id}, err
		}
		return Outcome{Identifier: id, Report: rep}, nil
	}

	records, err := s.source.EnrollmentsByStudent(ctx, id)
	if err != nil {
		log.Warn("enrollment search failed", "error", err)
		return Outcome{Identifier: id}, err
	}

	res := report.Disambiguate(records)
	switch res.Outcome {
	case report.Resolved:
		rep, err := s.open(ctx, log, lookupID, res.Resolved.ID)
		if err != nil {
			return Outcome{Identifier: id}, err
		}
		return Outcome{Identifier: id, Report: rep}, nil
	case report.Ambiguous:
		log.Info("lookup needs a choice", "candidates", len(res.Candidates))
		return Outcome{Identifier: id, Candidates: res.Candidates}, nil
	default:
		log.Info("no enrollments found")
		return Outcome{Identifier: id}, &LookupError{Code: ErrNotFound, Kind: id.Kind, Op: "enrollments-by-student", Err: ErrNoEnrollments}
	}
}

// Open builds the full report for one enrollment id, typically one the user
// picked from Outcome.Candidates.
func (s *Session) Open(ctx context.Context, enrollmentID string) (*report.Report, error) {
	enrollmentID = strings.TrimSpace(enrollmentID)
	if enrollmentID == "" {
		return nil, &LookupError{Code: ErrInvalidInput, Op: "open", Err: fmt.Errorf("please enter Enrollment ID")}
	}
	lookupID := uuid.NewString()
	ctx = WithLookupID(ctx, lookupID)
	return s.open(ctx, s.log.With("lookup_id", lookupID, "kind", KeyEnrollment.String()), lookupID, enrollmentID)
}

// open runs enrollment -> attendance -> exam results. The first failure
// aborts the rest and nothing partial is returned.
func (s *Session) open(ctx context.Context, log *slog.Logger, lookupID, enrollmentID string) (*report.Report, error) {
	start := time.Now()

	enr, err := s.source.Enrollment(ctx, enrollmentID)
	if err != nil {
		log.Warn("enrollment fetch failed", "enrollment", enrollmentID, "error", err)
		return nil, err
	}
	if enr.StudentID == "" {
		err := &LookupError{Code: ErrParsingError, Op: "enrollment", Err: fmt.Errorf("enrollment %s has no student id", enr.ID)}
		log.Warn("enrollment fetch failed", "enrollment", enrollmentID, "error", err)
		return nil, err
	}

	attendance, err := s.source.Attendance(ctx, enr.StudentID)
	if err != nil {
		log.Warn("attendance fetch failed", "student", enr.StudentID, "error", err)
		return nil, err
	}

	exams, err := s.source.ExamResults(ctx, enrollmentID)
	if err != nil {
		log.Warn("exam results fetch failed", "enrollment", enrollmentID, "error", err)
		return nil, err
	}

	rep := report.Build(report.BuildInput{
		LookupID:   lookupID,
		Enrollment: enr,
		Attendance: attendance,
		Exams:      exams,
		Today:      s.now(),
		WindowDays: s.windowDays,
		ExamMonths: s.examMonths,
	})

	for _, att := range rep.Attendance {
		if len(att.Unrecognized) > 0 {
			log.Warn("unrecognized attendance statuses", "source", att.Label, "dates", len(att.Unrecognized))
		}
	}
	log.Info("lookup finished",
		"enrollment", enr.ID,
		"attendance_sources", len(rep.Attendance),
		"exam_rows", len(rep.Exams.Rows),
		"duration", time.Since(start),
	)
	return &rep, nil
}
