package portal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

type fakePortal struct {
	mu       sync.Mutex
	requests []*http.Request
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
}

func (p *fakePortal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.requests = append(p.requests, r.Clone(context.Background()))
	p.mu.Unlock()

	route, ok := p.routes[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	route(w, r)
}

func jsonBody(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func newTestClient(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) (*Client, *fakePortal) {
	t.Helper()
	portal := &fakePortal{routes: routes}
	srv := httptest.NewServer(portal)
	t.Cleanup(srv.Close)

	client := NewClient(Options{
		BaseURL:   srv.URL + "/",
		UserAgent: "student-portal-test",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return client, portal
}

func TestClient_Enrollment(t *testing.T) {
	t.Run("Success: decodes the record", func(t *testing.T) {
		client, portal := newTestClient(t, map[string]func(http.ResponseWriter, *http.Request){
			ENROLLMENT_PATH: jsonBody(`{"name":"ENR-001","student":"S-001","student_name":"Asha Verma","program":"NEET 2025","new_offered_amount":98000}`),
		})

		ctx := WithLookupID(context.Background(), "lookup-1")
		enr, err := client.Enrollment(ctx, "ENR-001")
		require.NoError(t, err)
		assert.Equal(t, "ENR-001", enr.ID)
		assert.Equal(t, "S-001", enr.StudentID)
		assert.Equal(t, "Asha Verma", enr.StudentName)
		assert.Equal(t, 98000.0, enr.FinalAmount)

		require.Len(t, portal.requests, 1)
		req := portal.requests[0]
		assert.Equal(t, "ENR-001", req.URL.Query().Get("enrollment"))
		assert.Equal(t, "lookup-1", req.Header.Get("X-Request-ID"))
		assert.Equal(t, "student-portal-test", req.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
	})

	t.Run("Error: error member means not found", func(t *testing.T) {
		client, _ := newTestClient(t, map[string]func(http.ResponseWriter, *http.Request){
			ENROLLMENT_PATH: jsonBody(`{"error":"Enrollment not found"}`),
		})

		_, err := client.Enrollment(context.Background(), "ENR-404")
		require.Error(t, err)
		assert.Equal(t, ErrNotFound, CodeOf(err))
		assert.True(t, errors.Is(err, ErrStudentNotFound))
		assert.Equal(t, "Student not found", Message(err))
	})

	t.Run("Error: non-200 is a network issue", func(t *testing.T) {
		client, _ := newTestClient(t, map[string]func(http.ResponseWriter, *http.Request){
			ENROLLMENT_PATH: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, `<html><head><title>502 Bad Gateway</title></head><body><h1>oops</h1></body></html>`)
			},
		})

		_, err := client.Enrollment(context.Background(), "ENR-001")
		require.Error(t, err)
		assert.Equal(t, ErrNetworkIssue, CodeOf(err))
		assert.Contains(t, err.Error(), "502 Bad Gateway")
		assert.Equal(t, "Internal Server Error", Message(err))
	})

	t.Run("Error: malformed body", func(t *testing.T) {
		client, _ := newTestClient(t, map[string]func(http.ResponseWriter, *http.Request){
			ENROLLMENT_PATH: jsonBody(`{"name": 12`),
		})

		_, err := client.Enrollment(context.Background(), "ENR-001")
		require.Error(t, err)
		assert.Equal(t, ErrParsingError, CodeOf(err))
	})

	t.Run("Error: unreachable portal", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		client := NewClient(Options{BaseURL: base, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
		_, err := client.Enrollment(context.Background(), "ENR-001")
		require.Error(t, err)
		assert.Equal(t, ErrNetworkIssue, CodeOf(err))
	})
}

func TestClient_EnrollmentsByStudent(t *testing.T) {
	t.Run("Success: phone uses the phone parameter and keeps order", func(t *testing.T) {
		client, portal := newTestClient(t, map[string]func(http.ResponseWriter, *http.Request){
			ENROLLMENTS_BY_STUDENT_PATH: jsonBody(`[{"name":"ENR-002","student":"S-1"},{"name":"ENR-001","student":"S-1","is_dropped":1}]`),
		})

		records, err := client.EnrollmentsByStudent(context.Background(), Identifier{Kind: KeyPhone, Value: "9876543210"})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "ENR-002", records[0].ID)
		assert.Equal(t, report.StateDropped, records[1].State())

		q := portal.requests[0].URL.Query()
		assert.Equal(t, "9876543210", q.Get("phone"))
		assert.Empty(t, q.Get("student_id"))
	})

	t.Run("Success: student id uses the student_id parameter", func(t *testing.T) {
		client, portal := newTestClient(t, map[string]func(http.ResponseWriter, *http.Request){
			ENROLLMENTS_BY_STUDENT_PATH: jsonBody(`[]`),
		})

		records, err := client.EnrollmentsByStudent(context.Background(), Identifier{Kind: KeyStudentID, Value: "S-1"})
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.Equal(t, "S-1", portal.requests[0].URL.Query().Get("student_id"))
	})

	t.Run("Edge: error object and null mean no matches", func(t *testing.T) {
		for _, body := range []string{`{"error":"none"}`, `null`} {
			client, _ := newTestClient(t, map[string]func(http.ResponseWriter, *http.Request){
				ENROLLMENTS_BY_STUDENT_PATH: jsonBody(body),
			})
			records, err := client.EnrollmentsByStudent(context.Background(), Identifier{Kind: KeyStudentID, Value: "S-1"})
			require.NoError(t, err, body)
			assert.Empty(t, records, body)
		}
	})

	t.Run("Error: enrollment ids are not searchable", func(t *testing.T) {
		client, portal := newTestClient(t, nil)
		_, err := client.EnrollmentsByStudent(context.Background(), Identifier{Kind: KeyEnrollment, Value: "ENR-1"})
		require.Error(t, err)
		assert.Equal(t, ErrInvalidInput, CodeOf(err))
		assert.Empty(t, portal.requests)
	})
}

func TestClient_AttendanceAndResults(t *testing.T) {
	client, portal := newTestClient(t, map[string]func(http.ResponseWriter, *http.Request){
		ATTENDANCE_PATH: jsonBody(`{"daily_summary":{"2024-03-15":"At Hostel"}}`),
		RESULT_PATH:     jsonBody(`[{"date":"2024-03-10","subject__paper":"Physics","exam_type":"Daily Test","type_of_test":"Objective","total_mark":"50","student_mark":41}]`),
	})

	sources, err := client.Attendance(context.Background(), "S-001")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "At Hostel", sources[0].Records["2024-03-15"])
	assert.Equal(t, "S-001", portal.requests[0].URL.Query().Get("student_id"))

	results, err := client.ExamResults(context.Background(), "ENR-001")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Physics", results[0].Subject)
	assert.Equal(t, 50.0, results[0].TotalMarks)
	assert.Equal(t, 41.0, results[0].ObtainedMarks)
	assert.True(t, results[0].IsDailyTest())
	assert.Equal(t, "ENR-001", portal.requests[1].URL.Query().Get("enrollment"))
}

func TestClient_ExamResultsNonArray(t *testing.T) {
	client, _ := newTestClient(t, map[string]func(http.ResponseWriter, *http.Request){
		RESULT_PATH: jsonBody(`{"message":"no results"}`),
	})

	results, err := client.ExamResults(context.Background(), "ENR-001")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSummarizeErrorBody(t *testing.T) {
	assert.Equal(t, "Service Unavailable", summarizeErrorBody("text/html", []byte(`<html><title> Service
		Unavailable </title></html>`)))
	assert.Equal(t, "Heading", summarizeErrorBody("", []byte(`<div><h1>Heading</h1></div>`)))
	assert.Equal(t, "rate limited", summarizeErrorBody("application/json", []byte(`{"error":"rate limited"}`)))
	assert.Equal(t, "try later", summarizeErrorBody("application/json", []byte(`{"message":"try later"}`)))
	assert.Equal(t, "plain text", summarizeErrorBody("text/plain", []byte("plain\n text")))
}
