package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

const (
	ENROLLMENT_PATH             = "/enrollment"
	ENROLLMENTS_BY_STUDENT_PATH = "/enrollments-by-student"
	ATTENDANCE_PATH             = "/attendance"
	RESULT_PATH                 = "/result"

	maxBodyBytes = 4 << 20
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the student portal API. It holds no per-student state.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       *slog.Logger
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		http:      httpClient,
		log:       logger,
	}
}

func (c *Client) Enrollment(ctx context.Context, enrollmentID string) (report.Enrollment, error) {
	const op = "enrollment"
	body, err := c.get(ctx, op, ENROLLMENT_PATH, url.Values{"enrollment": {enrollmentID}})
	if err != nil {
		return report.Enrollment{}, err
	}

	if firstByte(body) != '{' {
		return report.Enrollment{}, &LookupError{Code: ErrParsingError, Op: op, Err: fmt.Errorf("expected an object")}
	}
	var rec enrollmentRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return report.Enrollment{}, &LookupError{Code: ErrParsingError, Op: op, Err: fmt.Errorf("failed to decode enrollment: %w", err)}
	}
	if hasError(rec.Error) || rec.Name == "" {
		return report.Enrollment{}, &LookupError{Code: ErrNotFound, Kind: KeyEnrollment, Op: op, Err: ErrStudentNotFound}
	}
	return rec.toEnrollment(), nil
}

// EnrollmentsByStudent lists every enrollment of a student id or phone
// number, in the order the portal returns them.
func (c *Client) EnrollmentsByStudent(ctx context.Context, id Identifier) ([]report.Enrollment, error) {
	const op = "enrollments-by-student"
	query := url.Values{}
	switch id.Kind {
	case KeyPhone:
		query.Set("phone", id.Value)
	case KeyStudentID:
		query.Set("student_id", id.Value)
	default:
		return nil, &LookupError{Code: ErrInvalidInput, Kind: id.Kind, Op: op, Err: ErrInvalidIdentifier}
	}

	body, err := c.get(ctx, op, ENROLLMENTS_BY_STUDENT_PATH, query)
	if err != nil {
		return nil, err
	}

	switch firstByte(body) {
	case '[':
	case '{', 'n', 0:
		// {"error": ...} and null both mean nothing matched.
		return []report.Enrollment{}, nil
	default:
		return nil, &LookupError{Code: ErrParsingError, Kind: id.Kind, Op: op, Err: fmt.Errorf("unexpected payload")}
	}

	var recs []enrollmentRecord
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, &LookupError{Code: ErrParsingError, Kind: id.Kind, Op: op, Err: fmt.Errorf("failed to decode enrollments: %w", err)}
	}
	out := make([]report.Enrollment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toEnrollment())
	}
	return out, nil
}

func (c *Client) Attendance(ctx context.Context, studentID string) ([]report.AttendanceSource, error) {
	const op = "attendance"
	body, err := c.get(ctx, op, ATTENDANCE_PATH, url.Values{"student_id": {studentID}})
	if err != nil {
		return nil, err
	}
	sources, err := decodeAttendance(body)
	if err != nil {
		return nil, &LookupError{Code: ErrParsingError, Op: op, Err: err}
	}
	return sources, nil
}

func (c *Client) ExamResults(ctx context.Context, enrollmentID string) ([]report.ExamResult, error) {
	const op = "result"
	body, err := c.get(ctx, op, RESULT_PATH, url.Values{"enrollment": {enrollmentID}})
	if err != nil {
		return nil, err
	}
	if firstByte(body) != '[' {
		return []report.ExamResult{}, nil
	}

	var recs []examRecord
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, &LookupError{Code: ErrParsingError, Op: op, Err: fmt.Errorf("failed to decode exam results: %w", err)}
	}
	out := make([]report.ExamResult, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toExamResult())
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &LookupError{Code: ErrNetworkIssue, Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if id := LookupIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("portal request failed", "op", op, "lookup_id", LookupIDFrom(ctx), "error", err)
		return nil, &LookupError{Code: ErrNetworkIssue, Op: op, Err: fmt.Errorf("failed to reach portal: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &LookupError{Code: ErrNetworkIssue, Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.log.Debug("portal request",
		"op", op,
		"lookup_id", LookupIDFrom(ctx),
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		summary := summarizeErrorBody(resp.Header.Get("Content-Type"), body)
		c.log.Warn("portal returned an error status", "op", op, "lookup_id", LookupIDFrom(ctx), "status", resp.StatusCode, "detail", summary)
		return nil, &LookupError{Code: ErrNetworkIssue, Op: op, Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, summary)}
	}
	return body, nil
}

// summarizeErrorBody squeezes an error response into one line for the log.
// Proxies in front of the portal answer with HTML pages, so those are reduced
// to their title or first heading.
func summarizeErrorBody(contentType string, body []byte) string {
	if strings.Contains(contentType, "html") || bytes.HasPrefix(bytes.TrimSpace(body), []byte("<")) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err == nil {
			for _, sel := range []string{"title", "h1", "body"} {
				text := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " ")
				if text != "" {
					return truncate(text, 200)
				}
			}
		}
	}

	var payload struct {
		Error   any `json:"error"`
		Message any `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != nil {
			return truncate(fmt.Sprint(payload.Error), 200)
		}
		if payload.Message != nil {
			return truncate(fmt.Sprint(payload.Message), 200)
		}
	}
	return truncate(strings.Join(strings.Fields(string(body)), " "), 200)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
