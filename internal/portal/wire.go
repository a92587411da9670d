package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

// Number accepts a JSON number, a numeric string or null. A string that is
// not a number decodes to 0 so one bad display field does not sink the record.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if len(b) > 0 && b[0] == '"' {
			slog.Warn("ignoring non-numeric value", "value", s)
			*n = 0
			return nil
		}
		return fmt.Errorf("invalid number %s", b)
	}
	*n = Number(v)
	return nil
}

// Flag accepts 1/0, true/false, "1"/"0" and null.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch strings.Trim(string(bytes.TrimSpace(b)), `"`) {
	case "1", "true":
		*f = true
	case "0", "false", "null", "":
		*f = false
	default:
		return fmt.Errorf("invalid flag %s", b)
	}
	return nil
}

// Text accepts a string, a number or null.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			return fmt.Errorf("invalid text %s", b)
		}
		*t = Text(num.String())
	}
	return nil
}

type enrollmentRecord struct {
	Name               string          `json:"name"`
	StudentName        Text            `json:"student_name"`
	Program            Text            `json:"program"`
	OfferedAmount      Number          `json:"offered_amount"`
	DiscountAmount     Number          `json:"discount_amount"`
	NewOfferedAmount   Number          `json:"new_offered_amount"`
	StudentMobile      Text            `json:"student_mobile"`
	TotalCourseFeePaid Number          `json:"total_course_fee_paid"`
	CourseFeeBalance   Number          `json:"course_fee_balance"`
	Student            Text            `json:"student"`
	PreferredCentre    Text            `json:"preferred_centre"`
	HostelOrDayScholar Text            `json:"hostel_or_day_scholar"`
	Hostel             Text            `json:"hostel"`
	StudentBatchName   Text            `json:"student_batch_name"`
	DocStatus          Number          `json:"docstatus"`
	IsDropped          Flag            `json:"is_dropped"`
	HasJoined          Flag            `json:"has_joined"`
	DropoutReason      Text            `json:"dropout_reason"`
	Creation           string          `json:"creation"`
	Error              json.RawMessage `json:"error"`
}

// docstatus 2 is a cancelled document.
const docStatusCancelled = 2

var creationLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func parseCreation(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range creationLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (r enrollmentRecord) toEnrollment() report.Enrollment {
	return report.Enrollment{
		ID:                 r.Name,
		StudentID:          string(r.Student),
		StudentName:        string(r.StudentName),
		Program:            string(r.Program),
		Mobile:             string(r.StudentMobile),
		Center:             string(r.PreferredCentre),
		HostelOrDayScholar: string(r.HostelOrDayScholar),
		Hostel:             string(r.Hostel),
		Batch:              string(r.StudentBatchName),
		OfferedAmount:      float64(r.OfferedAmount),
		DiscountAmount:     float64(r.DiscountAmount),
		FinalAmount:        float64(r.NewOfferedAmount),
		FeePaid:            float64(r.TotalCourseFeePaid),
		FeeBalance:         float64(r.CourseFeeBalance),
		Cancelled:          int(r.DocStatus) == docStatusCancelled,
		Dropped:            bool(r.IsDropped),
		Joined:             bool(r.HasJoined),
		DropoutReason:      string(r.DropoutReason),
		Created:            parseCreation(r.Creation),
	}
}

type examRecord struct {
	Date        string `json:"date"`
	Subject     Text   `json:"subject__paper"`
	ExamType    Text   `json:"exam_type"`
	TypeOfTest  Text   `json:"type_of_test"`
	TotalMark   Number `json:"total_mark"`
	StudentMark Number `json:"student_mark"`
}

func (r examRecord) toExamResult() report.ExamResult {
	return report.ExamResult{
		Date:          r.Date,
		Subject:       string(r.Subject),
		ExamType:      string(r.ExamType),
		TestType:      string(r.TypeOfTest),
		TotalMarks:    float64(r.TotalMark),
		ObtainedMarks: float64(r.StudentMark),
	}
}

// hasError reports whether an "error" member is present and truthy.
func hasError(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", `""`, "0":
		return false
	default:
		return true
	}
}

// firstByte returns the first non-space byte of a JSON document.
func firstByte(b []byte) byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// recordMap is a raw date -> status map as sent by the portal.
type recordMap map[string]Text

// Keys that differ only by a time part collapse onto one date. The bare
// date key wins, otherwise the first raw key in sorted order.
func (m recordMap) toDaily() report.DailyRecordMap {
	out := make(report.DailyRecordMap, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		v := m[k]
		key, err := report.ParseDateKey(k)
		if err != nil || v == "" {
			continue
		}
		if _, seen := out[key]; seen && k != string(key) {
			continue
		}
		out[key] = string(v)
	}
	return out
}

// looksLikeRecordMap is true when every key of the object is a date.
func looksLikeRecordMap(obj map[string]json.RawMessage) bool {
	if len(obj) == 0 {
		return false
	}
	for k := range obj {
		if _, err := report.ParseDateKey(k); err != nil {
			return false
		}
	}
	return true
}

var scheduleLabels = []string{"Batch", "Hostel"}

func scheduleLabel(i int) string {
	if i < len(scheduleLabels) {
		return scheduleLabels[i]
	}
	return fmt.Sprintf("Schedule %d", i+1)
}

// decodeAttendance turns the attendance payload into sources. The portal
// sends either {"daily_summary": {...}} (location scheme), a [batch, hostel]
// pair of Present/Absent maps, or a bare date map.
func decodeAttendance(body []byte) ([]report.AttendanceSource, error) {
	switch firstByte(body) {
	case 0, 'n':
		return nil, nil
	case '[':
		return decodeSchedules(body)
	case '{':
	default:
		return nil, fmt.Errorf("unexpected attendance payload")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode attendance: %w", err)
	}

	if raw, ok := obj["daily_summary"]; ok && firstByte(raw) == '{' {
		var m recordMap
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("failed to decode daily summary: %w", err)
		}
		return []report.AttendanceSource{{Label: "Daily Summary", Scheme: report.SchemeLocation, Records: m.toDaily()}}, nil
	}
	if raw, ok := obj["attendance"]; ok && firstByte(raw) == '[' {
		return decodeSchedules(raw)
	}
	if looksLikeRecordMap(obj) {
		var m recordMap
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, fmt.Errorf("failed to decode attendance map: %w", err)
		}
		return []report.AttendanceSource{{Label: "Daily Summary", Scheme: report.SchemeLocation, Records: m.toDaily()}}, nil
	}
	return nil, nil
}

func decodeSchedules(body []byte) ([]report.AttendanceSource, error) {
	var schedules []recordMap
	if err := json.Unmarshal(body, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode attendance schedules: %w", err)
	}
	sources := make([]report.AttendanceSource, 0, len(schedules))
	for i, m := range schedules {
		sources = append(sources, report.AttendanceSource{
			Label:   scheduleLabel(i),
			Scheme:  report.SchemePresence,
			Records: m.toDaily(),
		})
	}
	return sources, nil
}
