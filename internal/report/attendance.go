package report

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStatus = errors.New("unknown attendance status")

// Scheme selects which set of statuses an attendance feed uses.
type Scheme int

const (
	// SchemePresence is the Present/Absent register kept per schedule.
	SchemePresence Scheme = iota
	// SchemeLocation is the daily summary of where the student was.
	SchemeLocation
)

func (s Scheme) String() string {
	switch s {
	case SchemePresence:
		return "presence"
	case SchemeLocation:
		return "location"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// Statuses lists the statuses a scheme recognises, in display order.
func (s Scheme) Statuses() []Status {
	switch s {
	case SchemePresence:
		return []Status{Present, Absent}
	case SchemeLocation:
		return []Status{AtBatch, AtHostel, AtHome}
	default:
		return nil
	}
}

type Status int

const (
	NoRecord Status = iota
	Present
	Absent
	AtBatch
	AtHostel
	AtHome
)

func (s Status) String() string {
	switch s {
	case NoRecord:
		return "No Record"
	case Present:
		return "Present"
	case Absent:
		return "Absent"
	case AtBatch:
		return "At Batch"
	case AtHostel:
		return "At Hostel"
	case AtHome:
		return "At Home"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus maps a raw record value onto the scheme's statuses. Values the
// scheme does not know, including ones valid for the other scheme, are
// reported with ErrUnknownStatus.
func ParseStatus(scheme Scheme, raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	switch scheme {
	case SchemePresence:
		switch raw {
		case "Present":
			return Present, nil
		case "Absent":
			return Absent, nil
		}
	case SchemeLocation:
		switch raw {
		case "At Batch":
			return AtBatch, nil
		case "At Hostel":
			return AtHostel, nil
		case "At Home":
			return AtHome, nil
		}
	default:
		return NoRecord, fmt.Errorf("scheme %v: %w", scheme, ErrUnknownStatus)
	}
	return NoRecord, fmt.Errorf("%s status %q: %w", scheme, raw, ErrUnknownStatus)
}

// DailyRecordMap holds the raw status recorded for each date. Dates without
// a record are simply missing.
type DailyRecordMap map[DateKey]string

// AttendanceSource is one attendance feed returned by the portal.
type AttendanceSource struct {
	Label   string
	Scheme  Scheme
	Records DailyRecordMap
}

type Day struct {
	Date   DateKey
	Status Status
	Raw    string
}

type AttendanceReport struct {
	Label        string
	Scheme       Scheme
	Days         []Day
	RecordedDays int
	Counts       map[Status]int
	// Unrecognized lists dates whose value is not a status of the scheme.
	// They count as recorded but are classified NoRecord.
	Unrecognized []DateKey
	// Rate is only meaningful for SchemePresence.
	Rate float64
}

func (r AttendanceReport) Count(s Status) int {
	return r.Counts[s]
}

// HasRate reports whether the scheme defines a single attendance rate.
func (r AttendanceReport) HasRate() bool {
	return r.Scheme == SchemePresence
}

// SummarizeAttendance classifies every date of the window against the
// source. A date missing from the records is NoRecord, never Absent.
func SummarizeAttendance(src AttendanceSource, window []DateKey) AttendanceReport {
	rep := AttendanceReport{
		Label:  src.Label,
		Scheme: src.Scheme,
		Days:   make([]Day, 0, len(window)),
		Counts: make(map[Status]int, len(src.Scheme.Statuses())),
	}

	for _, date := range window {
		raw := src.Records[date]
		day := Day{Date: date, Status: NoRecord, Raw: raw}
		if strings.TrimSpace(raw) != "" {
			rep.RecordedDays++
			status, err := ParseStatus(src.Scheme, raw)
			if err != nil {
				rep.Unrecognized = append(rep.Unrecognized, date)
			} else {
				day.Status = status
				rep.Counts[status]++
			}
		}
		rep.Days = append(rep.Days, day)
	}

	if rep.HasRate() {
		rep.Rate = percent(float64(rep.Counts[Present]), float64(rep.RecordedDays), 1)
	}
	return rep
}

// Grid splits the window into rows of cols days, oldest first. The last row
// may be short.
func (r AttendanceReport) Grid(cols int) [][]Day {
	if cols <= 0 {
		return nil
	}
	rows := make([][]Day, 0, (len(r.Days)+cols-1)/cols)
	for start := 0; start < len(r.Days); start += cols {
		rows = append(rows, r.Days[start:min(start+cols, len(r.Days))])
	}
	return rows
}
