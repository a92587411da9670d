package report

import (
	"slices"
	"strings"
	"time"
)

// DefaultExamMonths is how far back exam results are shown.
const DefaultExamMonths = 3

type ExamResult struct {
	Date          string
	Subject       string
	ExamType      string
	TestType      string
	TotalMarks    float64
	ObtainedMarks float64
}

// Score is the entry's own score out of 100, rounded to 2 decimals.
func (e ExamResult) Score() float64 {
	return percent(e.ObtainedMarks, e.TotalMarks, 2)
}

func (e ExamResult) IsDailyTest() bool {
	return strings.Contains(strings.ToLower(e.ExamType), "daily")
}

type Band int

const (
	BandPoor Band = iota
	BandAverage
	BandGood
	BandExcellent
)

func (b Band) String() string {
	switch b {
	case BandExcellent:
		return "excellent"
	case BandGood:
		return "good"
	case BandAverage:
		return "average"
	default:
		return "poor"
	}
}

// BandFor buckets a percentage. Each bound is inclusive.
func BandFor(pct float64) Band {
	switch {
	case pct >= 75:
		return BandExcellent
	case pct >= 60:
		return BandGood
	case pct >= 40:
		return BandAverage
	default:
		return BandPoor
	}
}

type ExamRow struct {
	ExamResult
	Key        DateKey
	Percentage float64
	Band       Band
}

type ExamReport struct {
	Cutoff           DateKey
	Rows             []ExamRow
	TotalMarks       float64
	ObtainedMarks    float64
	Percentage       float64
	DailyTests       int
	DailyTestAverage float64
}

func (r ExamReport) Empty() bool {
	return len(r.Rows) == 0
}

// SummarizeExams keeps results dated on or after today minus months, newest
// first, and computes the overall and daily-test percentages. Results whose
// date cannot be parsed are dropped. Rows sharing a date keep their input order.
func SummarizeExams(results []ExamResult, today time.Time, months int) ExamReport {
	cutoff := MonthsBefore(today, months)
	rep := ExamReport{Cutoff: cutoff, Rows: []ExamRow{}}

	for _, res := range results {
		key, err := ParseDateKey(res.Date)
		if err != nil || key < cutoff {
			continue
		}
		pct := res.Score()
		rep.Rows = append(rep.Rows, ExamRow{
			ExamResult: res,
			Key:        key,
			Percentage: pct,
			Band:       BandFor(pct),
		})
	}

	slices.SortStableFunc(rep.Rows, func(a, b ExamRow) int {
		return strings.Compare(string(b.Key), string(a.Key))
	})

	var dailySum float64
	for _, row := range rep.Rows {
		rep.TotalMarks += row.TotalMarks
		rep.ObtainedMarks += row.ObtainedMarks
		if row.IsDailyTest() {
			rep.DailyTests++
			dailySum += percent(row.ObtainedMarks, row.TotalMarks, 16)
		}
	}

	rep.Percentage = percent(rep.ObtainedMarks, rep.TotalMarks, 2)
	if rep.DailyTests > 0 {
		rep.DailyTestAverage = round(dailySum/float64(rep.DailyTests), 2)
	}
	return rep
}
