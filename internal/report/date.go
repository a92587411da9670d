package report

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateKey is a local calendar date in YYYY-MM-DD form.
type DateKey string

func KeyOf(t time.Time) DateKey {
	return DateKey(t.Format(dateLayout))
}

// ParseDateKey accepts "2024-03-15" as well as values carrying a time part
// such as "2024-03-15 10:30:00" or "2024-03-15T10:30:00Z".
func ParseDateKey(raw string) (DateKey, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(dateLayout) {
		return "", fmt.Errorf("invalid date %q", raw)
	}
	t, err := time.ParseInLocation(dateLayout, raw[:len(dateLayout)], time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return KeyOf(t), nil
}

// Time returns local midnight of the date.
func (k DateKey) Time() (time.Time, error) {
	return time.ParseInLocation(dateLayout, string(k), time.Local)
}

func (k DateKey) Day() int {
	t, err := k.Time()
	if err != nil {
		return 0
	}
	return t.Day()
}

func (k DateKey) MonthAbbrev() string {
	t, err := k.Time()
	if err != nil {
		return ""
	}
	return t.Format("Jan")
}

// Window returns the n most recent dates ending at today, oldest first.
func Window(n int, today time.Time) []DateKey {
	if n <= 0 {
		return []DateKey{}
	}
	y, m, d := today.Date()
	days := make([]DateKey, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, KeyOf(time.Date(y, m, d-i, 0, 0, 0, 0, today.Location())))
	}
	return days
}

// MonthsBefore returns the date months calendar months before today. Day
// overflow normalises forward, so May 31 minus three months lands in early March.
func MonthsBefore(today time.Time, months int) DateKey {
	y, m, d := today.Date()
	return KeyOf(time.Date(y, m-time.Month(months), d, 0, 0, 0, 0, today.Location()))
}
