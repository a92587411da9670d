package portal

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrInvalidInput
	ErrNetworkIssue
	ErrNotFound
	ErrParsingError
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNone:
		return "none"
	case ErrInvalidInput:
		return "invalid input"
	case ErrNetworkIssue:
		return "network issue"
	case ErrNotFound:
		return "not found"
	case ErrParsingError:
		return "parsing error"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

var (
	ErrEmptyIdentifier   = errors.New("please enter Enrollment ID, Student ID, or Phone Number")
	ErrInvalidIdentifier = errors.New("please enter a valid Enrollment ID (ENR...), Student ID (S-...), or Phone Number")
	ErrNoEnrollments     = errors.New("no enrollments found")
	ErrStudentNotFound   = errors.New("student not found")
)

// LookupError is returned by every step of a lookup. Code drives what the
// user is shown; Err keeps the detail for the log.
type LookupError struct {
	Code ErrorCode
	Kind KeyKind
	Op   string
	Err  error
}

func (e *LookupError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// CodeOf returns ErrNone for a nil error and ErrParsingError for errors that
// did not come from this package.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrNone
	}
	var le *LookupError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrParsingError
}

// Message is the single line shown to the user for a failed lookup.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var le *LookupError
	if !errors.As(err, &le) {
		return "Error fetching data"
	}
	switch le.Code {
	case ErrInvalidInput:
		return capitalize(le.Err.Error())
	case ErrNetworkIssue:
		return "Internal Server Error"
	case ErrNotFound:
		if le.Kind == KeyEnrollment {
			return "Student not found"
		}
		return fmt.Sprintf("No enrollments found for this %s", le.Kind)
	default:
		return "Error fetching data"
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
