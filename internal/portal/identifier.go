package portal

import (
	"regexp"
	"strings"
)

// KeyKind says which portal key an identifier is.
type KeyKind int

const (
	KeyEnrollment KeyKind = iota
	KeyStudentID
	KeyPhone
)

func (k KeyKind) String() string {
	switch k {
	case KeyStudentID:
		return "Student ID"
	case KeyPhone:
		return "Phone Number"
	default:
		return "Enrollment ID"
	}
}

type Identifier struct {
	Kind  KeyKind
	Value string
}

var phonePattern = regexp.MustCompile(`^\d{10,}$`)

// Classify decides which lookup an input goes through. Enrollment ids start
// with ENR, student ids with S, and phone numbers are ten or more digits.
func Classify(input string) (Identifier, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		return Identifier{}, &LookupError{Code: ErrInvalidInput, Op: "classify", Err: ErrEmptyIdentifier}
	}

	upper := strings.ToUpper(value)
	switch {
	case strings.HasPrefix(upper, "ENR"):
		return Identifier{Kind: KeyEnrollment, Value: value}, nil
	case strings.HasPrefix(upper, "S"):
		return Identifier{Kind: KeyStudentID, Value: value}, nil
	case phonePattern.MatchString(value):
		return Identifier{Kind: KeyPhone, Value: value}, nil
	default:
		return Identifier{}, &LookupError{Code: ErrInvalidInput, Op: "classify", Err: ErrInvalidIdentifier}
	}
}
