package portal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		input string
		kind  KeyKind
		value string
	}{
		{"ENR-2024-00012", KeyEnrollment, "ENR-2024-00012"},
		{"  enr-2024-00012 ", KeyEnrollment, "enr-2024-00012"},
		{"S-00421", KeyStudentID, "S-00421"},
		{"s-00421", KeyStudentID, "s-00421"},
		{"9876543210", KeyPhone, "9876543210"},
		{"919876543210", KeyPhone, "919876543210"},
	}
	for _, c := range cases {
		id, err := Classify(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.kind, id.Kind, c.input)
		assert.Equal(t, c.value, id.Value, c.input)
	}
}

func TestClassify_Invalid(t *testing.T) {
	cases := []struct {
		input string
		want  error
	}{
		{"", ErrEmptyIdentifier},
		{"   ", ErrEmptyIdentifier},
		{"12345", ErrInvalidIdentifier},
		{"98765-43210", ErrInvalidIdentifier},
		{"X-1", ErrInvalidIdentifier},
	}
	for _, c := range cases {
		_, err := Classify(c.input)
		require.Error(t, err, c.input)
		assert.True(t, errors.Is(err, c.want), c.input)
		assert.Equal(t, ErrInvalidInput, CodeOf(err))
	}
}

func TestMessage(t *testing.T) {
	_, err := Classify("")
	assert.Equal(t, "Please enter Enrollment ID, Student ID, or Phone Number", Message(err))

	assert.Equal(t, "Internal Server Error", Message(&LookupError{Code: ErrNetworkIssue, Err: errors.New("boom")}))
	assert.Equal(t, "Student not found", Message(&LookupError{Code: ErrNotFound, Kind: KeyEnrollment, Err: ErrStudentNotFound}))
	assert.Equal(t, "No enrollments found for this Phone Number", Message(&LookupError{Code: ErrNotFound, Kind: KeyPhone, Err: ErrNoEnrollments}))
	assert.Equal(t, "No enrollments found for this Student ID", Message(&LookupError{Code: ErrNotFound, Kind: KeyStudentID, Err: ErrNoEnrollments}))
	assert.Equal(t, "Error fetching data", Message(errors.New("other")))
	assert.Equal(t, "", Message(nil))

	assert.Equal(t, ErrNone, CodeOf(nil))
	assert.Equal(t, ErrParsingError, CodeOf(errors.New("other")))
}
