package report

import (
	"slices"
	"time"
)

type EnrollmentState int

const (
	StateActive EnrollmentState = iota
	StateJoined
	StateDropped
	StateCancelled
)

func (s EnrollmentState) String() string {
	switch s {
	case StateCancelled:
		return "Cancelled"
	case StateDropped:
		return "Dropped"
	case StateJoined:
		return "Joined"
	default:
		return "Active"
	}
}

type Enrollment struct {
	ID                 string
	StudentID          string
	StudentName        string
	Program            string
	Mobile             string
	Center             string
	HostelOrDayScholar string
	Hostel             string
	Batch              string
	OfferedAmount      float64
	DiscountAmount     float64
	FinalAmount        float64
	FeePaid            float64
	FeeBalance         float64
	Cancelled          bool
	Dropped            bool
	Joined             bool
	DropoutReason      string
	Created            time.Time
}

// State resolves the display state. A terminal state masks an active one:
// cancelled, then dropped, then joined, then active.
func (e Enrollment) State() EnrollmentState {
	switch {
	case e.Cancelled:
		return StateCancelled
	case e.Dropped:
		return StateDropped
	case e.Joined:
		return StateJoined
	default:
		return StateActive
	}
}

func (e Enrollment) IsHosteller() bool {
	return e.HostelOrDayScholar == "Hosteller"
}

func (e Enrollment) HostelName() string {
	if !e.IsHosteller() || e.Hostel == "" {
		return "NA"
	}
	return e.Hostel
}

type Outcome int

const (
	NotFound Outcome = iota
	Resolved
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not found"
	}
}

type Resolution struct {
	Outcome    Outcome
	Resolved   Enrollment
	Candidates []Enrollment
}

// Disambiguate never picks among several enrollments; the caller has to let
// the user choose from Candidates, which keep the response order.
func Disambiguate(records []Enrollment) Resolution {
	switch len(records) {
	case 0:
		return Resolution{Outcome: NotFound}
	case 1:
		return Resolution{Outcome: Resolved, Resolved: records[0]}
	default:
		return Resolution{Outcome: Ambiguous, Candidates: slices.Clone(records)}
	}
}

