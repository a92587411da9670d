package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

const (
	WHITE       = lipgloss.Color("#FFFFFF")
	BLUE        = lipgloss.Color("#0043a8")
	GREY        = lipgloss.Color("#626262")
	LAVENDER    = lipgloss.Color("#B8B8FF")
	GREEN       = lipgloss.Color("#50FA7B")
	LIGHT_GREEN = lipgloss.Color("#B9FBC0")
	RED         = lipgloss.Color("#FF5555")
	YELLOW      = lipgloss.Color("#F1FA8C")
	LIGHT_BLUE  = lipgloss.Color("#8BE9FD")
	TURQUOISE   = lipgloss.Color("#98F5E1")
	SILVER      = lipgloss.Color("#A9B2D8")

	AT_BATCH  = lipgloss.Color("#3498db")
	AT_HOSTEL = lipgloss.Color("#f39c12")
	AT_HOME   = lipgloss.Color("#9b59b6")
	PRESENT   = lipgloss.Color("#27ae60")
	ABSENT    = lipgloss.Color("#e74c3c")
	NO_RECORD = lipgloss.Color("#3a3a3a")
	ORANGE    = lipgloss.Color("#FF9800")
)

func statusColor(s report.Status) lipgloss.Color {
	switch s {
	case report.Present:
		return PRESENT
	case report.Absent:
		return ABSENT
	case report.AtBatch:
		return AT_BATCH
	case report.AtHostel:
		return AT_HOSTEL
	case report.AtHome:
		return AT_HOME
	default:
		return NO_RECORD
	}
}

func bandColor(b report.Band) lipgloss.Color {
	switch b {
	case report.BandExcellent:
		return GREEN
	case report.BandGood:
		return LIGHT_BLUE
	case report.BandAverage:
		return ORANGE
	default:
		return RED
	}
}

func stateColor(s report.EnrollmentState) lipgloss.Color {
	switch s {
	case report.StateCancelled, report.StateDropped:
		return RED
	case report.StateJoined:
		return GREEN
	default:
		return LIGHT_BLUE
	}
}

func toneColor(t report.Tone) lipgloss.Color {
	switch t {
	case report.ToneAmount:
		return LIGHT_GREEN
	case report.ToneDiscount:
		return RED
	default:
		return WHITE
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(LIGHT_BLUE).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WHITE).
			Background(BLUE).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(GREY).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SILVER)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(GREY).
			Padding(0, 1).
			Width(26)
)
