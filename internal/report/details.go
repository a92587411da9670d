package report

import "strconv"

// Tone tells a renderer how to colour a detail value.
type Tone int

const (
	TonePlain Tone = iota
	ToneAmount
	ToneDiscount
)

// Detail is one labelled card of the student details section. Currency
// values are whole rupees without the sign.
type Detail struct {
	Label    string
	Value    string
	Tone     Tone
	Currency bool
}

// Details lists the enrollment cards in display order.
func (e Enrollment) Details() []Detail {
	money := func(label string, v float64, tone Tone) Detail {
		return Detail{Label: label, Value: strconv.FormatInt(RoundAmount(v), 10), Tone: tone, Currency: true}
	}
	return []Detail{
		{Label: "Enrollment ID", Value: e.ID},
		{Label: "Student ID", Value: e.StudentID, Tone: ToneAmount},
		{Label: "Student Name", Value: e.StudentName},
		{Label: "Program", Value: e.Program},
		{Label: "Contact Number", Value: e.Mobile},
		{Label: "Status", Value: e.State().String()},
		{Label: "Batch", Value: e.Batch},
		{Label: "Center", Value: e.Center},
		{Label: "Hostel", Value: e.HostelName()},
		money("Offered Amount", e.OfferedAmount, ToneAmount),
		money("Discount Amount", e.DiscountAmount, ToneDiscount),
		money("Final Offered Amount", e.FinalAmount, ToneAmount),
		money("Total Course Fee Paid", e.FeePaid, ToneAmount),
		money("Course Fee Balance", e.FeeBalance, ToneAmount),
	}
}
