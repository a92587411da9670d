package printview

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/feelsunbreeze/student_portal_tui/internal/report"
)

type rgb struct{ r, g, b int }

var (
	colorAccent   = rgb{76, 175, 80}
	colorAmount   = rgb{39, 174, 96}
	colorDiscount = rgb{192, 57, 43}
	colorMuted    = rgb{102, 102, 102}
	colorText     = rgb{51, 51, 51}
	colorCard     = rgb{249, 249, 249}
	colorBorder   = rgb{221, 221, 221}

	// Heatmap fills, keyed by statusClass.
	cellColors = map[string]rgb{
		"present":   {39, 174, 96},
		"absent":    {231, 76, 60},
		"at-batch":  {52, 152, 219},
		"at-hostel": {243, 156, 18},
		"at-home":   {155, 89, 182},
		"empty":     {243, 244, 246},
	}

	bandColors = map[report.Band]rgb{
		report.BandExcellent: {76, 175, 80},
		report.BandGood:      {33, 150, 243},
		report.BandAverage:   {255, 152, 0},
		report.BandPoor:      {244, 67, 54},
	}
)

const (
	pageLeft  = 15.0
	pageWidth = 180.0
)

// WritePDF renders the complete report as an A4 PDF. Core fonts carry no
// rupee sign, so amounts are prefixed with "Rs.".
func WritePDF(w io.Writer, r *report.Report) error {
	pdf := newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 18)
	setText(pdf, colorText)
	pdf.CellFormat(0, 10, "Student Complete Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	setText(pdf, colorMuted)
	pdf.CellFormat(0, 6, tr("Enrollment ID: "+r.Enrollment.ID), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdfHeading(pdf, "Student Details")
	pdfDetails(pdf, tr, r.Enrollment.Details())

	pdfHeading(pdf, "Attendance Summary")
	if len(r.Attendance) == 0 {
		pdfNote(pdf, "No attendance data available.")
	}
	for _, att := range r.Attendance {
		pdfAttendance(pdf, tr, att)
	}

	pdfHeading(pdf, "Exam Results")
	if r.Exams.Empty() {
		pdfNote(pdf, "No exam results found.")
	} else {
		pdfExams(pdf, tr, r.Exams)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	setText(pdf, colorMuted)
	pdf.CellFormat(0, 5, "Generated on "+generatedAt(r), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf report: %w", err)
	}
	return nil
}

func newDocument() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageLeft, 15, pageLeft)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return pdf
}

// fits reports whether h more millimetres fit above the bottom margin.
// Rect and SetXY do not trigger gofpdf's automatic page break.
func fits(pdf *gofpdf.Fpdf, h float64) bool {
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	return pdf.GetY()+h <= pageHeight-bottom
}

func setText(pdf *gofpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
func setFill(pdf *gofpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setDraw(pdf *gofpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }

func pdfHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	setText(pdf, colorText)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	setDraw(pdf, colorAccent)
	pdf.SetLineWidth(0.5)
	pdf.Line(pageLeft, pdf.GetY(), pageLeft+pageWidth, pdf.GetY())
	pdf.Ln(3)
}

func pdfNote(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "I", 10)
	setText(pdf, colorMuted)
	pdf.CellFormat(0, 7, text, "", 1, "L", false, 0, "")
}

// pdfDetails lays the cards out three to a row.
func pdfDetails(pdf *gofpdf.Fpdf, tr func(string) string, details []report.Detail) {
	const (
		cols   = 3
		gap    = 3.0
		height = 13.0
	)
	width := (pageWidth - gap*(cols-1)) / cols
	setDraw(pdf, colorBorder)
	pdf.SetLineWidth(0.2)

	for i, d := range details {
		col := i % cols
		if col == 0 {
			if i > 0 {
				pdf.Ln(height + gap)
			}
			if !fits(pdf, height) {
				pdf.AddPage()
			}
		}
		x := pageLeft + float64(col)*(width+gap)
		y := pdf.GetY()

		setFill(pdf, colorCard)
		pdf.Rect(x, y, width, height, "FD")

		pdf.SetXY(x+2, y+1.5)
		pdf.SetFont("Arial", "B", 7)
		setText(pdf, colorMuted)
		pdf.CellFormat(width-4, 4, d.Label, "", 0, "L", false, 0, "")

		pdf.SetXY(x+2, y+6)
		value := d.Value
		if d.Currency {
			value = "Rs. " + value
		}
		switch d.Tone {
		case report.ToneAmount:
			pdf.SetFont("Arial", "B", 10)
			setText(pdf, colorAmount)
		case report.ToneDiscount:
			pdf.SetFont("Arial", "B", 10)
			setText(pdf, colorDiscount)
		default:
			pdf.SetFont("Arial", "", 10)
			setText(pdf, colorText)
		}
		pdf.CellFormat(width-4, 5, tr(value), "", 0, "L", false, 0, "")
		pdf.SetXY(pageLeft, y)
	}
	pdf.Ln(height + gap)
}

func pdfStats(pdf *gofpdf.Fpdf, stats []stat) {
	width := pageWidth / float64(len(stats))
	pdf.SetFont("Arial", "", 8)
	setText(pdf, colorMuted)
	for _, s := range stats {
		pdf.CellFormat(width, 5, s.Label, "", 0, "C", false, 0, "")
	}
	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 12)
	for _, s := range stats {
		c, ok := cellColors[trimCount(s.Class)]
		if !ok {
			c = colorText
		}
		setText(pdf, c)
		pdf.CellFormat(width, 7, s.Value, "", 0, "C", false, 0, "")
	}
	pdf.Ln(9)
}

func trimCount(class string) string {
	status, _ := strings.CutSuffix(class, "-count")
	return status
}

func pdfAttendance(pdf *gofpdf.Fpdf, tr func(string) string, att report.AttendanceReport) {
	const (
		gap    = 1.2
		size   = (pageWidth - gap*(GridColumns-1)) / GridColumns
		height = size * 0.8
	)

	if pdf.GetY() > 175 {
		pdf.AddPage()
	}
	pdf.SetFont("Arial", "B", 11)
	setText(pdf, colorText)
	pdf.CellFormat(0, 7, tr(att.Label), "", 1, "L", false, 0, "")
	pdfStats(pdf, attendanceStats(att))

	if n := len(att.Unrecognized); n > 0 {
		pdf.SetFont("Arial", "I", 8)
		setText(pdf, colorDiscount)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d day(s) carry a status that could not be recognised and are shown as No Record.", n), "", 1, "L", false, 0, "")
	}

	setDraw(pdf, rgb{209, 213, 219})
	pdf.SetLineWidth(0.1)
	for _, row := range att.Grid(GridColumns) {
		if !fits(pdf, height) {
			pdf.AddPage()
			setDraw(pdf, rgb{209, 213, 219})
			pdf.SetLineWidth(0.1)
		}
		y := pdf.GetY()
		for i, d := range row {
			x := pageLeft + float64(i)*(size+gap)
			class := statusClass(d.Status)
			setFill(pdf, cellColors[class])
			pdf.Rect(x, y, size, height, "FD")

			if class == "empty" {
				setText(pdf, rgb{107, 114, 128})
			} else {
				setText(pdf, rgb{255, 255, 255})
			}
			pdf.SetFont("Arial", "B", 8)
			pdf.SetXY(x, y+1)
			pdf.CellFormat(size, 4, fmt.Sprint(d.Date.Day()), "", 0, "C", false, 0, "")
			pdf.SetFont("Arial", "", 5)
			pdf.SetXY(x, y+5)
			pdf.CellFormat(size, 3, d.Date.MonthAbbrev(), "", 0, "C", false, 0, "")
		}
		pdf.SetXY(pageLeft, y+height+gap)
	}

	pdf.Ln(2)
	if !fits(pdf, 5) {
		pdf.AddPage()
	}
	pdf.SetFont("Arial", "", 8)
	legend := append(att.Scheme.Statuses(), report.NoRecord)
	for _, s := range legend {
		setFill(pdf, cellColors[statusClass(s)])
		x, y := pdf.GetX(), pdf.GetY()
		pdf.Rect(x, y+0.5, 4, 4, "FD")
		pdf.SetX(x + 5)
		setText(pdf, colorText)
		pdf.CellFormat(25, 5, s.String(), "", 0, "L", false, 0, "")
	}
	pdf.Ln(8)
}

func pdfExams(pdf *gofpdf.Fpdf, tr func(string) string, ex report.ExamReport) {
	pdfStats(pdf, examStats(ex))

	widths := []float64{22, 46, 28, 28, 18, 18, 20}
	headers := []string{"Date", "Subject/Paper", "Exam Type", "Type of Test", "Total Mark", "Student Mark", "Percentage"}

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		setFill(pdf, colorAccent)
		setText(pdf, rgb{255, 255, 255})
		setDraw(pdf, colorBorder)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	header()

	for i, row := range ex.Rows {
		if !fits(pdf, 6) {
			pdf.AddPage()
			header()
		}
		fill := i%2 == 1
		setFill(pdf, colorCard)
		pdf.SetFont("Arial", "", 8)
		setText(pdf, colorText)
		cells := []string{
			displayDate(row.Key),
			orDash(row.Subject),
			orDash(row.ExamType),
			orDash(row.TestType),
			fmt.Sprint(row.TotalMarks),
			fmt.Sprint(row.ObtainedMarks),
		}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 6, tr(fit(c, widths[j])), "1", 0, "L", fill, 0, "")
		}
		pdf.SetFont("Arial", "B", 8)
		setText(pdf, bandColors[row.Band])
		pdf.CellFormat(widths[6], 6, fmt.Sprintf("%.2f%%", row.Percentage), "1", 1, "R", fill, 0, "")
	}
}

// fit trims text to roughly what an 8pt cell of width mm can hold.
func fit(s string, width float64) string {
	limit := int(width / 1.6)
	r := []rune(s)
	if len(r) <= limit || limit < 4 {
		return s
	}
	return string(r[:limit-3]) + "..."
}
