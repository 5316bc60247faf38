package rendering

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/jonathan/resume-builder/internal/types"
)

// SimplePDFRenderer lays the resume out directly with gofpdf. It needs no
// external binaries and ignores font size settings.
type SimplePDFRenderer struct{}

// NewSimplePDFRenderer returns the built-in PDF layout.
func NewSimplePDFRenderer() *SimplePDFRenderer {
	return &SimplePDFRenderer{}
}

// RenderPDF implements PDFRenderer.
func (r *SimplePDFRenderer) RenderPDF(ctx context.Context, d types.Draft) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := BuildTemplateData(d)
	tr, tg, tb := hexToRGB(string(data.ThemeColor), 255, 102, 102)
	fr, fg, fb := hexToRGB(string(data.FontColor), 0, 0, 0)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(16, 14, 16)
	pdf.SetTitle(data.Title, true)
	pdf.AddPage()
	utf := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFillColor(tr, tg, tb)
	pdf.Rect(0, 0, 210, 4, "F")

	pdf.SetTextColor(fr, fg, fb)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, utf(data.Name), "", 1, "C", false, 0, "")
	if data.JobTitle != "" {
		pdf.SetTextColor(tr, tg, tb)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, utf(data.JobTitle), "", 1, "C", false, 0, "")
	}
	contact := joinNonBlank("  |  ", data.Address, data.Phone, data.Email)
	if contact != "" {
		pdf.SetTextColor(tr, tg, tb)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, utf(contact), "", 1, "C", false, 0, "")
	}

	heading := func(title string) {
		pdf.Ln(4)
		pdf.SetTextColor(tr, tg, tb)
		pdf.SetDrawColor(tr, tg, tb)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, title, "B", 1, "L", false, 0, "")
		pdf.Ln(2)
		pdf.SetTextColor(fr, fg, fb)
	}
	line := func(left, right string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(120, 6, utf(left), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, utf(right), "", 1, "R", false, 0, "")
	}
	body := func(text string) {
		if text == "" {
			return
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, utf(text), "", "L", false)
	}

	if data.Summary != "" {
		heading("Summary")
		body(data.Summary)
	}

	if len(data.Experience) > 0 {
		heading("Professional Experience")
		for _, e := range data.Experience {
			line(e.PositionTitle, e.Dates)
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 5, utf(joinNonBlank(", ", e.CompanyName, e.Location)), "", 1, "L", false, 0, "")
			body(e.WorkSummary)
			pdf.Ln(2)
		}
	}

	if len(data.Education) > 0 {
		heading("Education")
		for _, e := range data.Education {
			line(e.UniversityName, e.Dates)
			degree := e.Degree
			if e.Major != "" {
				degree = joinNonBlank(" in ", e.Degree, e.Major)
			}
			if degree != "" {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.CellFormat(0, 5, utf(degree), "", 1, "L", false, 0, "")
			}
			body(e.Description)
			pdf.Ln(2)
		}
	}

	if len(data.Skills) > 0 {
		heading("Skills")
		pdf.SetFont("Helvetica", "", 10)
		for _, s := range data.Skills {
			pdf.CellFormat(60, 6, utf(s.Name), "", 0, "L", false, 0, "")
			x, y := pdf.GetX(), pdf.GetY()
			pdf.SetFillColor(229, 231, 235)
			pdf.Rect(x, y+2, 50, 2, "F")
			pdf.SetFillColor(tr, tg, tb)
			pdf.Rect(x, y+2, 50*float64(s.Percent)/100, 2, "F")
			pdf.SetX(x + 54)
			pdf.SetFont("Helvetica", "", 8)
			pdf.CellFormat(0, 6, string(s.Level), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Format: "pdf", Message: "failed to write PDF", Cause: err}
	}
	return buf.Bytes(), nil
}

// hexToRGB parses #rgb or #rrggbb, returning the default on anything else.
func hexToRGB(s string, dr, dg, db int) (int, int, int) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 && len(s) != 8 {
		return dr, dg, db
	}
	v, err := strconv.ParseUint(s[:6], 16, 32)
	if err != nil {
		return dr, dg, db
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
