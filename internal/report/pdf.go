package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/mmynk/dilutionwise/internal/chart"
)

const (
	pageMargin = 15.0
	lineHeight = 7.0
	barHeight  = 8.0
)

// PDF writes an A4 report to w.
func (r *Report) PDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, false)
	pdf.SetCreator("dilutionwise", false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	// Core fonts are cp1252; amounts use the ISO code instead of a symbol.
	v := r.view(r.fmt.CurrencyCode)

	pdf.SetFont("Helvetica", "B", 18)
	setHexText(pdf, chart.ColorHolder)
	pdf.CellFormat(contentWidth, 10, v.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(contentWidth, 5, "Generated "+v.GeneratedAt, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(contentWidth, 6, fmt.Sprintf("Your stake moves from %s to %s after a %s investment (post-money %s).",
		r.fmt.Percentage(r.Result.EquityPercentage),
		r.fmt.Percentage(r.Result.NewEquityPercentage),
		r.fmt.CurrencyCode(r.Result.NewInvestmentAmount),
		r.fmt.CurrencyCode(r.Result.PostMoneyValuation),
	), "", "L", false)
	pdf.Ln(4)

	section(pdf, contentWidth, "Inputs")
	table(pdf, contentWidth, v.Inputs)

	half := contentWidth / 2
	top := pdf.GetY()
	section(pdf, half-2, "Before investment")
	for _, rw := range v.Before {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(half*0.55, lineHeight, rw.Label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(half*0.45-2, lineHeight, rw.Value, "B", 1, "R", false, 0, "")
	}
	bottom := pdf.GetY()

	pdf.SetXY(pageMargin+half+2, top)
	pdf.SetFont("Helvetica", "B", 12)
	setHexText(pdf, chart.ColorHolder)
	pdf.CellFormat(half-2, 9, "After investment", "", 2, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	for _, rw := range v.After {
		pdf.SetX(pageMargin + half + 2)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(half*0.55, lineHeight, rw.Label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(half*0.45-2, lineHeight, rw.Value, "B", 1, "R", false, 0, "")
	}
	if pdf.GetY() < bottom {
		pdf.SetY(bottom)
	}
	pdf.Ln(6)

	section(pdf, contentWidth, "Ownership")
	ownershipBar(pdf, contentWidth, "Before", r.Chart.Before)
	ownershipBar(pdf, contentWidth, "After", r.Chart.After)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentWidth, 6, "Dilution: "+v.Dilution, "", "L", false)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.MultiCell(contentWidth, 4, "Estimates assume a single priced round on a simple capitalization table. "+
		"Option pools, liquidation preferences and anti-dilution terms are not modelled.", "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, width float64, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	setHexText(pdf, chart.ColorHolder)
	pdf.CellFormat(width, 9, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func table(pdf *fpdf.Fpdf, width float64, rows []row) {
	pdf.SetFont("Helvetica", "", 10)
	for _, rw := range rows {
		pdf.CellFormat(width*0.6, lineHeight, rw.Label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(width*0.4, lineHeight, rw.Value, "B", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

// ownershipBar draws one stacked horizontal bar with a legend below it.
func ownershipBar(pdf *fpdf.Fpdf, width float64, label string, slices []chart.Slice) {
	labelWidth := 18.0
	barWidth := width - labelWidth

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelWidth, barHeight, label, "", 0, "L", false, 0, "")

	x, y := pdf.GetXY()
	total := chart.Total(slices)
	for _, s := range slices {
		if s.Value <= 0 || total <= 0 {
			continue
		}
		w := barWidth * s.Value / total
		setHexFill(pdf, s.Color)
		pdf.Rect(x, y, w, barHeight, "F")
		x += w
	}
	pdf.Ln(barHeight + 1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetX(pageMargin + labelWidth)
	for _, s := range slices {
		setHexFill(pdf, s.Color)
		lx, ly := pdf.GetXY()
		pdf.Rect(lx, ly+1, 3, 3, "F")
		pdf.SetX(lx + 4)
		text := fmt.Sprintf("%s %.2f%%", s.Name, s.Value)
		pdf.CellFormat(pdf.GetStringWidth(text)+6, 5, text, "", 0, "L", false, 0, "")
	}
	pdf.Ln(8)
}

func setHexFill(pdf *fpdf.Fpdf, hex string) {
	r, g, b := hexRGB(hex)
	pdf.SetFillColor(r, g, b)
}

func setHexText(pdf *fpdf.Fpdf, hex string) {
	r, g, b := hexRGB(hex)
	pdf.SetTextColor(r, g, b)
}

// hexRGB parses "#rrggbb"; malformed values come back black.
func hexRGB(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
