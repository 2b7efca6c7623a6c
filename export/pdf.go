package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/srgchrksv/designnewshub/models"
)

const (
	reportTitle  = "Reporte Diario: Diseño & Artes"
	reportFooter = "Generado por Gemini Design News Hub"
	lineHeight   = 6.0
)

type rgb struct{ r, g, b int }

var (
	colorHeading = rgb{30, 41, 59}
	colorAccent  = rgb{99, 102, 241}
	colorTitle   = rgb{67, 56, 202}
	colorMuted   = rgb{100, 116, 139}
	colorBody    = rgb{15, 23, 42}
	colorFooter  = rgb{148, 163, 184}
)

// WritePDF renders the report as an A4 document: heading, date, then every
// item with its source, category, summary and link.
func WritePDF(w io.Writer, report *models.NewsReport) error {
	if report == nil {
		return errors.New("write pdf: nil report")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Reporte de Diseño - %s", report.Date), true)
	pdf.SetCreator(reportFooter, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		setTextColor(pdf, colorFooter)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s - %d/{nb}", reportFooter, pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	setTextColor(pdf, colorHeading)
	pdf.CellFormat(0, 12, tr(reportTitle), "", 1, "L", false, 0, "")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.SetDrawColor(colorAccent.r, colorAccent.g, colorAccent.b)
	pdf.SetLineWidth(0.6)
	y := pdf.GetY() + 1
	pdf.Line(left, y, pageW-right, y)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	setTextColor(pdf, colorMuted)
	pdf.CellFormat(0, lineHeight, tr("Fecha: "+report.Date), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	for _, item := range report.Items {
		pdf.SetFont("Helvetica", "B", 13)
		setTextColor(pdf, colorTitle)
		pdf.MultiCell(0, 7, tr(item.Title), "", "L", false)

		pdf.SetFont("Helvetica", "I", 9)
		setTextColor(pdf, colorMuted)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s (%s)", item.Source, item.Category)), "", "L", false)
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 11)
		setTextColor(pdf, colorBody)
		pdf.MultiCell(0, lineHeight, tr(item.Summary), "", "J", false)

		if item.URL != "" {
			pdf.SetFont("Helvetica", "U", 9)
			setTextColor(pdf, colorAccent)
			pdf.WriteLinkString(5, tr(item.URL), item.URL)
			pdf.Ln(5)
		}
		pdf.Ln(6)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setTextColor(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}
