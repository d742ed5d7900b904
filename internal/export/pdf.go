package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Page layout in mm, A4 portrait.
const (
	pdfMargin    = 15.0
	pdfLabelW    = 120.0
	pdfValueW    = 60.0
	pdfLineH     = 6.0
	pdfTitleH    = 10.0
	pdfTitleSize = 14
	pdfBodySize  = 10
)

// WritePDF renders q as a one-table quote sheet.
func WritePDF(w io.Writer, q Quote, title string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", pdfTitleSize)
	pdf.CellFormat(pdfLabelW+pdfValueW, pdfTitleH, title, "", 1, "L", false, 0, "")

	for _, rec := range Records(q) {
		switch {
		case len(rec) == 0:
			pdf.Ln(pdfLineH / 2)
		case isHeader(rec[0]):
			pdf.SetFont("Helvetica", "B", pdfBodySize)
			pdf.SetFillColor(230, 230, 230)
			pdf.CellFormat(pdfLabelW, pdfLineH, rec[0], "1", 0, "L", true, 0, "")
			pdf.CellFormat(pdfValueW, pdfLineH, cellAt(rec, 1), "1", 1, "R", true, 0, "")
		case len(rec) == 1:
			pdf.SetFont("Helvetica", "", pdfBodySize)
			pdf.MultiCell(pdfLabelW+pdfValueW, pdfLineH, rec[0], "1", "L", false)
		default:
			pdf.SetFont("Helvetica", "", pdfBodySize)
			pdf.CellFormat(pdfLabelW, pdfLineH, rec[0], "1", 0, "L", false, 0, "")
			pdf.CellFormat(pdfValueW, pdfLineH, rec[1], "1", 1, "R", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func cellAt(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
