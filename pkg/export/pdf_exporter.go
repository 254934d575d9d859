package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth = 277.0
	pdfRowHeight = 7.0
)

// PDFExporter lays the dataset out as a landscape A4 table, repeating the header on each page.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) Render(w io.Writer, data Dataset) error {
	if err := data.validate(); err != nil {
		return err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	colWidth := pdfPageWidth / float64(len(data.Headers))

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		for _, h := range data.Headers {
			pdf.CellFormat(colWidth, 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	pdf.SetFillColor(230, 230, 230)
	pdf.SetHeaderFunc(func() {
		if data.Title != "" {
			pdf.SetFont("Arial", "B", 13)
			pdf.CellFormat(0, 10, data.Title, "", 1, "L", false, 0, "")
		}
		header()
	})
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, row := range data.Rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, pdfRowHeight, tr(cell), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
