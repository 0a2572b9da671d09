// ABOUTME: Printable quiz PDF with an answer key
// ABOUTME: Questions first, then an "Answers & Explanations" page
package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/harper/quizsmith/internal/models"
)

const DefaultPDFTitle = "Python quiz and solutions"

const optionIndent = 4.0

// WritePDF renders the questions and their answer key
func WritePDF(w io.Writer, questions []models.QuizQuestion, title string) error {
	if title == "" {
		title = DefaultPDFTitle
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	avail := pageW - left - right

	pdf.AddPage()
	for i, q := range questions {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetX(left)
		pdf.MultiCell(avail, 8, tr(fmt.Sprintf("%d. %s", i+1, q.Question)), "", "L", false)

		pdf.SetFont("Helvetica", "", 11)
		for _, opt := range q.Options {
			pdf.SetX(left + optionIndent)
			pdf.MultiCell(avail-optionIndent, 6, tr("- "+opt), "", "L", false)
		}
		pdf.Ln(3)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Answers & Explanations", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for i, q := range questions {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetX(left)
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("%d. Correct Answer: %s", i+1, q.Answer)), "", "L", false)

		explanation := q.Explanation
		if explanation == "" {
			explanation = "No explanation provided."
		}
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetX(left)
		pdf.MultiCell(0, 6, tr("Explanation: "+explanation), "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}
