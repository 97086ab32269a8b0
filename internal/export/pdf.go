package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF renders a block outline as an A4 PDF. It walks the same
// outline RenderMarkdown does, so both formats carry identical sections
// in identical order.
func RenderPDF(blocks []Block) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	// Core fonts are cp1252; translate what we can and drop the rest.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, blk := range blocks {
		switch blk.Kind {
		case KindTitle:
			pdf.SetFont("Helvetica", "B", 20)
			pdf.CellFormat(0, 12, tr(blk.Text), "", 1, "C", false, 0, "")
			pdf.Ln(2)
		case KindMeta:
			pdf.SetFont("Helvetica", "B", 11)
			if blk.Text == "" {
				pdf.MultiCell(0, 6, tr(blk.Label+":"), "", "L", false)
			} else {
				label := tr(blk.Label + ": ")
				pdf.CellFormat(pdf.GetStringWidth(label)+1, 6, label, "", 0, "L", false, 0, "")
				pdf.SetFont("Helvetica", "", 11)
				pdf.MultiCell(0, 6, tr(blk.Text), "", "L", false)
			}
		case KindHeading:
			pdf.Ln(3)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 8, tr(blk.Text), "", "L", false)
			pdf.Ln(1)
		case KindSubheading:
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 7, tr(blk.Text), "", "L", false)
		case KindParagraph:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(blk.Text), "", "L", false)
			pdf.Ln(1)
		case KindOption:
			pdf.SetFont("Helvetica", "", 11)
			text := fmt.Sprintf("%s. %s", blk.Label, blk.Text)
			if blk.Correct {
				pdf.SetFont("Helvetica", "B", 11)
				text += " (correct)"
			}
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(0, 6, tr(text), "", "L", false)
		case KindAnswerSpace:
			pdf.Ln(2)
			for i := 0; i < 2; i++ {
				x, y := pdf.GetXY()
				pdf.Line(x, y+5, x+170, y+5)
				pdf.Ln(9)
			}
		case KindQuote:
			pdf.SetFont("Helvetica", "I", 11)
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(0, 6, tr(blk.Text), "", "L", false)
		case KindDivider:
			pdf.Ln(2)
			x, y := pdf.GetXY()
			pdf.SetDrawColor(180, 180, 180)
			pdf.Line(x, y, x+174, y)
			pdf.SetDrawColor(0, 0, 0)
			pdf.Ln(4)
		case KindFooter:
			pdf.Ln(4)
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 5, tr(blk.Text), "", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
