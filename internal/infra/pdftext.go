package infra

// pdftext.go: text extraction for imported loading orders.
// Pages are read one at a time, in order, so memory stays bounded and the
// concatenated text keeps the document's row order.

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fertilabel/internal/loadorder"

	"github.com/ledongthuc/pdf"
)

// PDFTextExtractor reads the text layer of PDF documents.
type PDFTextExtractor struct{}

func NewPDFTextExtractor() *PDFTextExtractor { return &PDFTextExtractor{} }

// ExtractText returns the text of every page in page order. A page's text
// items are read top to bottom, left to right and joined by single spaces, so
// table cells stay apart; each page ends with "\n".
// Every failure wraps loadorder.ErrExtraction.
func (e *PDFTextExtractor) ExtractText(ctx context.Context, r io.ReaderAt, size int64) (text string, err error) {
	// ledongthuc/pdf panics on some malformed streams instead of returning errors.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %v", loadorder.ErrExtraction, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", loadorder.ErrExtraction, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", loadorder.ErrExtraction, i, err)
		}
		sb.WriteString(joinItems(rows))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// joinItems flattens a page's rows into one line. Whitespace inside an item
// is collapsed and blank items are dropped.
func joinItems(rows pdf.Rows) string {
	var parts []string
	for _, row := range rows {
		for _, item := range row.Content {
			if f := strings.Fields(item.S); len(f) > 0 {
				parts = append(parts, strings.Join(f, " "))
			}
		}
	}
	return strings.Join(parts, " ")
}
