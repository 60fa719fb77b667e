// Package loadorder turns the text of a vehicle loading order (ordem de
// carregamento) into queue entries.
package loadorder

import (
	"errors"
	"regexp"
)

// ErrExtraction marks a document whose text could not be read at all
// (corrupt file, unsupported encoding). It is distinct from a document that
// was read but contained no recognizable rows.
var ErrExtraction = errors.New("loadorder: text extraction failed")

// rowPattern recognizes one vehicle row of the loading-order table. The layout
// is brittle on purpose: it mirrors the documents issued by the terminal and a
// row that drifts from it is skipped, never partially captured.
//
// Groups: line, plate, carrier, product (keyword + qualifiers), packaging,
// quantity, order number.
var rowPattern = regexp.MustCompile(
	`(?i)(\d+)\s+([A-Z]{3}\d[A-Z\d]\d{2})\s+(.*?)\s+((?:SULFATO|Ureia|UREIA|SUPER|CLORETO|S\.AMONIO|AMONIO).*?)\s+(BigBag|Granel|Saca)\s+(\d+)\s+.*?\s+.*?\s+(\d+)`,
)

// Row is one matched vehicle row, exactly as it appears in the document.
type Row struct {
	Line        string // sequence number printed on the document (not used downstream)
	Placa       string
	Carrier     string
	Product     string
	Packaging   string // BigBag | Granel | Saca (not used downstream)
	Quantity    string
	OrderNumber string
}

// MatchRows finds every non-overlapping row in text, in document order.
// A text without rows yields an empty slice.
func MatchRows(text string) []Row {
	matches := rowPattern.FindAllStringSubmatch(text, -1)
	rows := make([]Row, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, Row{
			Line:        m[1],
			Placa:       m[2],
			Carrier:     m[3],
			Product:     m[4],
			Packaging:   m[5],
			Quantity:    m[6],
			OrderNumber: m[7],
		})
	}
	return rows
}
