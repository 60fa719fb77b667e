package loadorder

import (
	"strings"
	"time"

	"fertilabel/internal/model"

	"github.com/google/uuid"
)

// ImportedAtLayout is the pt-BR date-and-time rendering shown as "list loaded at".
const ImportedAtLayout = "02/01/2006, 15:04:05"

// BuildQueueItems converts matched rows into pending queue items appended after
// a queue that currently holds queueLen items: the i-th row gets order
// queueLen+i+1. All items share one importedAt stamp.
func BuildQueueItems(rows []Row, queueLen int, importedAt time.Time, loc *time.Location) []model.QueueItem {
	if loc == nil {
		loc = time.Local
	}
	stamp := importedAt.In(loc).Format(ImportedAtLayout)

	items := make([]model.QueueItem, 0, len(rows))
	for i, r := range rows {
		items = append(items, model.QueueItem{
			ID:                   uuid.New(),
			Order:                queueLen + i + 1,
			Placa:                strings.ToUpper(r.Placa),
			Carrier:              strings.ToUpper(strings.TrimSpace(r.Carrier)),
			ProductName:          strings.ToUpper(r.Product),
			Quantity:             r.Quantity,
			OrderNumber:          r.OrderNumber,
			Status:               model.QueuePending,
			LabelIssued:          new(bool),
			TermIssued:           new(bool),
			SampleLabelDelivered: new(bool),
			ImportedAt:           &stamp,
		})
	}
	return items
}
