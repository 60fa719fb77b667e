package model

import (
	"time"

	"github.com/google/uuid"
)

// QueueStatus is the primary lifecycle of a vehicle in the loading queue.
// The intended path is pending → label_issued → completed, but any status may
// be set directly (completed → pending is how an operator reopens a vehicle).
type QueueStatus string

const (
	QueuePending     QueueStatus = "pending"
	QueueLabelIssued QueueStatus = "label_issued"
	QueueCompleted   QueueStatus = "completed"
)

// Valid reports whether s is one of the three known statuses.
func (s QueueStatus) Valid() bool {
	switch s {
	case QueuePending, QueueLabelIssued, QueueCompleted:
		return true
	}
	return false
}

// QueueItem is one vehicle's pending loading task.
//
// Order is unique within the active queue at any instant but is reused after
// deletions and compaction; ID is the stable identity.
// The sub-task flags are independent of Status: a completed vehicle does not
// force them true.
type QueueItem struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Order       int         `gorm:"column:order;not null;index"`
	Placa       string      `gorm:"not null;index"`
	Carrier     string      `gorm:"not null"`
	ProductName string      `gorm:"not null"`
	Quantity    string      `gorm:"not null"` // tons, or kg for mass-convention clients
	OrderNumber string      `gorm:"not null"`
	Status      QueueStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	LabelIssued          *bool
	TermIssued           *bool
	SampleLabelDelivered *bool

	// ImportedAt is shared by every item of one import batch ("when this list was loaded").
	ImportedAt *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the collection name used by the operators' tooling.
func (QueueItem) TableName() string { return "queue_items" }
