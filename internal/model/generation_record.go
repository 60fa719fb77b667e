package model

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRecordVersion is bumped whenever optional fields are added to
// GenerationRecord so old rows can be told apart from new ones.
const GenerationRecordVersion = 2

// GenerationRecord is the audit entry for one (lote, placa, product)
// combination. Labels and terms for the same lote+placa update the row in
// place instead of adding a new one.
//
// ProductName, ProductCode, ProductNature and ClientName are a snapshot taken
// when the row is created and are never rewritten when the catalog changes.
type GenerationRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Timestamp time.Time `gorm:"not null;index"`

	ProductName   string `gorm:"not null"`
	ProductCode   string `gorm:"not null"`
	ProductNature *string
	ClientName    string `gorm:"not null;default:''"`

	Lote           string `gorm:"not null;index:idx_history_lote_placa"`
	Placa          string `gorm:"not null;index:idx_history_lote_placa"`
	Tonelada       string `gorm:"not null;default:''"`
	LabelsQuantity string `gorm:"not null;default:'0'"`

	TermGenerated  bool `gorm:"not null;default:false"`
	LabelGenerated *bool

	// Withdrawal term fields, present once a term was issued.
	DriverName           *string
	DriverCPF            *string `gorm:"column:driver_cpf"`
	Carrier              *string
	SealsQuantity        *string
	Date                 *string
	Time                 *string
	SampleLabelDelivered *bool
	OrderNumber          *string

	SchemaVersion int `gorm:"not null;default:1"`
	UpdatedAt     time.Time
}

func (GenerationRecord) TableName() string { return "generation_history" }

// WithdrawalTerm rebuilds the driver's receipt stored on the record.
func (r GenerationRecord) WithdrawalTerm() WithdrawalTerm {
	t := WithdrawalTerm{
		ClientName:     r.ClientName,
		TruckPlate:     r.Placa,
		LabelsQuantity: r.LabelsQuantity,
		SealsQuantity:  r.LabelsQuantity,
		Lote:           r.Lote,
		ProductName:    r.ProductName,
		Tonelada:       r.Tonelada,
	}
	if r.DriverName != nil {
		t.DriverName = *r.DriverName
	}
	if r.DriverCPF != nil {
		t.DriverCPF = *r.DriverCPF
	}
	if r.Carrier != nil {
		t.Carrier = *r.Carrier
	}
	if r.SealsQuantity != nil && *r.SealsQuantity != "" {
		t.SealsQuantity = *r.SealsQuantity
	}
	if r.Date != nil {
		t.Date = *r.Date
	}
	if r.Time != nil {
		t.Time = *r.Time
	}
	if r.SampleLabelDelivered != nil {
		t.SampleLabelDelivered = *r.SampleLabelDelivered
	}
	if r.OrderNumber != nil {
		t.OrderNumber = *r.OrderNumber
	}
	t.HasSeals = t.SealsQuantity != "" && t.SealsQuantity != "0"
	return t
}
