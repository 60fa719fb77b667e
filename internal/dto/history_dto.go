package dto

import "time"

// ─── Filter ──────────────────────────────────────────────────────────────────

// Term filter values.
const (
	TermFilterAll     = "all"
	TermFilterWith    = "with"
	TermFilterWithout = "without"
)

type HistoryFilter struct {
	Search string `form:"search"`
	Term   string `form:"term,default=all" validate:"omitempty,oneof=all with without"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type GenerationRecordResponse struct {
	ID                   string    `json:"id"`
	Timestamp            time.Time `json:"timestamp"`
	ProductName          string    `json:"productName"`
	ProductCode          string    `json:"productCode"`
	ProductNature        *string   `json:"productNature,omitempty"`
	ClientName           string    `json:"clientName"`
	Lote                 string    `json:"lote"`
	Placa                string    `json:"placa"`
	Tonelada             string    `json:"tonelada"`
	LabelsQuantity       string    `json:"labelsQuantity"`
	TermGenerated        bool      `json:"termGenerated"`
	LabelGenerated       *bool     `json:"labelGenerated,omitempty"`
	DriverName           *string   `json:"driverName,omitempty"`
	DriverCPF            *string   `json:"driverCpf,omitempty"`
	Carrier              *string   `json:"carrier,omitempty"`
	SealsQuantity        *string   `json:"sealsQuantity,omitempty"`
	Date                 *string   `json:"date,omitempty"`
	Time                 *string   `json:"time,omitempty"`
	SampleLabelDelivered *bool     `json:"sampleLabelDelivered,omitempty"`
	OrderNumber          *string   `json:"orderNumber,omitempty"`
}
