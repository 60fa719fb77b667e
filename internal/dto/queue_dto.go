package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UpdateQueueStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending label_issued completed"`
}

// UpdateQueueFlagsRequest only touches the flags that are present.
type UpdateQueueFlagsRequest struct {
	LabelIssued          *bool `json:"labelIssued"`
	TermIssued           *bool `json:"termIssued"`
	SampleLabelDelivered *bool `json:"sampleLabelDelivered"`
}

type ReorderQueueRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type QueueItemResponse struct {
	ID                   string  `json:"id"`
	Order                int     `json:"order"`
	Placa                string  `json:"placa"`
	Carrier              string  `json:"carrier"`
	ProductName          string  `json:"productName"`
	Quantity             string  `json:"quantity"`
	OrderNumber          string  `json:"orderNumber"`
	Status               string  `json:"status"`
	LabelIssued          bool    `json:"labelIssued"`
	TermIssued           bool    `json:"termIssued"`
	SampleLabelDelivered bool    `json:"sampleLabelDelivered"`
	ImportedAt           *string `json:"importedAt,omitempty"`
}

// Import outcomes.
const (
	ImportOutcomeImported = "imported"
	ImportOutcomeNoRows   = "no_rows"
)

type ImportResponse struct {
	Outcome  string              `json:"outcome"`
	Imported int                 `json:"imported"`
	Message  string              `json:"message"`
	Items    []QueueItemResponse `json:"items"`
}

// StartLabelResponse prefills the label form for a queued vehicle.
type StartLabelResponse struct {
	Item            QueueItemResponse `json:"item"`
	Product         *ProductResponse  `json:"product"` // nil when no catalog product matches
	Session         LabelSessionDTO   `json:"session"`
	SuggestedLabels int               `json:"suggestedLabels"`
}
