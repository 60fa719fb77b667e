package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LabelSessionDTO carries the per-shipment values typed in the label form.
type LabelSessionDTO struct {
	Lote       string `json:"lote"`
	Placa      string `json:"placa"`
	Tonelada   string `json:"tonelada"`
	Fabricacao string `json:"fabricacao"`
	Validade   string `json:"validade"`
	Peso       string `json:"peso"`
}

type PrintLabelsRequest struct {
	ProductID      string          `json:"productId"      validate:"required"`
	ClientName     string          `json:"clientName"`
	Session        LabelSessionDTO `json:"session"`
	LabelsQuantity int             `json:"labelsQuantity" validate:"required,min=1,max=500"`
	// SaveHistory records the run in the generation history.
	SaveHistory bool `json:"saveHistory"`
	// QueueItemID marks the originating queue vehicle as label_issued.
	QueueItemID *string `json:"queueItemId" validate:"omitempty,uuid"`
}

type SuggestLabelsQuery struct {
	Client   string `form:"client"`
	Tonelada string `form:"tonelada"`
	Previous int    `form:"previous,default=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SuggestLabelsResponse struct {
	Convention string `json:"convention"` // ton | kg
	Suggested  int    `json:"suggested"`
}
