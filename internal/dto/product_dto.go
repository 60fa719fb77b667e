package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CompositionDTO struct {
	NTotal  string `json:"nTotal"`
	P2O5Cna string `json:"p2o5Cna"`
	P2O5Sol string `json:"p2o5Sol"`
	K2OSol  string `json:"k2oSol"`
	S       string `json:"s"`
	Ca      string `json:"ca"`
	B       string `json:"b"`
	Cu      string `json:"cu"`
	Mn      string `json:"mn"`
	Zn      string `json:"zn"`
	NBPT    string `json:"nbpt"`
	Mg      string `json:"mg,omitempty"`
	SO4     string `json:"so4,omitempty"`
	Aditivo string `json:"aditivo,omitempty"`
}

type SaveProductRequest struct {
	Code        string         `json:"code"        validate:"required,max=30"`
	Name        string         `json:"name"        validate:"required,min=2,max=120"`
	ClientName  *string        `json:"clientName"  validate:"omitempty,max=60"`
	MapaReg     string         `json:"mapaReg"     validate:"max=60"`
	Application string         `json:"application" validate:"max=60"`
	Category    string         `json:"category"    validate:"max=120"`
	Nature      string         `json:"nature"      validate:"max=60"`
	Composition CompositionDTO `json:"composition"`
	EpBa        *string        `json:"epBa"`
}

type ProductFilter struct {
	Q string `form:"q"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string         `json:"id"`
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	ClientName  *string        `json:"clientName,omitempty"`
	MapaReg     string         `json:"mapaReg"`
	Application string         `json:"application"`
	Category    string         `json:"category"`
	Nature      string         `json:"nature"`
	Composition CompositionDTO `json:"composition"`
	EpBa        *string        `json:"epBa,omitempty"`
}
