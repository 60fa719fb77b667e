package model

// LabelSession holds the per-shipment values printed on every label of a run.
// Dates are pt-BR strings (dd/mm/yyyy) exactly as printed.
type LabelSession struct {
	Lote       string `json:"lote"`
	Placa      string `json:"placa"`
	Tonelada   string `json:"tonelada"` // kg total for mass-convention clients
	Fabricacao string `json:"fabricacao"`
	Validade   string `json:"validade"`
	Peso       string `json:"peso"`
}

// WithdrawalTerm is the driver's receipt (Termo de Retirada) for the seals
// and labels collected at the gate. It is not stored on its own: its fields are
// copied onto the GenerationRecord of the shipment.
type WithdrawalTerm struct {
	ClientName           string
	DriverName           string
	DriverCPF            string
	Carrier              string
	TruckPlate           string
	Date                 string
	Time                 string
	SealsQuantity        string
	LabelsQuantity       string
	HasSeals             bool
	SampleLabelDelivered bool
	OrderNumber          string
	Lote                 string
	ProductName          string
	Tonelada             string
}
