package model

// Composition holds the nutrient guarantees printed on a label, as percentages
// typed by the operator. Empty or "0" values are omitted from the label.
type Composition struct {
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
	// CIBRA-only fields
	Mg      string `json:"mg,omitempty"`
	SO4     string `json:"so4,omitempty"`
	Aditivo string `json:"aditivo,omitempty"`
}

// Guarantee is one printable composition line.
type Guarantee struct {
	Label string
	Value string
}

// Guarantees returns the non-empty, non-zero composition lines in label order.
func (c Composition) Guarantees() []Guarantee {
	all := []Guarantee{
		{"Nitrogênio (N) Total", c.NTotal},
		{"P2O5 Sol. em CNA + H2O", c.P2O5Cna},
		{"P2O5 Solúvel em Água", c.P2O5Sol},
		{"Potássio (K2O) Sol. Água", c.K2OSol},
		{"Enxofre (S) Total", c.S},
		{"Cálcio (Ca) Total", c.Ca},
		{"Boro (B) Total", c.B},
		{"Cobre (Cu) Total", c.Cu},
		{"Manganês (Mn) Total", c.Mn},
		{"Zinco (Zn) Total", c.Zn},
		{"Inibidor NBPT", c.NBPT},
		{"Magnésio (Mg)", c.Mg},
		{"Sulfato (SO4)", c.SO4},
		{"Aditivo", c.Aditivo},
	}
	out := make([]Guarantee, 0, len(all))
	for _, g := range all {
		if g.Value != "" && g.Value != "0" {
			out = append(out, g)
		}
	}
	return out
}

// Product is a fertilizer in the label catalog. ID is a free-form string so
// the default catalog keeps its short seed ids ("1".."4").
type Product struct {
	ID          string      `gorm:"primaryKey"`
	Code        string      `gorm:"not null;index"`
	Name        string      `gorm:"not null;index"`
	ClientName  *string     // FERTIMAXI | CIBRA | nil = default client
	MapaReg     string      `gorm:"not null;default:''"`
	Application string      `gorm:"not null;default:''"`
	Category    string      `gorm:"not null;default:''"`
	Nature      string      `gorm:"not null;default:''"`
	Composition Composition `gorm:"type:jsonb;serializer:json"`
	EpBa        *string     // CIBRA-only
}

func (Product) TableName() string { return "products" }
