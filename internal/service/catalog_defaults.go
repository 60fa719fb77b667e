package service

import "fertilabel/internal/model"

const (
	defaultApplication = "VIA SOLO"
	defaultCategory    = "FERTILIZANTE MINERAL SIMPLES"
)

// defaultProducts is the catalog a fresh installation starts with.
func defaultProducts() []model.Product {
	return []model.Product{
		{
			ID: "1", Code: "SA-001", Name: "SULFATO DE AMONIO",
			MapaReg: "BA 000541-0.000204", Application: defaultApplication,
			Category: defaultCategory, Nature: "FARELADO",
			Composition: model.Composition{NTotal: "21", P2O5Cna: "0", P2O5Sol: "0", K2OSol: "0", S: "23"},
		},
		{
			ID: "2", Code: "UR-002", Name: "UREIA",
			MapaReg: "BA 000541-0.000203", Application: defaultApplication,
			Category: defaultCategory, Nature: "GRANULADO",
			Composition: model.Composition{NTotal: "46", P2O5Cna: "0", P2O5Sol: "0", K2OSol: "0"},
		},
		{
			ID: "3", Code: "SS-003", Name: "SUPER SIMPLES",
			MapaReg: "BA 000541-0.000205", Application: defaultApplication,
			Category: defaultCategory, Nature: "GRANULADO",
			Composition: model.Composition{NTotal: "0", P2O5Cna: "19", P2O5Sol: "0", K2OSol: "0", S: "10", Ca: "16"},
		},
		{
			ID: "4", Code: "KC-004", Name: "CLORETO DE POTASSIO",
			MapaReg: "BA 000541-0.000206", Application: defaultApplication,
			Category: defaultCategory, Nature: "GRANULADO",
			Composition: model.Composition{NTotal: "0", P2O5Cna: "0", P2O5Sol: "0", K2OSol: "60"},
		},
	}
}
