package infra

// documents.go: printable labels and withdrawal terms using go-pdf/fpdf.
//
// Labels are 105 × 160 mm, one page per physical label, so the label printer
// can take the file as-is. Terms are A4 portrait.

import (
	"bytes"
	"fmt"
	"strings"

	"fertilabel/internal/model"

	"github.com/go-pdf/fpdf"
)

const (
	issuerName    = "Intermarítima Portos e Logística S/A"
	issuerCNPJ    = "CNPJ: 14.505.514/0001-34"
	labelWidthMM  = 105.0
	labelHeightMM = 160.0
)

var brandGreen = [3]int{0, 112, 60}

// DocumentRenderer produces PDF bytes for labels and withdrawal terms.
type DocumentRenderer struct {
	defaultClient string
}

func NewDocumentRenderer(defaultClient string) *DocumentRenderer {
	return &DocumentRenderer{defaultClient: defaultClient}
}

// Labels renders qty identical labels for product / session.
// clientName overrides the product's client on the banner when not empty.
func (r *DocumentRenderer) Labels(product *model.Product, session model.LabelSession, qty int, clientName string) ([]byte, error) {
	if qty < 1 {
		return nil, fmt.Errorf("documents: label quantity must be positive, got %d", qty)
	}
	client := r.clientFor(product, clientName)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: labelWidthMM, Ht: labelHeightMM},
	})
	pdf.SetMargins(6, 6, 6)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i := 0; i < qty; i++ {
		pdf.AddPage()
		drawLabel(pdf, tr, product, session, client)
	}
	return output(pdf)
}

func drawLabel(pdf *fpdf.Fpdf, tr func(string) string, p *model.Product, s model.LabelSession, client string) {
	contentW := labelWidthMM - 12

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFillColor(brandGreen[0], brandGreen[1], brandGreen[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "BI", 14)
	pdf.CellFormat(contentW*0.45, 10, tr(client), "", 0, "C", true, 0, "")
	pdf.SetTextColor(brandGreen[0], brandGreen[1], brandGreen[2])
	pdf.SetFont("Helvetica", "B", 6)
	x, y := pdf.GetXY()
	pdf.SetXY(x, y+1)
	pdf.CellFormat(contentW*0.55, 4, tr(strings.ToUpper(issuerName)), "", 2, "R", false, 0, "")
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(contentW*0.55, 4, issuerCNPJ, "", 1, "R", false, 0, "")
	pdf.SetY(y + 12)
	pdf.SetDrawColor(brandGreen[0], brandGreen[1], brandGreen[2])
	pdf.SetLineWidth(1)
	pdf.Line(6, pdf.GetY(), labelWidthMM-6, pdf.GetY())
	pdf.Ln(3)

	// ── Product ──────────────────────────────────────────────────────────────
	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont("Helvetica", "B", 15)
	pdf.MultiCell(contentW, 7, tr(strings.ToUpper(p.Name)), "", "C", false)
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW, 5, tr(strings.ToUpper(p.Category)), "", 1, "C", false, 0, "")
	pdf.Ln(1)

	pdf.SetFillColor(236, 253, 245)
	pdf.SetFont("Helvetica", "B", 6)
	pdf.SetTextColor(5, 150, 105)
	pdf.CellFormat(contentW, 4, tr("NATUREZA FÍSICA"), "", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(brandGreen[0], brandGreen[1], brandGreen[2])
	pdf.CellFormat(contentW, 6, tr(strings.ToUpper(p.Nature)), "", 1, "C", true, 0, "")
	pdf.Ln(2)

	// ── Guarantees ───────────────────────────────────────────────────────────
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(203, 213, 225)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW*0.75, 5, "Garantias do Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.25, 5, "% p/p", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	for _, g := range p.Composition.Guarantees() {
		pdf.CellFormat(contentW*0.75, 4.5, tr(g.Label), "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.25, 4.5, g.Value+"%", "B", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW, 4, tr("REGISTRO NO MAPA Nº: "+p.MapaReg), "", 1, "C", false, 0, "")
	if p.Application != "" {
		pdf.SetFont("Helvetica", "", 6)
		pdf.CellFormat(contentW, 4, tr("APLICAÇÃO: "+strings.ToUpper(p.Application)), "", 1, "C", false, 0, "")
	}
	if p.EpBa != nil && *p.EpBa != "" {
		pdf.CellFormat(contentW, 4, "EP-BA: "+*p.EpBa, "", 1, "C", false, 0, "")
	}

	// ── Traceability ─────────────────────────────────────────────────────────
	pdf.SetY(labelHeightMM - 52)
	half := contentW / 2
	traceCell(pdf, tr, half, "Lote", orDashes(s.Lote, 8), 0)
	traceCell(pdf, tr, half, "Placa Veículo", orDashes(s.Placa, 7), 1)
	traceCell(pdf, tr, half, "Data de Fabricação", s.Fabricacao, 0)
	traceCell(pdf, tr, half, "Prazo de Validade", s.Validade, 1)

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 6)
	pdf.CellFormat(contentW, 4, tr("PESO LÍQUIDO"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 8, tr(s.Peso+" kg"), "", 1, "C", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 5)
	pdf.SetTextColor(100, 116, 139)
	pdf.MultiCell(contentW, 2.5, tr("Cuidados: Armazenar em local seco, ventilado e coberto. "+
		"Evitar contato direto com o solo. Mantenha fora do alcance de crianças e animais domésticos. "+
		"Para maiores informações sobre modo de uso e recomendações de aplicação, consulte um Engenheiro Agrônomo habilitado."),
		"T", "J", false)
}

func traceCell(pdf *fpdf.Fpdf, tr func(string) string, w float64, title, value string, ln int) {
	x, y := pdf.GetXY()
	pdf.SetFont("Helvetica", "", 5)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(w, 3, tr(strings.ToUpper(title)), "LTR", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(w, 6, tr(value), "LBR", 0, "L", false, 0, "")
	if ln == 1 {
		pdf.SetXY(6, y+9)
	} else {
		pdf.SetXY(x+w, y)
	}
}

// Term renders the withdrawal receipt for one driver.
func (r *DocumentRenderer) Term(t model.WithdrawalTerm) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFillColor(brandGreen[0], brandGreen[1], brandGreen[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "BI", 18)
	pdf.CellFormat(70, 12, tr("INTERMARÍTIMA"), "", 1, "C", true, 0, "")
	pdf.Ln(8)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 8, "TERMO DE RETIRADA DE LACRES E ETIQUETAS", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// ── Identification table ─────────────────────────────────────────────────
	pdf.SetFillColor(123, 179, 66)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 8, tr("IDENTIFICAÇÃO DO MOTORISTA"), "1", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	rows := [][2]string{
		{"CLIENTE", t.ClientName},
		{"NOME", t.DriverName},
		{"CPF", t.DriverCPF},
		{"TRANSPORTADOR", t.Carrier},
		{"PLACA CAVALO", t.TruckPlate},
	}
	if t.OrderNumber != "" {
		rows = append(rows, [2]string{"PEDIDO", t.OrderNumber})
	}
	if t.Lote != "" {
		rows = append(rows, [2]string{"LOTE", t.Lote})
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(249, 250, 251)
		pdf.CellFormat(45, 8, row[0], "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW-45, 8, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// ── Withdrawal data ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Dados da Retirada:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	items := []string{
		"Data da Retirada: " + t.Date,
		"Hora da Retirada: " + t.Time,
		"Quantidade de Lacres Retirados: " + t.SealsQuantity,
		"Quantidade de Etiquetas Retiradas: " + t.LabelsQuantity,
	}
	if t.SampleLabelDelivered {
		items = append(items, "Etiqueta de amostra entregue: SIM")
	}
	for _, it := range items {
		pdf.CellFormat(contentW, 6, tr("•  "+it), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentW, 5, tr("Declaro, para os devidos fins, que recebi os lacres e etiquetas acima descritos no Gate, "+
		"comprometendo-me a utilizá-los conforme as normas estabelecidas pela empresa. "+
		"Estou ciente de que este documento será anexado ao processo correspondente."), "", "J", false)
	pdf.Ln(25)

	// ── Signatures ───────────────────────────────────────────────────────────
	for _, who := range []string{"Assinatura do Motorista:", "Assinatura do Responsável pelo Gate:"} {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(70, 6, tr(who), "", 0, "L", false, 0, "")
		y := pdf.GetY() + 5
		pdf.Line(15+70, y, 15+contentW, y)
		pdf.Ln(18)
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetY(-40)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 4, tr(issuerName), "T", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	for _, line := range []string{"VIA MATOIM, 482", "DISTRITO INDUSTRIAL - CEP. 43.813-000", "CANDEIAS - BA", "www.intermaritima.com.br"} {
		pdf.CellFormat(contentW, 3.5, line, "", 1, "L", false, 0, "")
	}

	return output(pdf)
}

func (r *DocumentRenderer) clientFor(p *model.Product, override string) string {
	if override != "" {
		return strings.ToUpper(override)
	}
	if p.ClientName != nil && *p.ClientName != "" {
		return *p.ClientName
	}
	return r.defaultClient
}

func orDashes(v string, n int) string {
	if v == "" {
		return strings.Repeat("-", n)
	}
	return v
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("documents: render: %w", err)
	}
	return buf.Bytes(), nil
}
