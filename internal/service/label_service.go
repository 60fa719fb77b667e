package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"fertilabel/internal/dto"
	"fertilabel/internal/labelqty"
	"fertilabel/internal/model"
	"fertilabel/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DocumentRenderer produces printable PDFs. Implemented by infra.DocumentRenderer.
type DocumentRenderer interface {
	Labels(product *model.Product, session model.LabelSession, qty int, clientName string) ([]byte, error)
	Term(term model.WithdrawalTerm) ([]byte, error)
}

// LabelService issues shipment labels.
type LabelService interface {
	// Suggest is advisory: an unparseable tonelada keeps previous.
	Suggest(client, tonelada string, previous int) dto.SuggestLabelsResponse
	Print(ctx context.Context, req dto.PrintLabelsRequest) ([]byte, error)
	// Reprint renders a history record's labels again without touching history.
	Reprint(ctx context.Context, historyID uuid.UUID) ([]byte, error)
}

type labelService struct {
	products repository.ProductRepository
	history  HistoryService
	queue    QueueService
	renderer DocumentRenderer
	settings Settings
}

func NewLabelService(
	products repository.ProductRepository,
	history HistoryService,
	queue QueueService,
	renderer DocumentRenderer,
	settings Settings,
) LabelService {
	return &labelService{
		products: products,
		history:  history,
		queue:    queue,
		renderer: renderer,
		settings: settings,
	}
}

func (s *labelService) Suggest(client, tonelada string, previous int) dto.SuggestLabelsResponse {
	if client == "" {
		client = s.settings.DefaultClient
	}
	conv := labelqty.ConventionFor(client, s.settings.MassClients)
	return dto.SuggestLabelsResponse{
		Convention: conv.String(),
		Suggested:  labelqty.Suggest(conv, tonelada, previous),
	}
}

func (s *labelService) Print(ctx context.Context, req dto.PrintLabelsRequest) ([]byte, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	session := sessionFromDTO(req.Session)
	session.Lote = strings.TrimSpace(session.Lote)
	session.Placa = strings.ToUpper(strings.TrimSpace(session.Placa))
	if missing := missingSessionFields(session); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	if req.LabelsQuantity < 1 {
		return nil, ErrInvalidQuantity
	}

	client := s.clientFor(product, req.ClientName)
	pdf, err := s.renderer.Labels(product, session, req.LabelsQuantity, client)
	if err != nil {
		return nil, err
	}

	if req.SaveHistory {
		if _, err := s.history.RecordLabel(ctx, product, session, req.LabelsQuantity, client); err != nil {
			return nil, err
		}
	}
	if req.QueueItemID != nil && *req.QueueItemID != "" {
		if qid, err := uuid.Parse(*req.QueueItemID); err == nil {
			if err := s.queue.MarkLabelIssued(ctx, qid); err != nil {
				log.Warn().Err(err).Str("queue_item_id", qid.String()).Msg("labels printed but queue item not flagged")
			}
		}
	}

	log.Info().
		Str("product", product.Code).
		Str("lote", session.Lote).
		Str("placa", session.Placa).
		Int("labels", req.LabelsQuantity).
		Msg("labels rendered")
	return pdf, nil
}

func (s *labelService) Reprint(ctx context.Context, historyID uuid.UUID) ([]byte, error) {
	rec, err := s.history.Get(ctx, historyID)
	if err != nil {
		return nil, err
	}
	product, err := s.productForRecord(ctx, rec)
	if err != nil {
		return nil, err
	}
	qty, err := strconv.Atoi(strings.TrimSpace(rec.LabelsQuantity))
	if err != nil || qty < 1 {
		return nil, ErrInvalidQuantity
	}
	session := model.LabelSession{
		Lote:     rec.Lote,
		Placa:    rec.Placa,
		Tonelada: rec.Tonelada,
		Peso:     "1.000",
	}
	return s.renderer.Labels(product, session, qty, s.clientFor(product, rec.ClientName))
}

// productForRecord resolves the catalog entry by code first, then by exact name.
func (s *labelService) productForRecord(ctx context.Context, rec *model.GenerationRecord) (*model.Product, error) {
	if rec.ProductCode != "" {
		p, err := s.products.FindByCode(ctx, rec.ProductCode)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	catalog, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range catalog {
		if catalog[i].Name == rec.ProductName {
			return &catalog[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *labelService) clientFor(p *model.Product, requested string) string {
	if c := strings.ToUpper(strings.TrimSpace(requested)); c != "" {
		return c
	}
	if p.ClientName != nil && *p.ClientName != "" {
		return *p.ClientName
	}
	return s.settings.DefaultClient
}

func missingSessionFields(s model.LabelSession) []string {
	var missing []string
	if s.Lote == "" {
		missing = append(missing, "Lote")
	}
	if s.Placa == "" {
		missing = append(missing, "Placa")
	}
	if strings.TrimSpace(s.Tonelada) == "" {
		missing = append(missing, "Tonelagem")
	}
	if strings.TrimSpace(s.Fabricacao) == "" {
		missing = append(missing, "Fabricação")
	}
	if strings.TrimSpace(s.Validade) == "" {
		missing = append(missing, "Validade")
	}
	return missing
}
