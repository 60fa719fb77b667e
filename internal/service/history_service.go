package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"fertilabel/internal/dto"
	"fertilabel/internal/model"
	"fertilabel/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// HistoryService keeps the audit trail of issued labels and terms.
// One record exists per lote+placa; later labels and terms update it in place.
type HistoryService interface {
	RecordLabel(ctx context.Context, product *model.Product, session model.LabelSession, labelsQuantity int, clientName string) (*model.GenerationRecord, error)
	// RecordTerm attaches a withdrawal term to recordID, or to the lote+placa
	// match when recordID is nil, creating a record when neither exists.
	RecordTerm(ctx context.Context, recordID *uuid.UUID, term model.WithdrawalTerm) (*model.GenerationRecord, error)
	ListRecent(ctx context.Context, filter dto.HistoryFilter) ([]dto.GenerationRecordResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.GenerationRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Subscribe(ctx context.Context, filter dto.HistoryFilter, onChange func([]dto.GenerationRecordResponse)) (Unsubscribe, error)
}

type historyService struct {
	repo     repository.HistoryRepository
	notifier Notifier
	window   int
	now      func() time.Time
}

func NewHistoryService(repo repository.HistoryRepository, notifier Notifier, settings Settings) HistoryService {
	window := settings.HistoryWindow
	if window <= 0 {
		window = 50
	}
	return &historyService{repo: repo, notifier: notifier, window: window, now: time.Now}
}

func (s *historyService) RecordLabel(
	ctx context.Context,
	product *model.Product,
	session model.LabelSession,
	labelsQuantity int,
	clientName string,
) (*model.GenerationRecord, error) {
	qty := strconv.Itoa(labelsQuantity)

	existing, err := s.repo.FindByLotePlaca(ctx, session.Lote, session.Placa)
	switch {
	case err == nil:
		fields := map[string]interface{}{
			"tonelada":        session.Tonelada,
			"labels_quantity": qty,
			"label_generated": true,
		}
		if err := s.repo.UpdateFields(ctx, existing.ID, fields); err != nil {
			return nil, notFound(err)
		}
		existing.Tonelada = session.Tonelada
		existing.LabelsQuantity = qty
		existing.LabelGenerated = ptr(true)
		publish(ctx, s.notifier, TopicHistory)
		log.Info().Str("record_id", existing.ID.String()).Str("lote", session.Lote).Msg("history: label run updated")
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	rec := &model.GenerationRecord{
		ID:             uuid.New(),
		Timestamp:      s.now(),
		ProductName:    product.Name,
		ProductCode:    product.Code,
		ProductNature:  ptr(product.Nature),
		ClientName:     clientName,
		Lote:           session.Lote,
		Placa:          session.Placa,
		Tonelada:       session.Tonelada,
		LabelsQuantity: qty,
		LabelGenerated: ptr(true),
		SchemaVersion:  model.GenerationRecordVersion,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	publish(ctx, s.notifier, TopicHistory)
	log.Info().Str("record_id", rec.ID.String()).Str("lote", rec.Lote).Msg("history: label run recorded")
	return rec, nil
}

func (s *historyService) RecordTerm(ctx context.Context, recordID *uuid.UUID, term model.WithdrawalTerm) (*model.GenerationRecord, error) {
	var (
		existing *model.GenerationRecord
		err      error
	)
	switch {
	case recordID != nil:
		existing, err = s.repo.FindByID(ctx, *recordID)
		if err != nil {
			return nil, notFound(err)
		}
	case term.Lote != "":
		existing, err = s.repo.FindByLotePlaca(ctx, term.Lote, term.TruckPlate)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if existing != nil {
		fields := map[string]interface{}{
			"term_generated":         true,
			"driver_name":            term.DriverName,
			"driver_cpf":             term.DriverCPF,
			"carrier":                term.Carrier,
			"seals_quantity":         term.SealsQuantity,
			"date":                   term.Date,
			"time":                   term.Time,
			"sample_label_delivered": term.SampleLabelDelivered,
			"schema_version":         model.GenerationRecordVersion,
		}
		if term.OrderNumber != "" {
			fields["order_number"] = term.OrderNumber
		}
		if err := s.repo.UpdateFields(ctx, existing.ID, fields); err != nil {
			return nil, notFound(err)
		}
		applyTerm(existing, term)
		publish(ctx, s.notifier, TopicHistory)
		log.Info().Str("record_id", existing.ID.String()).Msg("history: term attached")
		return existing, nil
	}

	rec := &model.GenerationRecord{
		ID:             uuid.New(),
		Timestamp:      s.now(),
		ProductName:    term.ProductName,
		ClientName:     term.ClientName,
		Lote:           term.Lote,
		Placa:          term.TruckPlate,
		Tonelada:       term.Tonelada,
		LabelsQuantity: term.LabelsQuantity,
		LabelGenerated: ptr(false),
		SchemaVersion:  model.GenerationRecordVersion,
	}
	applyTerm(rec, term)
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	publish(ctx, s.notifier, TopicHistory)
	log.Info().Str("record_id", rec.ID.String()).Msg("history: term recorded")
	return rec, nil
}

func applyTerm(rec *model.GenerationRecord, term model.WithdrawalTerm) {
	rec.TermGenerated = true
	rec.DriverName = ptr(term.DriverName)
	rec.DriverCPF = ptr(term.DriverCPF)
	rec.Carrier = ptr(term.Carrier)
	rec.SealsQuantity = ptr(term.SealsQuantity)
	rec.Date = ptr(term.Date)
	rec.Time = ptr(term.Time)
	rec.SampleLabelDelivered = ptr(term.SampleLabelDelivered)
	if term.OrderNumber != "" {
		rec.OrderNumber = ptr(term.OrderNumber)
	}
	rec.SchemaVersion = model.GenerationRecordVersion
}

func (s *historyService) ListRecent(ctx context.Context, filter dto.HistoryFilter) ([]dto.GenerationRecordResponse, error) {
	recs, err := s.repo.ListRecent(ctx, s.window)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]dto.GenerationRecordResponse, 0, len(recs))
	for _, r := range recs {
		if matchesTerm(r, filter.Term) && matchesSearch(r, search) {
			out = append(out, toRecordResponse(r))
		}
	}
	return out, nil
}

func matchesTerm(r model.GenerationRecord, term string) bool {
	switch term {
	case dto.TermFilterWith:
		return r.TermGenerated
	case dto.TermFilterWithout:
		return !r.TermGenerated
	default:
		return true
	}
}

func matchesSearch(r model.GenerationRecord, search string) bool {
	if search == "" {
		return true
	}
	fields := []string{r.ProductName, r.Placa, r.Lote}
	if r.DriverName != nil {
		fields = append(fields, *r.DriverName)
	}
	if r.Carrier != nil {
		fields = append(fields, *r.Carrier)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func (s *historyService) Get(ctx context.Context, id uuid.UUID) (*model.GenerationRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return rec, nil
}

func (s *historyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	publish(ctx, s.notifier, TopicHistory)
	return nil
}

func (s *historyService) Subscribe(ctx context.Context, filter dto.HistoryFilter, onChange func([]dto.GenerationRecordResponse)) (Unsubscribe, error) {
	load := func(ctx context.Context) ([]dto.GenerationRecordResponse, error) {
		return s.ListRecent(ctx, filter)
	}
	return subscribeSnapshots(ctx, s.notifier, TopicHistory, load, onChange)
}
