package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fertilabel/internal/dto"
	"fertilabel/internal/labelqty"
	"fertilabel/internal/loadorder"
	"fertilabel/internal/model"
	"fertilabel/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const noRowsMessage = "Nenhum veículo identificado no PDF. Verifique o formato do arquivo."

// TextExtractor turns an uploaded load order into plain text.
// Implemented by infra.PDFTextExtractor.
type TextExtractor interface {
	ExtractText(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}

// QueueService manages the vehicle loading queue.
type QueueService interface {
	Import(ctx context.Context, r io.ReaderAt, size int64) (*dto.ImportResponse, error)
	List(ctx context.Context) ([]dto.QueueItemResponse, error)
	Subscribe(ctx context.Context, onChange func([]dto.QueueItemResponse)) (Unsubscribe, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.QueueStatus) error
	UpdateFlags(ctx context.Context, id uuid.UUID, req dto.UpdateQueueFlagsRequest) error
	// MarkLabelIssued sets status label_issued and the labelIssued flag in one write.
	MarkLabelIssued(ctx context.Context, id uuid.UUID) error
	Remove(ctx context.Context, id uuid.UUID) error
	// Reorder assigns order i+1 to ids[i]. ids must list every queued item once;
	// only items whose order changes are written.
	Reorder(ctx context.Context, ids []uuid.UUID) (int, error)
	// Compact renumbers the current queue 1..N without changing its sequence.
	Compact(ctx context.Context) (int, error)
	Clear(ctx context.Context) (int, error)
	StartLabel(ctx context.Context, id uuid.UUID) (*dto.StartLabelResponse, error)
}

type queueService struct {
	repo      repository.QueueRepository
	products  repository.ProductRepository
	extractor TextExtractor
	notifier  Notifier
	settings  Settings
	now       func() time.Time
}

func NewQueueService(
	repo repository.QueueRepository,
	products repository.ProductRepository,
	extractor TextExtractor,
	notifier Notifier,
	settings Settings,
) QueueService {
	return &queueService{
		repo:      repo,
		products:  products,
		extractor: extractor,
		notifier:  notifier,
		settings:  settings,
		now:       time.Now,
	}
}

func (s *queueService) Import(ctx context.Context, r io.ReaderAt, size int64) (*dto.ImportResponse, error) {
	text, err := s.extractor.ExtractText(ctx, r, size)
	if err != nil {
		if !errors.Is(err, loadorder.ErrExtraction) {
			err = fmt.Errorf("%w: %v", loadorder.ErrExtraction, err)
		}
		return nil, err
	}

	rows := loadorder.MatchRows(text)
	if len(rows) == 0 {
		log.Info().Msg("queue import: no rows matched")
		return &dto.ImportResponse{
			Outcome: dto.ImportOutcomeNoRows,
			Message: noRowsMessage,
			Items:   []dto.QueueItemResponse{},
		}, nil
	}

	queueLen, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := loadorder.BuildQueueItems(rows, queueLen, s.now(), s.settings.location())

	created := make([]dto.QueueItemResponse, 0, len(items))
	for i := range items {
		if err := s.repo.Create(ctx, &items[i]); err != nil {
			log.Error().Err(err).Int("written", i).Int("matched", len(items)).Msg("queue import: write failed")
			if i > 0 {
				publish(ctx, s.notifier, TopicQueue)
			}
			return nil, &ImportWriteError{Written: i, Err: err}
		}
		created = append(created, toQueueItemResponse(items[i]))
	}
	publish(ctx, s.notifier, TopicQueue)

	log.Info().Int("imported", len(created)).Int("queue_len", queueLen+len(created)).Msg("queue import: done")
	return &dto.ImportResponse{
		Outcome:  dto.ImportOutcomeImported,
		Imported: len(created),
		Message:  fmt.Sprintf("%d veículos importados", len(created)),
		Items:    created,
	}, nil
}

func (s *queueService) List(ctx context.Context) ([]dto.QueueItemResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toQueueItemResponses(items), nil
}

func (s *queueService) Subscribe(ctx context.Context, onChange func([]dto.QueueItemResponse)) (Unsubscribe, error) {
	return subscribeSnapshots(ctx, s.notifier, TopicQueue, s.List, onChange)
}

func (s *queueService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QueueStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.update(ctx, id, map[string]interface{}{"status": string(status)})
}

func (s *queueService) UpdateFlags(ctx context.Context, id uuid.UUID, req dto.UpdateQueueFlagsRequest) error {
	fields := map[string]interface{}{}
	if req.LabelIssued != nil {
		fields["label_issued"] = *req.LabelIssued
	}
	if req.TermIssued != nil {
		fields["term_issued"] = *req.TermIssued
	}
	if req.SampleLabelDelivered != nil {
		fields["sample_label_delivered"] = *req.SampleLabelDelivered
	}
	if len(fields) == 0 {
		return nil
	}
	return s.update(ctx, id, fields)
}

func (s *queueService) MarkLabelIssued(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, id, map[string]interface{}{
		"status":       string(model.QueueLabelIssued),
		"label_issued": true,
	})
}

func (s *queueService) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return notFound(err)
	}
	publish(ctx, s.notifier, TopicQueue)
	return nil
}

func (s *queueService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	publish(ctx, s.notifier, TopicQueue)
	return nil
}

func (s *queueService) Reorder(ctx context.Context, ids []uuid.UUID) (int, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	current := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		current[it.ID] = it.Order
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if _, ok := current[id]; !ok {
			return 0, ErrNotFound
		}
		if seen[id] {
			return 0, FieldErrors{"ids": "item repetido na nova ordem"}
		}
		seen[id] = true
	}
	if len(ids) != len(items) {
		return 0, FieldErrors{"ids": "a nova ordem deve conter todos os itens da fila"}
	}

	written := 0
	for i, id := range ids {
		if current[id] == i+1 {
			continue
		}
		if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"order": i + 1}); err != nil {
			if written > 0 {
				publish(ctx, s.notifier, TopicQueue)
			}
			return written, notFound(err)
		}
		written++
	}
	if written > 0 {
		publish(ctx, s.notifier, TopicQueue)
	}
	return written, nil
}

func (s *queueService) Compact(ctx context.Context) (int, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return s.Reorder(ctx, ids)
}

func (s *queueService) Clear(ctx context.Context) (int, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, it := range items {
		if err := s.repo.Delete(ctx, it.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			if removed > 0 {
				publish(ctx, s.notifier, TopicQueue)
			}
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		publish(ctx, s.notifier, TopicQueue)
	}
	log.Info().Int("removed", removed).Msg("queue cleared")
	return removed, nil
}

func (s *queueService) StartLabel(ctx context.Context, id uuid.UUID) (*dto.StartLabelResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	catalog, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	product := matchProduct(catalog, item.ProductName)

	if err := s.update(ctx, id, map[string]interface{}{"status": string(model.QueueLabelIssued)}); err != nil {
		return nil, err
	}
	item.Status = model.QueueLabelIssued

	client := s.settings.DefaultClient
	resp := &dto.StartLabelResponse{Item: toQueueItemResponse(*item)}
	if product != nil {
		pr := toProductResponse(*product)
		resp.Product = &pr
		if product.ClientName != nil && *product.ClientName != "" {
			client = *product.ClientName
		}
	}

	today := s.now().In(s.settings.location())
	resp.Session = dto.LabelSessionDTO{
		Placa:      item.Placa,
		Tonelada:   item.Quantity,
		Fabricacao: today.Format(brDate),
		Validade:   today.AddDate(1, 0, 0).Format(brDate),
		Peso:       "1.000",
	}
	conv := labelqty.ConventionFor(client, s.settings.MassClients)
	resp.SuggestedLabels = labelqty.Suggest(conv, item.Quantity, 1)
	return resp, nil
}
