package service

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"fertilabel/internal/dto"
	"fertilabel/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrNoTerm = errors.New("este registro ainda não possui termo de retirada")

// TermDispatcher queues a withdrawal term for e-mail delivery.
// Implemented by worker.Dispatcher.
type TermDispatcher interface {
	EnqueueTermEmail(ctx context.Context, recordID uuid.UUID, to string) error
}

// TermService issues withdrawal terms (Termo de Retirada de Lacres e Etiquetas).
type TermService interface {
	Normalize(req dto.WithdrawalTermRequest) model.WithdrawalTerm
	Validate(t model.WithdrawalTerm) error
	Save(ctx context.Context, req dto.WithdrawalTermRequest) (*dto.GenerationRecordResponse, error)
	Render(ctx context.Context, historyID uuid.UUID) ([]byte, error)
}

type termService struct {
	history    HistoryService
	queue      QueueService
	renderer   DocumentRenderer
	dispatcher TermDispatcher
	settings   Settings
	validate   *validator.Validate
	now        func() time.Time
}

func NewTermService(
	history HistoryService,
	queue QueueService,
	renderer DocumentRenderer,
	dispatcher TermDispatcher,
	settings Settings,
) TermService {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return &termService{
		history:    history,
		queue:      queue,
		renderer:   renderer,
		dispatcher: dispatcher,
		settings:   settings,
		validate:   v,
		now:        time.Now,
	}
}

func (s *termService) Normalize(req dto.WithdrawalTermRequest) model.WithdrawalTerm {
	now := s.now().In(s.settings.location())
	t := model.WithdrawalTerm{
		ClientName:           upper(req.ClientName),
		DriverName:           upper(req.DriverName),
		DriverCPF:            formatCPF(req.DriverCPF),
		Carrier:              upper(req.Carrier),
		TruckPlate:           upper(req.TruckPlate),
		Date:                 strings.TrimSpace(req.Date),
		Time:                 strings.TrimSpace(req.Time),
		SealsQuantity:        strings.TrimSpace(req.SealsQuantity),
		LabelsQuantity:       strings.TrimSpace(req.LabelsQuantity),
		HasSeals:             req.HasSeals,
		SampleLabelDelivered: req.SampleLabelDelivered,
		OrderNumber:          strings.TrimSpace(req.OrderNumber),
		Lote:                 upper(req.Lote),
		ProductName:          upper(req.ProductName),
		Tonelada:             strings.TrimSpace(req.Tonelada),
	}
	if t.ClientName == "" {
		t.ClientName = upper(s.settings.DefaultClient)
	}
	if t.Date == "" {
		t.Date = now.Format(brDate)
	}
	if t.Time == "" {
		t.Time = now.Format(brTime)
	}
	switch {
	case !t.HasSeals:
		t.SealsQuantity = "0"
	case t.SealsQuantity == "":
		t.SealsQuantity = t.LabelsQuantity
	}
	return t
}

type termRules struct {
	ClientName     string `json:"clientName"     validate:"required"`
	DriverName     string `json:"driverName"     validate:"required"`
	DriverCPF      string `json:"driverCpf"      validate:"len=14"`
	Carrier        string `json:"carrier"        validate:"required"`
	TruckPlate     string `json:"truckPlate"     validate:"required"`
	LabelsQuantity int    `json:"labelsQuantity" validate:"gt=0"`
}

var ruleMessages = map[string]string{
	"required": "campo obrigatório",
	"len":      "CPF incompleto",
	"gt":       "deve ser maior que zero",
}

func (s *termService) Validate(t model.WithdrawalTerm) error {
	fields := FieldErrors{}
	err := s.validate.Struct(termRules{
		ClientName:     t.ClientName,
		DriverName:     t.DriverName,
		DriverCPF:      t.DriverCPF,
		Carrier:        t.Carrier,
		TruckPlate:     t.TruckPlate,
		LabelsQuantity: atoiOrZero(t.LabelsQuantity),
	})
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = ruleMessages[fe.Tag()]
		}
	} else if err != nil {
		return err
	}
	if t.HasSeals && atoiOrZero(t.SealsQuantity) <= 0 {
		fields["sealsQuantity"] = ruleMessages["gt"]
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (s *termService) Save(ctx context.Context, req dto.WithdrawalTermRequest) (*dto.GenerationRecordResponse, error) {
	term := s.Normalize(req)
	if err := s.Validate(term); err != nil {
		return nil, err
	}

	var recordID *uuid.UUID
	if req.HistoryID != nil && *req.HistoryID != "" {
		id, err := uuid.Parse(*req.HistoryID)
		if err != nil {
			return nil, FieldErrors{"historyId": "identificador inválido"}
		}
		recordID = &id
	}

	rec, err := s.history.RecordTerm(ctx, recordID, term)
	if err != nil {
		return nil, err
	}

	if req.QueueItemID != nil && *req.QueueItemID != "" {
		if qid, err := uuid.Parse(*req.QueueItemID); err == nil {
			flags := dto.UpdateQueueFlagsRequest{
				TermIssued:           ptr(true),
				SampleLabelDelivered: ptr(term.SampleLabelDelivered),
			}
			if err := s.queue.UpdateFlags(ctx, qid, flags); err != nil {
				log.Warn().Err(err).Str("queue_item_id", qid.String()).Msg("term saved but queue item not flagged")
			}
		}
	}

	if s.dispatcher != nil && s.settings.TermMailTo != "" {
		if err := s.dispatcher.EnqueueTermEmail(ctx, rec.ID, s.settings.TermMailTo); err != nil {
			log.Warn().Err(err).Str("record_id", rec.ID.String()).Msg("term e-mail not queued")
		}
	}

	resp := toRecordResponse(*rec)
	return &resp, nil
}

func (s *termService) Render(ctx context.Context, historyID uuid.UUID) ([]byte, error) {
	rec, err := s.history.Get(ctx, historyID)
	if err != nil {
		return nil, err
	}
	if !rec.TermGenerated {
		return nil, ErrNoTerm
	}
	return s.renderer.Term(rec.WithdrawalTerm())
}

// formatCPF keeps the first 11 digits and lays them out as 000.000.000-00.
// Shorter inputs are formatted as far as they go.
func formatCPF(v string) string {
	var b strings.Builder
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			continue
		}
		if n == 11 {
			break
		}
		switch n {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
