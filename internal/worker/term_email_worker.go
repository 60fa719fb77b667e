package worker

// term_email_worker.go
// Renders a stored withdrawal term and mails it to the dispatch mailbox.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fertilabel/internal/infra"
	"fertilabel/internal/model"
	"fertilabel/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TermEmailPayload is the job body queued on QueueTermEmail.
type TermEmailPayload struct {
	RecordID string `json:"record_id"`
	To       string `json:"to"`
}

type TermRenderer interface {
	Term(term model.WithdrawalTerm) ([]byte, error)
}

type TermMailer interface {
	SendTerm(to, subject, body, filename string, pdf []byte) error
}

type TermEmailWorker struct {
	history  repository.HistoryRepository
	renderer TermRenderer
	mailer   TermMailer
	cb       *infra.CircuitBreaker
}

func NewTermEmailWorker(history repository.HistoryRepository, renderer TermRenderer, mailer TermMailer, cb *infra.CircuitBreaker) *TermEmailWorker {
	return &TermEmailWorker{history: history, renderer: renderer, mailer: mailer, cb: cb}
}

func (w *TermEmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TermEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: invalid payload: %v", ErrPermanent, err)
	}
	if payload.To == "" {
		return fmt.Errorf("%w: empty recipient", ErrPermanent)
	}
	id, err := uuid.Parse(payload.RecordID)
	if err != nil {
		return fmt.Errorf("%w: invalid record_id %q", ErrPermanent, payload.RecordID)
	}

	rec, err := w.history.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: record %s deleted", ErrPermanent, id)
		}
		return err
	}
	if !rec.TermGenerated {
		return fmt.Errorf("%w: record %s has no term", ErrPermanent, id)
	}

	term := rec.WithdrawalTerm()
	pdf, err := w.renderer.Term(term)
	if err != nil {
		return fmt.Errorf("%w: render: %v", ErrPermanent, err)
	}

	subject := fmt.Sprintf("Termo de retirada %s (%s)", term.TruckPlate, term.Date)
	body := fmt.Sprintf("Motorista: %s\nTransportador: %s\nPlaca: %s\nLacres: %s\nEtiquetas: %s\n",
		term.DriverName, term.Carrier, term.TruckPlate, term.SealsQuantity, term.LabelsQuantity)
	filename := fmt.Sprintf("termo-%s.pdf", term.TruckPlate)

	err = w.cb.Execute(func() error {
		return w.mailer.SendTerm(payload.To, subject, body, filename, pdf)
	})
	if err != nil {
		return err
	}
	log.Info().Str("record_id", id.String()).Str("to", payload.To).Msg("term_email: sent")
	return nil
}
