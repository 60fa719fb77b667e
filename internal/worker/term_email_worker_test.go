package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fertilabel/internal/infra"
	"fertilabel/internal/model"
	"fertilabel/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.HistoryRepository = (*stubHistoryRepo)(nil)

type stubHistoryRepo struct {
	records map[uuid.UUID]model.GenerationRecord
	err     error
}

func (r *stubHistoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.GenerationRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	rec, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (r *stubHistoryRepo) ListRecent(context.Context, int) ([]model.GenerationRecord, error) {
	return nil, nil
}
func (r *stubHistoryRepo) FindByLotePlaca(context.Context, string, string) (*model.GenerationRecord, error) {
	return nil, repository.ErrNotFound
}
func (r *stubHistoryRepo) Create(context.Context, *model.GenerationRecord) error { return nil }
func (r *stubHistoryRepo) UpdateFields(context.Context, uuid.UUID, map[string]interface{}) error {
	return nil
}
func (r *stubHistoryRepo) Delete(context.Context, uuid.UUID) error { return nil }
func (r *stubHistoryRepo) CountSince(context.Context, time.Time, bool) (int64, error) {
	return 0, nil
}

type stubTermRenderer struct{ err error }

func (r stubTermRenderer) Term(model.WithdrawalTerm) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-term"), nil
}

type sentMail struct {
	to, subject, body, filename string
	pdf                         []byte
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) SendTerm(to, subject, body, filename string, pdf []byte) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body, filename, pdf})
	return nil
}

func termRecord() model.GenerationRecord {
	name, cpf, carrier, date := "JOAO DA SILVA", "123.456.789-01", "TRANSPORTADORA XYZ", "09/03/2026"
	return model.GenerationRecord{
		ID:             uuid.New(),
		Lote:           "L-100",
		Placa:          "ABC1D23",
		LabelsQuantity: "32",
		TermGenerated:  true,
		DriverName:     &name,
		DriverCPF:      &cpf,
		Carrier:        &carrier,
		Date:           &date,
	}
}

func payloadFor(t *testing.T, id, to string) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(TermEmailPayload{RecordID: id, To: to})
	require.NoError(t, err)
	return b
}

func TestTermEmailWorker_Sends(t *testing.T) {
	rec := termRecord()
	repo := &stubHistoryRepo{records: map[uuid.UUID]model.GenerationRecord{rec.ID: rec}}
	mailer := &stubMailer{}
	w := NewTermEmailWorker(repo, stubTermRenderer{}, mailer, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")))

	err := w.Process(context.Background(), payloadFor(t, rec.ID.String(), "expedicao@example.com"))
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	m := mailer.sent[0]
	assert.Equal(t, "expedicao@example.com", m.to)
	assert.Equal(t, "Termo de retirada ABC1D23 (09/03/2026)", m.subject)
	assert.Contains(t, m.body, "Motorista: JOAO DA SILVA")
	assert.Contains(t, m.body, "Lacres: 32")
	assert.Equal(t, "termo-ABC1D23.pdf", m.filename)
	assert.Equal(t, "%PDF-term", string(m.pdf))
}

func TestTermEmailWorker_PermanentFailures(t *testing.T) {
	rec := termRecord()
	noTerm := termRecord()
	noTerm.TermGenerated = false
	repo := &stubHistoryRepo{records: map[uuid.UUID]model.GenerationRecord{rec.ID: rec, noTerm.ID: noTerm}}
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))

	cases := map[string]struct {
		payload  json.RawMessage
		renderer stubTermRenderer
	}{
		"malformed json":  {payload: json.RawMessage(`{`)},
		"empty recipient": {payload: payloadFor(t, rec.ID.String(), "")},
		"bad record id":   {payload: payloadFor(t, "nope", "a@b.c")},
		"deleted record":  {payload: payloadFor(t, uuid.NewString(), "a@b.c")},
		"record w/o term": {payload: payloadFor(t, noTerm.ID.String(), "a@b.c")},
		"render failure":  {payload: payloadFor(t, rec.ID.String(), "a@b.c"), renderer: stubTermRenderer{err: errors.New("font")}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			mailer := &stubMailer{}
			w := NewTermEmailWorker(repo, tc.renderer, mailer, cb)
			err := w.Process(context.Background(), tc.payload)
			assert.ErrorIs(t, err, ErrPermanent)
			assert.Empty(t, mailer.sent)
		})
	}
}

func TestTermEmailWorker_TransientFailuresTripBreaker(t *testing.T) {
	rec := termRecord()
	repo := &stubHistoryRepo{records: map[uuid.UUID]model.GenerationRecord{rec.ID: rec}}
	relayDown := errors.New("dial tcp: connection refused")
	mailer := &stubMailer{err: relayDown}
	w := NewTermEmailWorker(repo, stubTermRenderer{}, mailer, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")))
	payload := payloadFor(t, rec.ID.String(), "a@b.c")

	for i := 0; i < 3; i++ {
		err := w.Process(context.Background(), payload)
		assert.ErrorIs(t, err, relayDown)
		assert.NotErrorIs(t, err, ErrPermanent)
	}
	assert.ErrorIs(t, w.Process(context.Background(), payload), infra.ErrCircuitOpen)
}

func TestTermEmailWorker_StoreErrorIsRetried(t *testing.T) {
	repo := &stubHistoryRepo{err: errors.New("connection reset")}
	w := NewTermEmailWorker(repo, stubTermRenderer{}, &stubMailer{}, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")))

	err := w.Process(context.Background(), payloadFor(t, uuid.NewString(), "a@b.c"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermanent)
}
