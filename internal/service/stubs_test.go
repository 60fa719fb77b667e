package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"fertilabel/internal/model"
	"fertilabel/internal/repository"

	"github.com/google/uuid"
)

var (
	_ repository.QueueRepository    = (*stubQueueRepo)(nil)
	_ repository.HistoryRepository  = (*stubHistoryRepo)(nil)
	_ repository.ProductRepository  = (*stubProductRepo)(nil)
	_ repository.OperatorRepository = (*stubOperatorRepo)(nil)
	_ Notifier                      = (*stubNotifier)(nil)
	_ DocumentRenderer              = (*stubRenderer)(nil)
	_ TextExtractor                 = (*stubExtractor)(nil)
	_ TermDispatcher                = (*stubDispatcher)(nil)
)

var errStubWrite = errors.New("stub: write failed")

func testSettings() Settings {
	return Settings{
		Location:      time.UTC,
		MassClients:   []string{"CIBRA"},
		DefaultClient: "FERTIMAXI",
		HistoryWindow: 50,
	}
}

func fixedClock() time.Time { return time.Date(2026, 3, 9, 14, 5, 0, 0, time.UTC) }

// ── Queue ────────────────────────────────────────────────────────────────────

type stubQueueRepo struct {
	items map[uuid.UUID]model.QueueItem
	// failCreateAt makes the n-th Create call (0-based) fail; -1 disables it.
	failCreateAt int
	creates      int
	updates      []map[string]interface{}
}

func newStubQueueRepo(items ...model.QueueItem) *stubQueueRepo {
	r := &stubQueueRepo{items: map[uuid.UUID]model.QueueItem{}, failCreateAt: -1}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *stubQueueRepo) List(_ context.Context) ([]model.QueueItem, error) {
	out := make([]model.QueueItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *stubQueueRepo) Count(_ context.Context) (int, error) { return len(r.items), nil }

func (r *stubQueueRepo) FindByID(_ context.Context, id uuid.UUID) (*model.QueueItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &it, nil
}

func (r *stubQueueRepo) Create(_ context.Context, item *model.QueueItem) error {
	n := r.creates
	r.creates++
	if n == r.failCreateAt {
		return errStubWrite
	}
	r.items[item.ID] = *item
	return nil
}

func (r *stubQueueRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	it, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.updates = append(r.updates, fields)
	for k, v := range fields {
		switch k {
		case "order":
			it.Order = v.(int)
		case "status":
			it.Status = model.QueueStatus(v.(string))
		case "label_issued":
			it.LabelIssued = ptr(v.(bool))
		case "term_issued":
			it.TermIssued = ptr(v.(bool))
		case "sample_label_delivered":
			it.SampleLabelDelivered = ptr(v.(bool))
		}
	}
	r.items[id] = it
	return nil
}

func (r *stubQueueRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func queueItem(order int, placa, product, quantity string) model.QueueItem {
	return model.QueueItem{
		ID:                   uuid.New(),
		Order:                order,
		Placa:                placa,
		Carrier:              "TRANSPORTADORA XYZ",
		ProductName:          product,
		Quantity:             quantity,
		OrderNumber:          "9001",
		Status:               model.QueuePending,
		LabelIssued:          new(bool),
		TermIssued:           new(bool),
		SampleLabelDelivered: new(bool),
	}
}

// ── History ──────────────────────────────────────────────────────────────────

type stubHistoryRepo struct {
	records map[uuid.UUID]model.GenerationRecord
	updates []map[string]interface{}
}

func newStubHistoryRepo(recs ...model.GenerationRecord) *stubHistoryRepo {
	r := &stubHistoryRepo{records: map[uuid.UUID]model.GenerationRecord{}}
	for _, rec := range recs {
		r.records[rec.ID] = rec
	}
	return r
}

func (r *stubHistoryRepo) ListRecent(_ context.Context, limit int) ([]model.GenerationRecord, error) {
	out := make([]model.GenerationRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubHistoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.GenerationRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (r *stubHistoryRepo) FindByLotePlaca(_ context.Context, lote, placa string) (*model.GenerationRecord, error) {
	for _, rec := range r.records {
		if rec.Lote == lote && rec.Placa == placa {
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubHistoryRepo) Create(_ context.Context, rec *model.GenerationRecord) error {
	r.records[rec.ID] = *rec
	return nil
}

func (r *stubHistoryRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	rec, ok := r.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.updates = append(r.updates, fields)
	for k, v := range fields {
		switch k {
		case "tonelada":
			rec.Tonelada = v.(string)
		case "labels_quantity":
			rec.LabelsQuantity = v.(string)
		case "label_generated":
			rec.LabelGenerated = ptr(v.(bool))
		case "term_generated":
			rec.TermGenerated = v.(bool)
		case "driver_name":
			rec.DriverName = ptr(v.(string))
		case "driver_cpf":
			rec.DriverCPF = ptr(v.(string))
		case "carrier":
			rec.Carrier = ptr(v.(string))
		case "seals_quantity":
			rec.SealsQuantity = ptr(v.(string))
		}
	}
	r.records[id] = rec
	return nil
}

func (r *stubHistoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *stubHistoryRepo) CountSince(_ context.Context, t time.Time, termOnly bool) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if rec.UpdatedAt.Before(t) {
			continue
		}
		if termOnly && rec.TermGenerated || !termOnly && deref(rec.LabelGenerated) {
			n++
		}
	}
	return n, nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products []model.Product
	saves    int
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := append([]model.Product(nil), r.products...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) Search(_ context.Context, q string) ([]model.Product, error) {
	q = strings.ToUpper(q)
	var out []model.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToUpper(p.Name), q) || strings.Contains(strings.ToUpper(p.Code), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for i := range r.products {
		if r.products[i].Code == code {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) { return int64(len(r.products)), nil }

func (r *stubProductRepo) Save(_ context.Context, p *model.Product) error {
	r.saves++
	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = *p
			return nil
		}
	}
	r.products = append(r.products, *p)
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ── Operators ────────────────────────────────────────────────────────────────

type stubOperatorRepo struct {
	byUsername map[string]*model.Operator
}

func newStubOperatorRepo() *stubOperatorRepo {
	return &stubOperatorRepo{byUsername: map[string]*model.Operator{}}
}

func (r *stubOperatorRepo) FindByUsername(_ context.Context, username string) (*model.Operator, error) {
	op, ok := r.byUsername[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return op, nil
}

func (r *stubOperatorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Operator, error) {
	for _, op := range r.byUsername {
		if op.ID == id {
			return op, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubOperatorRepo) Upsert(_ context.Context, op *model.Operator) error {
	if existing, ok := r.byUsername[op.Username]; ok {
		op.ID = existing.ID
	}
	r.byUsername[op.Username] = op
	return nil
}

// ── Collaborators ────────────────────────────────────────────────────────────

type stubNotifier struct {
	mu        sync.Mutex
	published []string
	listeners map[string][]func()
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{listeners: map[string][]func(){}}
}

func (n *stubNotifier) Publish(_ context.Context, topic string) error {
	n.mu.Lock()
	n.published = append(n.published, topic)
	listeners := append([]func(){}, n.listeners[topic]...)
	n.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
	return nil
}

func (n *stubNotifier) Subscribe(_ context.Context, topic string, onChange func()) (Unsubscribe, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners[topic] = append(n.listeners[topic], onChange)
	idx := len(n.listeners[topic]) - 1
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.listeners[topic][idx] = func() {}
	}, nil
}

func (n *stubNotifier) count(topic string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, t := range n.published {
		if t == topic {
			c++
		}
	}
	return c
}

type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) ExtractText(_ context.Context, _ io.ReaderAt, _ int64) (string, error) {
	return e.text, e.err
}

type labelCall struct {
	product *model.Product
	session model.LabelSession
	qty     int
	client  string
}

type stubRenderer struct {
	labels []labelCall
	terms  []model.WithdrawalTerm
	err    error
}

func (r *stubRenderer) Labels(product *model.Product, session model.LabelSession, qty int, clientName string) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.labels = append(r.labels, labelCall{product, session, qty, clientName})
	return []byte("%PDF-labels"), nil
}

func (r *stubRenderer) Term(t model.WithdrawalTerm) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.terms = append(r.terms, t)
	return []byte("%PDF-term"), nil
}

type dispatched struct {
	recordID uuid.UUID
	to       string
}

type stubDispatcher struct{ sent []dispatched }

func (d *stubDispatcher) EnqueueTermEmail(_ context.Context, recordID uuid.UUID, to string) error {
	d.sent = append(d.sent, dispatched{recordID, to})
	return nil
}
