package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueTermEmail = "jobs:term_email"

	JobTermEmail = "term_email"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3
)

// ErrPermanent marks a failure that retrying cannot fix; the job goes
// straight to the DLQ.
var ErrPermanent = errors.New("permanent job failure")

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueTermEmail queues the withdrawal term of recordID for delivery to to.
func (d *Dispatcher) EnqueueTermEmail(ctx context.Context, recordID uuid.UUID, to string) error {
	return d.enqueue(ctx, QueueTermEmail, JobTermEmail, TermEmailPayload{RecordID: recordID.String(), To: to})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, handlers: map[string]Handler{}}
}

// Register routes jobs of jobType, read from queue, to h.
func (p *Pool) Register(queue, jobType string, h Handler) {
	p.handlers[jobType] = h
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle
// workers cost nothing. They stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if len(p.queues) == 0 {
		log.Warn().Msg("worker pool: no queues registered")
		return
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues).Msg("worker pool started")
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker stopped")
			return
		default:
		}

		result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.handle(ctx, result[0], result[1])
	}
}

// outcome is what the pool does with a job after one run.
type outcome int

const (
	outcomeDone outcome = iota
	outcomeRetry
	outcomeDead
)

// process runs the job once and decides what happens next. job.Attempts is
// incremented in place.
func (p *Pool) process(ctx context.Context, job *Job) (outcome, error) {
	h, ok := p.handlers[job.Type]
	if !ok {
		return outcomeDead, errors.New("no handler for job type " + job.Type)
	}
	job.Attempts++
	err := h.Process(ctx, job.Payload)
	switch {
	case err == nil:
		return outcomeDone, nil
	case errors.Is(err, ErrPermanent), job.Attempts >= MaxAttempts:
		return outcomeDead, err
	default:
		return outcomeRetry, err
	}
}

func (p *Pool) handle(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("worker: unreadable job")
		SendToDLQ(ctx, p.rdb, queue, "unknown", json.RawMessage(raw), "unmarshal: "+err.Error(), 0)
		return
	}

	res, err := p.process(ctx, &job)
	switch res {
	case outcomeDone:
		log.Info().Str("type", job.Type).Int("attempt", job.Attempts).Msg("worker: job done")
	case outcomeRetry:
		log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("worker: job failed, requeueing")
		encoded, mErr := json.Marshal(job)
		if mErr == nil {
			mErr = p.rdb.LPush(ctx, queue, encoded).Err()
		}
		if mErr != nil {
			SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "requeue: "+mErr.Error(), job.Attempts)
		}
	case outcomeDead:
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
	}
}
