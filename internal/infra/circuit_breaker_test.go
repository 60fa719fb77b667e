package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRelay = errors.New("dial tcp: connection refused")

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker() (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "smtp-test",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
	})
	cb.now = clock.now
	return cb, clock
}

func fail() error    { return errRelay }
func succeed() error { return nil }

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker()

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errRelay)
		assert.Equal(t, CBClosed, cb.State())
	}
	assert.ErrorIs(t, cb.Execute(fail), errRelay)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb, _ := newTestBreaker()

	require.Error(t, cb.Execute(fail))
	require.Error(t, cb.Execute(fail))
	require.NoError(t, cb.Execute(succeed))
	require.Error(t, cb.Execute(fail))
	require.Error(t, cb.Execute(fail))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb, clock := newTestBreaker()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	require.Equal(t, CBOpen, cb.State())

	clock.advance(59 * time.Second)
	assert.Equal(t, CBOpen, cb.State())

	clock.advance(time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, CBHalfOpen, cb.State(), "needs two probes")
	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	clock.advance(time.Minute)
	require.Equal(t, CBHalfOpen, cb.State())

	assert.ErrorIs(t, cb.Execute(fail), errRelay)
	assert.Equal(t, CBOpen, cb.State())

	clock.advance(30 * time.Second)
	assert.ErrorIs(t, cb.Execute(succeed), ErrCircuitOpen)
}

func TestDefaultCBConfig(t *testing.T) {
	cfg := DefaultCBConfig("smtp")
	assert.Equal(t, "smtp", cfg.Name)
	assert.Equal(t, 3, cfg.FailureThreshold)
	assert.Equal(t, 1, cfg.SuccessThreshold)
	assert.Equal(t, 30*time.Second, cfg.OpenTimeout)

	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "zero"})
	assert.Equal(t, CBClosed, cb.State())
	assert.Equal(t, "closed", cb.State().String())
}
