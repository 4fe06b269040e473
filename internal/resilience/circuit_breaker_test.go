package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestCircuitBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 3})

	for i := 0; i < 10; i++ {
		err := cb.Execute(func() error { return nil })
		require.NoError(t, err)
	}

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 3, Timeout: time.Minute})

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errBoom })
		assert.ErrorIs(t, err, errBoom)
	}

	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 3, Timeout: time.Minute})

	cb.Execute(func() error { return errBoom })
	cb.Execute(func() error { return errBoom })
	cb.Execute(func() error { return nil })
	cb.Execute(func() error { return errBoom })
	cb.Execute(func() error { return errBoom })

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerHalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
		HalfOpenMax: 2,
	})

	cb.Execute(func() error { return errBoom })
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	// First probe transitions to half-open
	err := cb.Execute(func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, StateHalfOpen, cb.State())

	// Enough successes close the circuit
	err = cb.Execute(func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
	})

	cb.Execute(func() error { return errBoom })
	time.Sleep(20 * time.Millisecond)

	err := cb.Execute(func() error { return errBoom })
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 1, Timeout: time.Minute})

	cb.Execute(func() error { return errBoom })
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())

	err := cb.Execute(func() error { return nil })
	assert.NoError(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
}
