package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New("test", WithFailureThreshold(3))

	assert.Equal(t, StateChange{}, b.RecordFailure())
	assert.Equal(t, StateChange{}, b.RecordFailure())
	assert.Equal(t, StateChange{Opened: true}, b.RecordFailure())
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New("test", WithFailureThreshold(2))

	b.RecordFailure()
	b.RecordSuccess()
	assert.Equal(t, StateChange{}, b.RecordFailure(), "count restarts after a success")
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_ProbeAfterCooldown(t *testing.T) {
	clock := time.Now()
	b := New("test", WithFailureThreshold(1), WithCooldown(time.Minute))
	b.now = func() time.Time { return clock }

	b.RecordFailure()
	assert.False(t, b.Allow())

	clock = clock.Add(61 * time.Second)
	assert.True(t, b.Allow(), "cooldown elapsed, probe allowed")

	assert.Equal(t, StateChange{Closed: true}, b.RecordSuccess())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_FailedProbeRestartsCooldown(t *testing.T) {
	clock := time.Now()
	b := New("test", WithFailureThreshold(1), WithCooldown(time.Minute))
	b.now = func() time.Time { return clock }

	b.RecordFailure()
	clock = clock.Add(61 * time.Second)
	assert.True(t, b.Allow())

	b.RecordFailure()
	assert.False(t, b.Allow(), "failed probe restarts the cooldown")

	clock = clock.Add(61 * time.Second)
	assert.True(t, b.Allow())
}
