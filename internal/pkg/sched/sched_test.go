package sched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmFiresOnce(t *testing.T) {
	timers := NewTimers()
	var fired atomic.Int32

	replaced := timers.Arm("k", 20*time.Millisecond, func() { fired.Add(1) })
	assert.False(t, replaced)

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)

	// The fired timer must have removed itself.
	assert.False(t, timers.Active("k"))
	assert.Equal(t, 0, timers.Len())
}

func TestRearmSupersedesPreviousTimer(t *testing.T) {
	timers := NewTimers()
	var fired atomic.Int32

	for i := 0; i < 5; i++ {
		replaced := timers.Arm("k", 40*time.Millisecond, func() { fired.Add(1) })
		assert.Equal(t, i > 0, replaced)
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)

	// No stale timer fires afterwards.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestCancelPreventsFire(t *testing.T) {
	timers := NewTimers()
	var fired atomic.Int32

	timers.Arm("k", 30*time.Millisecond, func() { fired.Add(1) })
	require.True(t, timers.Cancel("k"))

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.False(t, timers.Cancel("k"))
}

func TestIndependentKeys(t *testing.T) {
	timers := NewTimers()
	var a, b atomic.Int32

	timers.Arm("a", 20*time.Millisecond, func() { a.Add(1) })
	timers.Arm("b", 20*time.Millisecond, func() { b.Add(1) })
	assert.Equal(t, 2, timers.Len())

	require.True(t, timers.Cancel("a"))

	require.Eventually(t, func() bool { return b.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), a.Load())
}

func TestStopAll(t *testing.T) {
	timers := NewTimers()
	var fired atomic.Int32

	timers.Arm("a", 30*time.Millisecond, func() { fired.Add(1) })
	timers.Arm("b", 30*time.Millisecond, func() { fired.Add(1) })
	timers.StopAll()

	assert.Equal(t, 0, timers.Len())
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
