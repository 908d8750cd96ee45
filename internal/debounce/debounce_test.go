package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTriggerRunsAfterDelay(t *testing.T) {
	d := New(10 * time.Millisecond)
	var fired atomic.Int32

	d.Trigger(func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRetriggerSupersedesPending(t *testing.T) {
	d := New(30 * time.Millisecond)
	var first, second atomic.Int32

	d.Trigger(func() { first.Add(1) })
	time.Sleep(5 * time.Millisecond)
	d.Trigger(func() { second.Add(1) })

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), first.Load(), "superseded trigger must never fire")
}

func TestStopCancelsPending(t *testing.T) {
	d := New(20 * time.Millisecond)
	var fired atomic.Int32

	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
