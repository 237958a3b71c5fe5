package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicker_DeliversUntilCancelled(t *testing.T) {
	var ticks atomic.Int32
	tk := NewTicker(5*time.Millisecond, func() { ticks.Add(1) })
	tk.Start()

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	tk.Cancel()
	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no tick may be delivered after Cancel returns")
}

func TestTicker_CancelIsIdempotent(t *testing.T) {
	tk := NewTicker(time.Millisecond, func() {})
	tk.Start()

	assert.NotPanics(t, func() {
		tk.Cancel()
		tk.Cancel()
	})
}

func TestTicker_CancelBeforeStart(t *testing.T) {
	var ticks atomic.Int32
	tk := NewTicker(time.Millisecond, func() { ticks.Add(1) })

	tk.Cancel()
	tk.Start()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, int32(0), ticks.Load())
}

func TestTicker_DoubleStart(t *testing.T) {
	var ticks atomic.Int32
	tk := NewTicker(10*time.Millisecond, func() { ticks.Add(1) })
	tk.Start()
	tk.Start()
	defer tk.Cancel()

	time.Sleep(55 * time.Millisecond)
	// one goroutine: roughly 5 ticks, never double that
	assert.LessOrEqual(t, ticks.Load(), int32(6))
}

func TestDeferred_Fires(t *testing.T) {
	fired := make(chan struct{})
	d := After(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("deferred callback did not fire")
	}
	assert.True(t, d.Fired())
	assert.False(t, d.Cancel(), "cancel after firing prevents nothing")
}

func TestDeferred_CancelPreventsCallback(t *testing.T) {
	var fired atomic.Bool
	d := After(20*time.Millisecond, func() { fired.Store(true) })

	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel(), "second cancel is a no-op")

	time.Sleep(40 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.False(t, d.Fired())
}

func TestDeferred_NilCancel(t *testing.T) {
	var d *Deferred
	assert.False(t, d.Cancel())
	assert.False(t, d.Fired())
}
