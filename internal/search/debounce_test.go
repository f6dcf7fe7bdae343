package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_TrailingEdge(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(500*time.Millisecond, clock)
	var got []string

	d.Trigger(func() { got = append(got, "a") })
	clock.Advance(200 * time.Millisecond)
	d.Trigger(func() { got = append(got, "ab") })
	assert.True(t, d.Pending())

	clock.Advance(499 * time.Millisecond)
	assert.Empty(t, got)

	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"ab"}, got)
	assert.False(t, d.Pending())

	clock.Advance(time.Hour)
	assert.Equal(t, []string{"ab"}, got)
}

func TestDebouncer_SupersededTimerDoesNotRun(t *testing.T) {
	clock := &fakeClock{leaky: true}
	d := NewDebouncer(500*time.Millisecond, clock)
	var got []string

	d.Trigger(func() { got = append(got, "a") })
	clock.Advance(200 * time.Millisecond)
	d.Trigger(func() { got = append(got, "ab") })

	clock.Advance(300 * time.Millisecond)
	assert.Empty(t, got)

	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"ab"}, got)
}

func TestDebouncer_CancelAndClose(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(0, clock)
	calls := 0

	d.Trigger(func() { calls++ })
	d.Cancel()
	clock.Advance(DefaultWait)
	assert.Equal(t, 0, calls)

	d.Trigger(func() { calls++ })
	d.Close()
	d.Trigger(func() { calls++ })
	clock.Advance(DefaultWait)
	assert.Equal(t, 0, calls)
	assert.False(t, d.Pending())
}

func TestDebouncer_SystemClock(t *testing.T) {
	d := NewDebouncer(10*time.Millisecond, nil)
	done := make(chan struct{})

	d.Trigger(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced call did not run")
	}
}
