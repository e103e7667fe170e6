package panel

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateDefaults(t *testing.T) {
	s := NewState()
	assert.True(t, s.PWMEnabled())
	assert.Equal(t, BorderSolid, s.Border())
	assert.False(t, s.LEDOn())
}

func TestStateToggles(t *testing.T) {
	s := NewState()

	assert.False(t, s.TogglePWM())
	assert.False(t, s.PWMEnabled())
	assert.True(t, s.TogglePWM())

	assert.Equal(t, BorderDotted, s.NextBorder())
	assert.Equal(t, BorderSolid, s.NextBorder())
	assert.Equal(t, BorderDotted, s.NextBorder())
	assert.Equal(t, BorderDotted, s.Border())

	assert.True(t, s.ToggleLED())
	assert.False(t, s.ToggleLED())
}

func TestStateConcurrentToggles(t *testing.T) {
	s := NewState()
	const n = 101

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.TogglePWM()
			s.NextBorder()
			s.ToggleLED()
			_ = s.PWMEnabled()
			_ = s.Border()
		}()
	}
	wg.Wait()

	// An odd number of toggles from the power-on state.
	assert.False(t, s.PWMEnabled())
	assert.Equal(t, BorderDotted, s.Border())
	assert.True(t, s.LEDOn())
}

func TestBorderStyleString(t *testing.T) {
	assert.Equal(t, "solid", BorderSolid.String())
	assert.Equal(t, "dotted", BorderDotted.String())
	assert.Equal(t, "unknown", BorderStyle(7).String())
}

func TestDebouncer(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDebouncer(0)

	assert.False(t, d.Debouncing(t0), "new debouncer must be idle")
	assert.True(t, d.Accept(t0), "first edge")
	assert.False(t, d.Accept(t0.Add(50*time.Millisecond)), "bounce")
	// Rejected edges do not extend the window.
	assert.False(t, d.Accept(t0.Add(150*time.Millisecond)), "bounce")
	assert.False(t, d.Accept(t0.Add(200*time.Millisecond)), "exactly at the interval")
	assert.True(t, d.Accept(t0.Add(201*time.Millisecond)), "after the interval")
	assert.False(t, d.Accept(t0.Add(300*time.Millisecond)), "window re-armed from the last accepted edge")
	assert.True(t, d.Accept(t0.Add(time.Second)))
}

func TestDebouncerCustomInterval(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDebouncer(10 * time.Millisecond)

	assert.True(t, d.Accept(t0))
	assert.True(t, d.Debouncing(t0.Add(5*time.Millisecond)))
	assert.False(t, d.Debouncing(t0.Add(11*time.Millisecond)))
	assert.True(t, d.Accept(t0.Add(11*time.Millisecond)))
}

func TestDebouncersAreIndependent(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a, b := NewDebouncer(0), NewDebouncer(0)

	assert.True(t, a.Accept(t0))
	assert.True(t, b.Accept(t0.Add(time.Millisecond)))
	assert.False(t, a.Accept(t0.Add(2*time.Millisecond)))
}
