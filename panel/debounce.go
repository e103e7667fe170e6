package panel

import "time"

// DefaultDebounce is the minimum time between two accepted presses of the
// same button.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer rejects edges that follow an accepted edge too closely.
//
// It is Idle until an edge is accepted, then Debouncing until more than the
// interval has elapsed. A Debouncer belongs to exactly one input and is not
// safe for concurrent use.
type Debouncer struct {
	interval   time.Duration
	last       time.Time
	debouncing bool
}

// NewDebouncer returns an idle Debouncer. A non-positive interval selects
// DefaultDebounce.
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{interval: interval}
}

// Accept reports whether an edge seen at now is a real press, and if so
// re-arms the debounce window from now.
func (d *Debouncer) Accept(now time.Time) bool {
	if d.Debouncing(now) {
		return false
	}
	d.last = now
	d.debouncing = true
	return true
}

// Debouncing reports whether an edge at now would be rejected.
func (d *Debouncer) Debouncing(now time.Time) bool {
	if d.debouncing && now.Sub(d.last) > d.interval {
		d.debouncing = false
	}
	return d.debouncing
}
