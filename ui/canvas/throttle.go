package canvas

import (
	"sync"
	"time"

	"curve-viewer/pkg/geometry"
)

// hoverThrottle limits pointer-move dispatch to one call per interval. Moves
// arriving faster are coalesced and the latest position is delivered once
// the pointer has been still for delay.
type hoverThrottle struct {
	mu       sync.Mutex
	interval time.Duration
	delay    time.Duration
	last     time.Time
	pending  *geometry.Point2D
	timer    *time.Timer

	fire func(geometry.Point2D)
	now  func() time.Time
}

func newHoverThrottle(interval, delay time.Duration, fire func(geometry.Point2D)) *hoverThrottle {
	return &hoverThrottle{
		interval: interval,
		delay:    delay,
		fire:     fire,
		now:      time.Now,
	}
}

// Trigger records a pointer move and dispatches it if the interval allows.
func (t *hoverThrottle) Trigger(pos geometry.Point2D) {
	t.mu.Lock()
	now := t.now()
	if now.Sub(t.last) >= t.interval {
		t.last = now
		t.pending = nil
		if t.timer != nil {
			t.timer.Stop()
		}
		t.mu.Unlock()
		t.fire(pos)
		return
	}

	t.pending = &pos
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	} else {
		t.timer.Reset(t.delay)
	}
	t.mu.Unlock()
}

func (t *hoverThrottle) flush() {
	t.mu.Lock()
	pos := t.pending
	t.pending = nil
	if pos != nil {
		t.last = t.now()
	}
	t.mu.Unlock()

	if pos != nil {
		t.fire(*pos)
	}
}

// Stop drops any pending move.
func (t *hoverThrottle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
	}
}

// SetRate changes the interval and trailing delay.
func (t *hoverThrottle) SetRate(interval, delay time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = interval
	t.delay = delay
}
