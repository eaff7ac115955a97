package canvas

import (
	"sync"
	"testing"
	"time"

	"curve-viewer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type firedLog struct {
	mu  sync.Mutex
	pos []geometry.Point2D
}

func (f *firedLog) add(p geometry.Point2D) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pos = append(f.pos, p)
}

func (f *firedLog) get() []geometry.Point2D {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]geometry.Point2D(nil), f.pos...)
}

func TestThrottleCoalescesAndDeliversLast(t *testing.T) {
	log := &firedLog{}
	th := newHoverThrottle(time.Hour, 10*time.Millisecond, log.add)

	th.Trigger(pt(1, 1))
	th.Trigger(pt(2, 2))
	th.Trigger(pt(3, 3))
	assert.Equal(t, []geometry.Point2D{pt(1, 1)}, log.get(), "first move dispatches immediately")

	require.Eventually(t, func() bool { return len(log.get()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, pt(3, 3), log.get()[1])
}

func TestThrottlePassesSlowMoves(t *testing.T) {
	log := &firedLog{}
	clock := time.Unix(0, 0)
	th := newHoverThrottle(time.Second/60, time.Hour, log.add)
	th.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		th.Trigger(pt(float64(i), 0))
		clock = clock.Add(20 * time.Millisecond)
	}
	assert.Equal(t, []geometry.Point2D{pt(0, 0), pt(1, 0), pt(2, 0)}, log.get())
}

func TestThrottleStop(t *testing.T) {
	log := &firedLog{}
	th := newHoverThrottle(time.Hour, 5*time.Millisecond, log.add)
	th.Trigger(pt(1, 1))
	th.Trigger(pt(2, 2))
	th.Stop()
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, log.get(), 1)
}
