package attendance

import (
	"sync"
	"time"
)

// ElapsedTicker emits the elapsed working duration once per second while a
// session is open. Each emitted value is recomputed from the wall clock at
// tick time, not accumulated. The sequence is infinite until Stop; a
// stopped ticker cannot be restarted.
type ElapsedTicker struct {
	// C delivers elapsed durations and is closed on Stop.
	C <-chan time.Duration

	stop chan struct{}
	once sync.Once
}

// NewElapsedTicker starts a ticker for a session that opened at checkIn.
// A nil clock uses time.Now.
func NewElapsedTicker(checkIn time.Time, clock func() time.Time) *ElapsedTicker {
	if clock == nil {
		clock = time.Now
	}
	out := make(chan time.Duration)
	t := &ElapsedTicker{C: out, stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		defer close(out)
		for {
			select {
			case <-ticker.C:
				select {
				case out <- clock().Sub(checkIn):
				case <-t.stop:
					return
				}
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

// Stop tears the ticker down and closes C. Safe to call more than once and
// required on checkout and on subscriber disposal so no timer leaks.
func (t *ElapsedTicker) Stop() {
	t.once.Do(func() { close(t.stop) })
}
