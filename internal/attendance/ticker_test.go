package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElapsedTicker_EmitsWallClockElapsed(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	// The clock is evaluated at tick time, so a late subscriber still
	// sees the full elapsed duration.
	clock := fixedClock(checkIn.Add(2*time.Hour + 5*time.Minute))

	ticker := NewElapsedTicker(checkIn, clock)
	defer ticker.Stop()

	select {
	case d := <-ticker.C:
		assert.Equal(t, 2*time.Hour+5*time.Minute, d)
		assert.Equal(t, "2:05", FormatClock(d))
	case <-time.After(3 * time.Second):
		t.Fatal("no tick within 3s")
	}
}

func TestElapsedTicker_StopClosesChannel(t *testing.T) {
	ticker := NewElapsedTicker(time.Now(), nil)
	ticker.Stop()
	ticker.Stop() // idempotent

	select {
	case _, ok := <-ticker.C:
		require.False(t, ok, "channel must be closed after Stop")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Stop")
	}
}

func TestElapsedTicker_StopWhileBlockedOnSend(t *testing.T) {
	// Nobody reads C; Stop must still tear the goroutine down.
	ticker := NewElapsedTicker(time.Now(), nil)
	time.Sleep(1500 * time.Millisecond)
	ticker.Stop()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ticker.C:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("ticker did not shut down")
		}
	}
}
