package attendance

import (
	"fmt"
	"time"
)

// wholeSeconds floors the elapsed milliseconds to whole seconds.
func wholeSeconds(d time.Duration) int64 {
	return d.Milliseconds() / 1000
}

// FormatWorkingHours renders a duration as zero-padded HH:MM:SS. This is
// the check-out summary format stored on closed records.
func FormatWorkingHours(d time.Duration) string {
	secs := wholeSeconds(d)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// FormatClock renders a duration as H:MM with unpadded hours. This is the
// live working-time format shown on the admin status table. It is a
// distinct display contract from FormatWorkingHours and stays separate.
func FormatClock(d time.Duration) string {
	secs := wholeSeconds(d)
	return fmt.Sprintf("%d:%02d", secs/3600, (secs%3600)/60)
}
