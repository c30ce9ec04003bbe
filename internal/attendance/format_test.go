package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatWorkingHours(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{
			name:     "Zero",
			d:        0,
			expected: "00:00:00",
		},
		{
			name:     "One of each unit",
			d:        3661 * time.Second,
			expected: "01:01:01",
		},
		{
			name:     "Checkout scenario",
			d:        2*time.Hour + 30*time.Minute + 15*time.Second,
			expected: "02:30:15",
		},
		{
			name:     "Sub-second remainder floors",
			d:        1999 * time.Millisecond,
			expected: "00:00:01",
		},
		{
			name:     "Over a day keeps counting hours",
			d:        25*time.Hour + 5*time.Second,
			expected: "25:00:05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatWorkingHours(tt.d))
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{
			name:     "Zero",
			d:        0,
			expected: "0:00",
		},
		{
			name:     "Minutes only, unpadded hour",
			d:        125 * time.Second,
			expected: "0:02",
		},
		{
			name:     "Hours stay unpadded",
			d:        2*time.Hour + 5*time.Minute,
			expected: "2:05",
		},
		{
			name:     "Double digit hours",
			d:        11*time.Hour + 59*time.Minute + 59*time.Second,
			expected: "11:59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatClock(tt.d))
		})
	}
}
