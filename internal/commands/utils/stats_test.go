package utils

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 segundos"},
		{45 * time.Second, "45 segundos"},
		{time.Hour + 30*time.Second, "1 horas, 30 segundos"},
		{50*time.Hour + 2*time.Minute, "2 días, 2 horas, 2 minutos"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
