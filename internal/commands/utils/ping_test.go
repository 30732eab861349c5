package utils

import (
	"fmt"
	"testing"
	"time"
)

func TestPingReport(t *testing.T) {
	tests := []struct {
		name    string
		db      time.Duration
		dbErr   error
		running bool
		want    string
	}{
		{
			name:    "healthy",
			db:      12 * time.Millisecond,
			running: true,
			want:    "🏓 Pong!\n• Gateway: 40ms\n• Base de datos: 12ms\n• Correlador: 🟢 activo",
		},
		{
			name:  "database down",
			dbErr: fmt.Errorf("sin conexión"),
			want:  "🏓 Pong!\n• Gateway: 40ms\n• Base de datos: ❌ sin conexión\n• Correlador: 🔴 detenido",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pingReport(40*time.Millisecond, tt.db, tt.dbErr, tt.running); got != tt.want {
				t.Errorf("pingReport() = %q, want %q", got, tt.want)
			}
		})
	}
}
