package util

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		places int
		want   float64
	}{
		{"two places down", 25.784, 2, 25.78},
		{"two places up", 25.786, 2, 25.79},
		{"already exact", 25.78, 2, 25.78},
		{"zero places", 25.5, 0, 26},
		{"negative value", -0.126, 2, -0.13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundTo(tt.v, tt.places), 1e-9)
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want string
	}{
		{"typical", 0.2578, "25.78%"},
		{"rounds", 0.25784, "25.78%"},
		{"certain hit", 1, "100%"},
		{"zero", 0, "0%"},
		{"drops trailing zeros", 0.255, "25.5%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPercent(tt.p))
		})
	}
}

func TestExportFilePath(t *testing.T) {
	finished := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	got := ExportFilePath("exports", finished)
	assert.Equal(t, filepath.Join("exports", "moasim_20260830_120000.json.gz"), got)
}
