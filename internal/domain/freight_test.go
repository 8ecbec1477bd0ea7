package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChargeableWeightKg(t *testing.T) {
	tests := []struct {
		name  string
		gross float64
		cbm   float64
		want  float64
	}{
		{
			name:  "zero inputs",
			gross: 0,
			cbm:   0,
			want:  0,
		},
		{
			name:  "gross dominates",
			gross: 100,
			cbm:   0.5, // 0.5 * 167 = 83.5
			want:  100,
		},
		{
			name:  "volumetric dominates",
			gross: 50,
			cbm:   1,
			want:  167,
		},
		{
			name:  "exact tie returns gross",
			gross: 167,
			cbm:   1,
			want:  167,
		},
		{
			name:  "large volume",
			gross: 1200,
			cbm:   10, // 1670
			want:  1670,
		},
		{
			name:  "volume only",
			gross: 0,
			cbm:   2.4,
			want:  400.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChargeableWeightKg(tt.gross, tt.cbm)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}
