package services

import "testing"

func TestComputeAggregate(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []float64
		prior     float64
		wantRate  float64
		wantCount int
	}{
		{"no ratings keeps prior", nil, 3.5, 3.5, 0},
		{"single", []float64{4}, 0, 4, 1},
		{"mean", []float64{5, 4, 3}, 0, 4, 3},
		{"fractional", []float64{5, 4}, 1, 4.5, 2},
		{"zeros", []float64{0, 0}, 2, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, count := ComputeAggregate(tt.ratings, tt.prior)
			if rate != tt.wantRate || count != tt.wantCount {
				t.Errorf("ComputeAggregate() = (%v, %d), want (%v, %d)", rate, count, tt.wantRate, tt.wantCount)
			}
		})
	}
}
