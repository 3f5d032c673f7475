package rowset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IsNormalizedRowsPerPageMax(t *testing.T) {
	tests := []struct {
		name     string
		rpp      int
		max      int
		want     int
		isStrict bool
	}{
		{"zero uses default", 0, 50, DefaultRowsPerPage, false},
		{"negative uses default", -10, 50, DefaultRowsPerPage, false},
		{"default capped by small max", 0, 10, 10, false},
		{"within max unchanged", 7, 50, 7, true},
		{"equal max unchanged", 50, 50, 50, true},
		{"above max clamped", 51, 50, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strict := IsNormalizedRowsPerPageMax(tt.rpp, tt.max)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.isStrict, strict)
		})
	}
}

func Test_NormalizeRowsPerPage(t *testing.T) {
	tests := []struct {
		name string
		rpp  int
		want int
	}{
		{"zero -> default", 0, DefaultRowsPerPage},
		{"negative -> default", -1, DefaultRowsPerPage},
		{"clamp to MaxRowsPerPage", MaxRowsPerPage + 1, MaxRowsPerPage},
		{"keep when ok", 17, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRowsPerPage(tt.rpp))
		})
	}
}

func Test_NormalizePage(t *testing.T) {
	tests := []struct {
		name string
		page int
		want int
	}{
		{"zero -> first", 0, 1},
		{"negative -> first", -4, 1},
		{"keep when ok", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePage(tt.page))
		})
	}
}
