package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBattery(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *float64
	}{
		{"json number", float64(87), ptr(87)},
		{"numeric string", "55.5", ptr(55.5)},
		{"zero", float64(0), ptr(0)},
		{"full", float64(100), ptr(100)},
		{"negative dropped", float64(-1), nil},
		{"above range dropped", float64(100.1), nil},
		{"garbage string dropped", "cheia", nil},
		{"bool dropped", true, nil},
		{"absent", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseBattery(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func ptr(v float64) *float64 {
	return &v
}
