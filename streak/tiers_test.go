package streak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		tiers   TierTable
		wantErr bool
	}{
		{"default ladder", DefaultTiers, false},
		{"empty", TierTable{}, true},
		{"floor not one", TierTable{{MinStreak: 2, Multiplier: 1.0}}, true},
		{"non-ascending thresholds", TierTable{{MinStreak: 1, Multiplier: 1.0}, {MinStreak: 1, Multiplier: 1.5}}, true},
		{"decreasing multiplier", TierTable{{MinStreak: 1, Multiplier: 1.5}, {MinStreak: 3, Multiplier: 1.0}}, true},
		{"zero multiplier", TierTable{{MinStreak: 1, Multiplier: 0}}, true},
		{"single floor tier", TierTable{{MinStreak: 1, Multiplier: 1.0}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tiers.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTierTableResolve(t *testing.T) {
	require.NoError(t, DefaultTiers.Validate())

	tests := []struct {
		streak int
		want   float64
	}{
		{0, 1.0},
		{1, 1.0},
		{2, 1.0},
		{3, 1.25},
		{6, 1.25},
		{7, 1.5},
		{13, 1.5},
		{14, 1.75},
		{29, 1.75},
		{30, 2.0},
		{60, 2.5},
		{100, 3.0},
		{500, 3.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultTiers.Resolve(tt.streak), "streak %d", tt.streak)
	}
}

func TestTierTableResolveNeverDecreases(t *testing.T) {
	prev := 0.0
	for s := 0; s <= 200; s++ {
		m := DefaultTiers.Resolve(s)
		assert.GreaterOrEqual(t, m, prev, "multiplier dropped at streak %d", s)
		prev = m
	}
}

func TestMaxMinStreak(t *testing.T) {
	assert.Equal(t, 100, DefaultTiers.MaxMinStreak())
}
