package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTiersEnv(t *testing.T) {
	tiers := parseTiersEnv("1:1.0, 3:1.25 ,7:1.5")
	assert.Equal(t, []StreakTier{
		{MinStreak: 1, Multiplier: 1.0},
		{MinStreak: 3, Multiplier: 1.25},
		{MinStreak: 7, Multiplier: 1.5},
	}, tiers)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , b ,, "))
	assert.Equal(t, []string{}, splitAndTrim(""))
}

func TestApplyDefaultsFillsStreakConfig(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)
	assert.NotEmpty(t, c.StreakTiers)
	assert.Equal(t, 1, c.StreakTiers[0].MinStreak)
	assert.GreaterOrEqual(t, c.StreakLookbackDays, c.StreakTiers[len(c.StreakTiers)-1].MinStreak)
}
