package streak

import (
	"errors"
	"fmt"
)

// Tier maps a minimum streak length to a score multiplier.
type Tier struct {
	MinStreak  int     `json:"min_streak"`
	Multiplier float64 `json:"multiplier"`
}

// TierTable is an ordered list of tiers, ascending by MinStreak. The floor
// entry with MinStreak 1 must always be present. The table is configuration
// and never changes within a session.
type TierTable []Tier

// DefaultTiers is the multiplier ladder used when none is configured.
var DefaultTiers = TierTable{
	{MinStreak: 1, Multiplier: 1.0},
	{MinStreak: 3, Multiplier: 1.25},
	{MinStreak: 7, Multiplier: 1.5},
	{MinStreak: 14, Multiplier: 1.75},
	{MinStreak: 30, Multiplier: 2.0},
	{MinStreak: 60, Multiplier: 2.5},
	{MinStreak: 100, Multiplier: 3.0},
}

// Validate checks the structural invariants of the table.
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return errors.New("tier table is empty")
	}
	if t[0].MinStreak != 1 {
		return fmt.Errorf("tier table must start at min_streak=1, got %d", t[0].MinStreak)
	}
	for i, tier := range t {
		if tier.Multiplier <= 0 {
			return fmt.Errorf("tier %d has non-positive multiplier %v", i, tier.Multiplier)
		}
		if i == 0 {
			continue
		}
		if tier.MinStreak <= t[i-1].MinStreak {
			return fmt.Errorf("tier min_streak values must be strictly ascending: %d after %d", tier.MinStreak, t[i-1].MinStreak)
		}
		if tier.Multiplier < t[i-1].Multiplier {
			return fmt.Errorf("tier multipliers must be non-decreasing: %v after %v", tier.Multiplier, t[i-1].Multiplier)
		}
	}
	return nil
}

// Resolve returns the multiplier of the highest tier whose MinStreak does not
// exceed the given streak. A streak of zero resolves to the 1.0 floor.
func (t TierTable) Resolve(currentStreak int) float64 {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].MinStreak <= currentStreak {
			return t[i].Multiplier
		}
	}
	return 1.0
}

// MaxMinStreak returns the highest threshold in the table. The event lookback
// window must cover at least this many days or long streaks get undercounted.
func (t TierTable) MaxMinStreak() int {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].MinStreak
}
