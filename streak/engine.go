package streak

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrEventLog marks failures reading or writing the login-event log. A failed
// read is not the same as an empty history; the engine never reports a zero
// streak because storage was down.
var ErrEventLog = errors.New("login event log unavailable")

// ErrInvalidUser marks a user identifier that cannot own login events. The
// account system owns user existence; this guard only rejects identifiers
// that are structurally impossible.
var ErrInvalidUser = errors.New("invalid user")

// Store is the narrow contract the engine needs from the event log. Events
// are immutable once written; InsertDay is the only write path the engine
// ever uses.
type Store interface {
	// RecentDays returns up to limit most recent login-event days for the
	// user, most recent first. Each value names a UTC calendar day by its
	// date components; any location a driver attaches (DATE columns scan as
	// midnight in the connection zone) is ignored by the engine.
	RecentDays(ctx context.Context, userID uint, limit int) ([]time.Time, error)

	// InsertDay records a login event for the given UTC day unless one
	// already exists for (user, day). It reports whether a new row was
	// written; false means another caller won the race, which counts as
	// success.
	InsertDay(ctx context.Context, userID uint, day time.Time) (bool, error)
}

// Engine computes streak state and performs the idempotent daily check-in.
type Engine struct {
	store    Store
	tiers    TierTable
	lookback int
}

// NewEngine builds an engine over the given store. An empty tier table falls
// back to DefaultTiers. The lookback window must cover the highest tier
// threshold, otherwise a legitimate long streak could resolve to a lower
// multiplier than the user earned.
func NewEngine(store Store, tiers TierTable, lookbackDays int) (*Engine, error) {
	if store == nil {
		return nil, errors.New("streak: store is required")
	}
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	if err := tiers.Validate(); err != nil {
		return nil, fmt.Errorf("streak: invalid tier table: %w", err)
	}
	if lookbackDays < tiers.MaxMinStreak() {
		return nil, fmt.Errorf("streak: lookback of %d days cannot cover the %d-day tier threshold", lookbackDays, tiers.MaxMinStreak())
	}
	return &Engine{store: store, tiers: tiers, lookback: lookbackDays}, nil
}

// Tiers exposes the configured tier table so the UI can render the ladder
// without re-deriving anything.
func (e *Engine) Tiers() TierTable { return e.tiers }

// Resolve computes the user's streak state as of now. Read-only and
// deterministic with respect to the fetched event set; the caller supplies
// now so behavior is testable without the wall clock. A user with no events
// resolves to {0, 0, 1.0} with a nil error.
func (e *Engine) Resolve(ctx context.Context, userID uint, now time.Time) (State, error) {
	if userID == 0 {
		return State{}, ErrInvalidUser
	}
	days, err := e.load(ctx, userID)
	if err != nil {
		return State{}, err
	}
	return e.stateFor(days, DayOf(now)), nil
}

// EnsureCheckIn records a login event for now's UTC day unless one already
// exists, then returns the fresh streak state. Repeated calls on the same day
// are no-ops after the first; concurrent callers produce at most one event
// because the store insert is conditional on the (user, day) key.
func (e *Engine) EnsureCheckIn(ctx context.Context, userID uint, now time.Time) (State, error) {
	if userID == 0 {
		return State{}, ErrInvalidUser
	}
	today := DayOf(now)

	days, err := e.load(ctx, userID)
	if err != nil {
		return State{}, err
	}
	if _, ok := days[today]; ok {
		return e.stateFor(days, today), nil
	}

	if _, err := e.store.InsertDay(ctx, userID, today); err != nil {
		return State{}, fmt.Errorf("%w: record check-in: %v", ErrEventLog, err)
	}

	// Recompute from storage rather than patching the local set, so our view
	// converges with any writer that raced us.
	days, err = e.load(ctx, userID)
	if err != nil {
		return State{}, err
	}
	return e.stateFor(days, today), nil
}

func (e *Engine) load(ctx context.Context, userID uint) (map[time.Time]struct{}, error) {
	events, err := e.store.RecentDays(ctx, userID, e.lookback)
	if err != nil {
		return nil, fmt.Errorf("%w: load login events: %v", ErrEventLog, err)
	}
	return distinctDays(events), nil
}

func (e *Engine) stateFor(days map[time.Time]struct{}, today time.Time) State {
	current := currentRun(days, today)
	longest := longestRun(days)
	if longest < current {
		longest = current
	}
	return State{
		CurrentStreak: current,
		LongestStreak: longest,
		Multiplier:    e.tiers.Resolve(current),
	}
}

// ApplyMultiplier scales a base score by an already resolved multiplier,
// rounding half away from zero so ties never under-reward. It never refetches
// streak state: callers resolve once per session and reuse the multiplier.
func ApplyMultiplier(baseScore int64, multiplier float64) int64 {
	return int64(math.Round(float64(baseScore) * multiplier))
}
