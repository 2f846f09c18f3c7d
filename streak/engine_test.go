package streak

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	mu       sync.Mutex
	days     map[uint]map[time.Time]struct{}
	readErr  error
	writeErr error
	inserts  int
}

func newMemStore() *memStore {
	return &memStore{days: map[uint]map[time.Time]struct{}{}}
}

func (m *memStore) seed(userID uint, days ...time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.days[userID]
	if !ok {
		set = map[time.Time]struct{}{}
		m.days[userID] = set
	}
	for _, d := range days {
		set[DayOf(d)] = struct{}{}
	}
}

func (m *memStore) RecentDays(ctx context.Context, userID uint, limit int) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]time.Time, 0, len(m.days[userID]))
	for d := range m.days[userID] {
		out = append(out, d)
	}
	return out, nil
}

func (m *memStore) InsertDay(ctx context.Context, userID uint, day time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return false, m.writeErr
	}
	set, ok := m.days[userID]
	if !ok {
		set = map[time.Time]struct{}{}
		m.days[userID] = set
	}
	if _, exists := set[day]; exists {
		return false, nil
	}
	set[day] = struct{}{}
	m.inserts++
	return true, nil
}

func newTestEngine(t *testing.T, store Store) *Engine {
	t.Helper()
	engine, err := NewEngine(store, DefaultTiers, 120)
	require.NoError(t, err)
	return engine
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d.UTC()
}

var now = day("2026-03-15").Add(9*time.Hour + 30*time.Minute)

func TestResolveConsecutiveRun(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 7; i++ {
		store.seed(1, DayOf(now).AddDate(0, 0, -i))
	}
	engine := newTestEngine(t, store)

	state, err := engine.Resolve(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 7, state.CurrentStreak)
	assert.Equal(t, 7, state.LongestStreak)
	assert.Equal(t, 1.5, state.Multiplier)
}

func TestResolveYesterdayKeepsStreakAlive(t *testing.T) {
	// Events on D-3..D-1 but not today: the run is alive, not extended.
	store := newMemStore()
	for i := 1; i <= 3; i++ {
		store.seed(1, DayOf(now).AddDate(0, 0, -i))
	}
	engine := newTestEngine(t, store)

	state, err := engine.Resolve(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 3, state.CurrentStreak)
	assert.Equal(t, 1.25, state.Multiplier)
}

func TestResolveGapBreaksStreak(t *testing.T) {
	store := newMemStore()
	store.seed(1, DayOf(now).AddDate(0, 0, -10))
	engine := newTestEngine(t, store)

	state, err := engine.Resolve(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 0, state.CurrentStreak)
	assert.Equal(t, 1, state.LongestStreak)
	assert.Equal(t, 1.0, state.Multiplier)
}

func TestResolveNoEvents(t *testing.T) {
	engine := newTestEngine(t, newMemStore())

	state, err := engine.Resolve(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, State{CurrentStreak: 0, LongestStreak: 0, Multiplier: 1.0}, state)
}

func TestResolveDuplicateEventsSameDay(t *testing.T) {
	store := newMemStore()
	today := DayOf(now)
	store.seed(1, today, today.Add(4*time.Hour), today.Add(23*time.Hour), today.AddDate(0, 0, -1))
	engine := newTestEngine(t, store)

	state, err := engine.Resolve(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 2, state.CurrentStreak)
}

func TestResolveLongestOlderThanCurrent(t *testing.T) {
	store := newMemStore()
	today := DayOf(now)
	// Current run of 2, an older run of 5.
	store.seed(1, today, today.AddDate(0, 0, -1))
	for i := 10; i < 15; i++ {
		store.seed(1, today.AddDate(0, 0, -i))
	}
	engine := newTestEngine(t, store)

	state, err := engine.Resolve(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, 5, state.LongestStreak)
	assert.Equal(t, 1.0, state.Multiplier)
}

// fixedStore returns day values verbatim, the way a SQL driver hands back
// DATE columns: midnight in whatever zone the connection uses.
type fixedStore struct {
	days []time.Time
}

func (f *fixedStore) RecentDays(ctx context.Context, userID uint, limit int) ([]time.Time, error) {
	return f.days, nil
}

func (f *fixedStore) InsertDay(ctx context.Context, userID uint, d time.Time) (bool, error) {
	f.days = append(f.days, d)
	return true, nil
}

func TestResolveDayValuesInDriverZone(t *testing.T) {
	east := time.FixedZone("UTC+8", 8*60*60)
	west := time.FixedZone("UTC-5", -5*60*60)

	// now = 2026-03-15 09:30 UTC; a run on the three preceding calendar days.
	tests := []struct {
		name string
		zone *time.Location
	}{
		{"east of UTC", east},
		{"west of UTC", west},
		{"UTC", time.UTC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fixedStore{}
			for _, d := range []string{"2026-03-12", "2026-03-13", "2026-03-14"} {
				parsed, err := time.ParseInLocation("2006-01-02", d, tt.zone)
				require.NoError(t, err)
				store.days = append(store.days, parsed)
			}
			engine := newTestEngine(t, store)

			state, err := engine.Resolve(context.Background(), 1, now)
			require.NoError(t, err)
			assert.Equal(t, 3, state.CurrentStreak)
			assert.Equal(t, 1.25, state.Multiplier)
		})
	}
}

func TestEnsureCheckInAfterDriverZoneDays(t *testing.T) {
	east := time.FixedZone("UTC+8", 8*60*60)
	store := &fixedStore{}
	for _, d := range []string{"2026-03-13", "2026-03-14"} {
		parsed, err := time.ParseInLocation("2006-01-02", d, east)
		require.NoError(t, err)
		store.days = append(store.days, parsed)
	}
	engine := newTestEngine(t, store)

	state, err := engine.EnsureCheckIn(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 3, state.CurrentStreak)

	// The inserted day is a plain UTC midnight, never zone-shifted.
	last := store.days[len(store.days)-1]
	assert.Equal(t, DayOf(now), last)
	assert.Equal(t, time.UTC, last.Location())
}

func TestResolveReadFailure(t *testing.T) {
	store := newMemStore()
	store.readErr = errors.New("connection refused")
	engine := newTestEngine(t, store)

	_, err := engine.Resolve(context.Background(), 1, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEventLog))
}

func TestEnsureCheckInRecordsOnce(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(t, store)

	first, err := engine.EnsureCheckIn(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CurrentStreak)
	assert.Equal(t, 1.0, first.Multiplier)

	second, err := engine.EnsureCheckIn(context.Background(), 1, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.inserts)
}

func TestEnsureCheckInExtendsStreak(t *testing.T) {
	store := newMemStore()
	for i := 1; i <= 6; i++ {
		store.seed(1, DayOf(now).AddDate(0, 0, -i))
	}
	engine := newTestEngine(t, store)

	state, err := engine.EnsureCheckIn(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 7, state.CurrentStreak)
	assert.Equal(t, 1.5, state.Multiplier)
}

func TestEnsureCheckInWriteFailure(t *testing.T) {
	store := newMemStore()
	store.writeErr = errors.New("deadlock detected")
	engine := newTestEngine(t, store)

	_, err := engine.EnsureCheckIn(context.Background(), 1, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEventLog))
}

func TestEnsureCheckInLosingRaceIsSuccess(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(t, store)

	// Simulate another writer landing today's row first.
	inserted, err := store.InsertDay(context.Background(), 1, DayOf(now))
	require.NoError(t, err)
	require.True(t, inserted)

	state, err := engine.EnsureCheckIn(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStreak)
}

func TestEnsureCheckInConcurrent(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(t, store)

	const callers = 16
	var wg sync.WaitGroup
	states := make([]State, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i], errs[i] = engine.EnsureCheckIn(context.Background(), 1, now)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, 1, states[i].CurrentStreak)
	}
	assert.Equal(t, 1, store.inserts)
}

func TestInvalidUserRejected(t *testing.T) {
	engine := newTestEngine(t, newMemStore())

	_, err := engine.Resolve(context.Background(), 0, now)
	assert.True(t, errors.Is(err, ErrInvalidUser))

	_, err = engine.EnsureCheckIn(context.Background(), 0, now)
	assert.True(t, errors.Is(err, ErrInvalidUser))
}

func TestApplyMultiplier(t *testing.T) {
	tests := []struct {
		base       int64
		multiplier float64
		want       int64
	}{
		{100, 1.5, 150},
		{0, 3.0, 0},
		{33, 1.25, 41},
		{30, 1.25, 38},
		{1, 1.0, 1},
		{999, 2.5, 2498},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ApplyMultiplier(tt.base, tt.multiplier), "%d * %v", tt.base, tt.multiplier)
	}
}

func TestNewEngineValidation(t *testing.T) {
	store := newMemStore()

	_, err := NewEngine(nil, DefaultTiers, 120)
	assert.Error(t, err)

	// Lookback shorter than the top tier threshold.
	_, err = NewEngine(store, DefaultTiers, 30)
	assert.Error(t, err)

	// Empty table falls back to defaults.
	engine, err := NewEngine(store, nil, 120)
	require.NoError(t, err)
	assert.Equal(t, DefaultTiers, engine.Tiers())

	_, err = NewEngine(store, TierTable{{MinStreak: 2, Multiplier: 1.0}}, 120)
	assert.Error(t, err)
}
