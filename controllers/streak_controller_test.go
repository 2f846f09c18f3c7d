package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mathquest/mathquest/streak"
	"github.com/mathquest/mathquest/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()
}

// fakeStore is an in-memory streak.Store for handler tests.
type fakeStore struct {
	mu      sync.Mutex
	days    map[uint]map[time.Time]struct{}
	readErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{days: map[uint]map[time.Time]struct{}{}}
}

func (f *fakeStore) RecentDays(ctx context.Context, userID uint, limit int) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]time.Time, 0, len(f.days[userID]))
	for d := range f.days[userID] {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeStore) InsertDay(ctx context.Context, userID uint, day time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.days[userID]
	if !ok {
		set = map[time.Time]struct{}{}
		f.days[userID] = set
	}
	if _, exists := set[day]; exists {
		return false, nil
	}
	set[day] = struct{}{}
	return true, nil
}

func streakTestRouter(store streak.Store) *gin.Engine {
	engine, err := streak.NewEngine(store, nil, 120)
	if err != nil {
		panic(err)
	}
	sc := NewStreakController(nil, engine)
	cc := NewConfigController(engine)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
	})
	r.POST("/checkin/daily", sc.DailyCheckIn)
	r.GET("/checkin/status", sc.Status)
	r.GET("/config/tiers", cc.GetTiers)
	return r
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestDailyCheckInThenStatus(t *testing.T) {
	r := streakTestRouter(newFakeStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkin/daily", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 0, env.Code)

	var state streak.State
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 1.0, state.Multiplier)

	// A repeated check-in on the same day returns the identical state.
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodPost, "/checkin/daily", nil))
	require.Equal(t, http.StatusOK, w2.Code)
	assert.JSONEq(t, w.Body.String(), w2.Body.String())

	// Status reflects the recorded check-in without writing anything.
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, httptest.NewRequest(http.MethodGet, "/checkin/status", nil))
	require.Equal(t, http.StatusOK, w3.Code)
	require.NoError(t, json.Unmarshal(w3.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, 1, state.CurrentStreak)
}

func TestDailyCheckInStorageDown(t *testing.T) {
	store := newFakeStore()
	store.readErr = errors.New("connection refused")
	r := streakTestRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkin/daily", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 50310, env.Code)
}

func TestGetTiersLadder(t *testing.T) {
	r := streakTestRouter(newFakeStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/config/tiers", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var tiers []struct {
		MinStreak  int     `json:"min_streak"`
		Multiplier float64 `json:"multiplier"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tiers))
	require.NotEmpty(t, tiers)
	assert.Equal(t, 1, tiers[0].MinStreak)
	assert.Equal(t, 1.0, tiers[0].Multiplier)
}
