package streak

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mathquest/mathquest/models"
)

// GormStore persists login events through GORM. The unique key on
// login_events (user_id, day) is what makes InsertDay safe under concurrent
// check-ins from multiple tabs or retried requests.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a database handle as an event-log store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// RecentDays returns up to limit most recent event days, newest first. The
// day column is a DATE; the connection runs with loc=UTC and the engine
// additionally reads only the date components, so the zone a driver attaches
// to the scanned midnights cannot shift the day.
func (s *GormStore) RecentDays(ctx context.Context, userID uint, limit int) ([]time.Time, error) {
	var days []time.Time
	err := s.db.WithContext(ctx).
		Model(&models.LoginEvent{}).
		Where("user_id = ?", userID).
		Order("day DESC").
		Limit(limit).
		Pluck("day", &days).Error
	if err != nil {
		return nil, err
	}
	return days, nil
}

// InsertDay writes at most one event per (user, day). The conflict clause
// turns a concurrent duplicate into a no-op instead of an error.
func (s *GormStore) InsertDay(ctx context.Context, userID uint, day time.Time) (bool, error) {
	event := models.LoginEvent{
		UserID:     userID,
		Day:        day,
		OccurredAt: time.Now().UTC(),
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		Create(&event)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
