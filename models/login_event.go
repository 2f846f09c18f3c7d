package models

import "time"

// LoginEvent records that a user was active on one UTC calendar day. Rows are
// immutable and written only by the streak engine's check-in path; the unique
// (user_id, day) index guarantees at most one row per user per day no matter
// how many callers race.
type LoginEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:idx_login_events_user_day,unique;not null" json:"user_id"`
	Day        time.Time `gorm:"index:idx_login_events_user_day,unique;type:date;not null" json:"day"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
