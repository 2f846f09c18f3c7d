package models

import "time"

// Achievement kinds decide which counter the threshold applies to.
const (
	AchievementKindPoints = "points"
	AchievementKindStreak = "streak"
)

// Achievement is a static badge definition. RewardPoints is a base payout;
// the streak multiplier active at grant time scales it, same as game scores.
type Achievement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Title        string    `gorm:"size:128;not null" json:"title"`
	Description  string    `gorm:"size:512" json:"description"`
	Kind         string    `gorm:"size:16;not null" json:"kind"`
	Threshold    int64     `gorm:"not null" json:"threshold"`
	RewardPoints int64     `gorm:"not null;default:0" json:"reward_points"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserAchievement marks a badge as earned. The unique (user_id,
// achievement_id) index keeps concurrent score submissions from granting the
// same badge twice.
type UserAchievement struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"index:idx_user_achievements_pair,unique;not null" json:"user_id"`
	AchievementID uint        `gorm:"index:idx_user_achievements_pair,unique;not null" json:"achievement_id"`
	AwardedPoints int64       `gorm:"not null;default:0" json:"awarded_points"`
	CreatedAt     time.Time   `json:"created_at"`
	Achievement   Achievement `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"achievement"`
}
