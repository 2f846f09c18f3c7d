package models

import "time"

// Game is one entry in the mini-game catalog. The browser client owns the 3D
// scenes; the backend only knows slugs, metadata, and scoring bounds.
type Game struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Slug         string    `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	Title        string    `gorm:"size:128;not null" json:"title"`
	Description  string    `gorm:"size:512" json:"description"`
	Topic        string    `gorm:"size:64;index" json:"topic"`
	MaxBaseScore int64     `gorm:"not null;default:1000" json:"max_base_score"`
	Enabled      bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
