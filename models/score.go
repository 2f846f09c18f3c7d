package models

import "time"

// GameScore is one scored play of a mini-game. BaseScore is what the client
// reported; FinalScore is BaseScore scaled by the streak multiplier that was
// active when the play was submitted. Both are kept so the researcher
// dashboard can separate raw performance from bonus effects.
type GameScore struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionID  string    `gorm:"size:36;index;not null" json:"session_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	GameID     uint      `gorm:"index;not null" json:"game_id"`
	BaseScore  int64     `gorm:"not null" json:"base_score"`
	Multiplier float64   `gorm:"not null;default:1" json:"multiplier"`
	FinalScore int64     `gorm:"not null" json:"final_score"`
	CreatedAt  time.Time `json:"created_at"`
	Game       Game      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"game"`
}
