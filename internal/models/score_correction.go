package models

import (
	"time"
)

// ScoreCorrection 对账修正明细，每次批量对账改写 CachedScore 时记一条
type ScoreCorrection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    uint      `gorm:"not null;index" json:"item_id"`
	Variant   string    `gorm:"size:8" json:"variant"`
	OldScore  float64   `json:"old_score"`
	NewScore  float64   `json:"new_score"`
	Delta     float64   `json:"delta"`
	Reason    string    `gorm:"size:32;index" json:"reason"` // counter-mutation-missed / boost-decayed / power-expired
	CreatedAt time.Time `json:"created_at"`
}
