package model

import "time"

type Review struct {
	ID         uint64 `gorm:"primaryKey"`
	SkillID    uint64 `gorm:"not null;index"`
	ReviewerID uint64 `gorm:"not null;index"`
	Rating     *int   // optional, 0-5
	Comment    string `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
