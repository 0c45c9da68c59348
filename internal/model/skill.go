package model

import "time"

var (
	SkillCategories     = []string{"programming", "design", "marketing", "business", "language", "music", "other"}
	SkillLevels         = []string{"beginner", "intermediate", "advanced"}
	SkillAvailabilities = []string{"weekdays", "weekends", "evenings", "flexible"}
)

type Skill struct {
	ID           uint64 `gorm:"primaryKey"`
	OwnerID      uint64 `gorm:"not null;index"`
	Title        string `gorm:"size:200;not null"`
	Category     string `gorm:"size:50;not null;index"`
	Description  string `gorm:"type:text"`
	Level        string `gorm:"size:50;not null"`
	Availability string `gorm:"size:50;not null"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}
