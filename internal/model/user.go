package model

import "time"

const (
	RoleMember = 0
	RoleAdmin  = 1
)

type User struct {
	ID            uint64  `gorm:"primaryKey"`
	Username      string  `gorm:"uniqueIndex;size:32;not null"`
	Password      string  `gorm:"size:255;not null"`
	Email         string  `gorm:"uniqueIndex;size:64;not null"`
	Role          int     `gorm:"default:0"`
	Bio           string  `gorm:"type:text"`
	Course        string  `gorm:"size:100"`
	Year          string  `gorm:"size:20"`
	SkillsOffered string  `gorm:"type:text"`
	SkillsWanted  string  `gorm:"type:text"`
	Rating        float64 `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
