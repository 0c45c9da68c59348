package model

import "time"

type Report struct {
	ID             uint64 `gorm:"primaryKey"`
	ReporterID     uint64 `gorm:"not null;index"`
	ReportedUserID uint64 `gorm:"not null;index"`
	Reason         string `gorm:"type:text;not null"`
	Resolved       bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
}
