package model

import "time"

const (
	MeetingScheduled = "scheduled"
	MeetingConfirmed = "confirmed"
	MeetingCancelled = "cancelled"
	MeetingCompleted = "completed"

	MeetingMinDuration = 15
	MeetingMaxDuration = 480
)

var MeetingTypes = []string{"skill_swap", "tutoring", "project", "general"}

func IsMeetingStatus(s string) bool {
	switch s {
	case MeetingScheduled, MeetingConfirmed, MeetingCancelled, MeetingCompleted:
		return true
	}
	return false
}

type Meeting struct {
	ID              uint64 `gorm:"primaryKey"`
	Title           string `gorm:"size:200;not null"`
	Description     string `gorm:"type:text"`
	OrganizerID     uint64 `gorm:"not null;index"`
	MeetingType     string `gorm:"size:20;not null;default:'general'"`
	ScheduledDate   time.Time `gorm:"not null;index"`
	DurationMinutes int    `gorm:"not null;default:30"`
	Location        string `gorm:"size:300"`
	Status          string `gorm:"size:20;not null;default:'scheduled'"`
	RelatedSkillID  *uint64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (m *Meeting) EndTime() time.Time {
	return m.ScheduledDate.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

type MeetingParticipant struct {
	ID        uint64 `gorm:"primaryKey"`
	MeetingID uint64 `gorm:"not null;index;uniqueIndex:uk_meeting_user"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_meeting_user"`
	CreatedAt time.Time
}
