package model

import "time"

// SkillRequest status values. Transitions are forward only:
// PENDING -> APPROVED -> IN_PROGRESS -> COMPLETED, or PENDING -> REJECTED.
const (
	RequestPending    = "PENDING"
	RequestApproved   = "APPROVED"
	RequestRejected   = "REJECTED"
	RequestInProgress = "IN_PROGRESS"
	RequestCompleted  = "COMPLETED"
)

type SkillRequest struct {
	ID           uint64 `gorm:"primaryKey"`
	SkillID      uint64 `gorm:"not null;index;uniqueIndex:uk_skill_requester"`
	RequesterID  uint64 `gorm:"not null;index;uniqueIndex:uk_skill_requester"`
	OwnerID      uint64 `gorm:"not null;index"`
	Status       string `gorm:"size:20;not null;default:'PENDING'"`
	ScheduledFor *time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (SkillRequest) TableName() string { return "skill_requests" }
