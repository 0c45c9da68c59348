package model

import "time"

// MessageRequest status values. PENDING -> ACCEPTED | DECLINED, one way.
// BLOCKED is part of the enumerated set but only reachable through moderation tooling.
const (
	MessageRequestPending  = "PENDING"
	MessageRequestAccepted = "ACCEPTED"
	MessageRequestDeclined = "DECLINED"
	MessageRequestBlocked  = "BLOCKED"
)

func IsMessageRequestStatus(s string) bool {
	switch s {
	case MessageRequestPending, MessageRequestAccepted, MessageRequestDeclined, MessageRequestBlocked:
		return true
	}
	return false
}

type Message struct {
	ID           uint64 `gorm:"primaryKey"`
	FromUserID   uint64 `gorm:"not null;index:idx_from_to"`
	ToUserID     uint64 `gorm:"not null;index:idx_from_to;index:idx_to_unread"`
	Content      string `gorm:"type:text"`
	AttachmentID string `gorm:"size:36"`
	IsRead       bool   `gorm:"not null;default:false;index:idx_to_unread"`
	ReplyToID    *uint64
	SentAt       time.Time `gorm:"autoCreateTime;index"`
}

// MessageRequest is the first-contact consent gate between two users.
type MessageRequest struct {
	ID         uint64 `gorm:"primaryKey"`
	FromUserID uint64 `gorm:"not null;index;uniqueIndex:uk_from_to"`
	ToUserID   uint64 `gorm:"not null;index;uniqueIndex:uk_from_to"`
	Status     string `gorm:"size:20;not null;default:'PENDING'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (MessageRequest) TableName() string { return "message_requests" }

// UserBlock suppresses messaging in both directions while present.
type UserBlock struct {
	ID        uint64 `gorm:"primaryKey"`
	BlockerID uint64 `gorm:"not null;index;uniqueIndex:uk_blocker_blocked"`
	BlockedID uint64 `gorm:"not null;index;uniqueIndex:uk_blocker_blocked"`
	CreatedAt time.Time
}

func (UserBlock) TableName() string { return "user_blocks" }
