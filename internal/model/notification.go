package model

import "time"

// Notification kinds form a closed set; Notify dispatches over these tags.
const (
	KindNewSkill       = "new_skill"
	KindSkillRequest   = "skill_request"
	KindRequestStatus  = "request_status"
	KindSkillSession   = "skill_session"
	KindSkillCompleted = "skill_completed"
	KindReview         = "review"
	KindMessage        = "message"
	KindMessageRequest = "message_request"
	KindMeetingInvite  = "meeting_invite"
	KindMeetingUpdate  = "meeting_update"
)

type Notification struct {
	ID               uint64 `gorm:"primaryKey"`
	UserID           uint64 `gorm:"not null;index"`
	Message          string `gorm:"type:text;not null"`
	NotificationType string `gorm:"size:32;not null"`
	IsRead           bool   `gorm:"not null;default:false"`
	RelatedMeetingID *uint64
	RelatedUserID    *uint64
	CreatedAt        time.Time `gorm:"index"`
}

// NotificationOutbox records every emitted notification event for the
// Kafka relayer, including whether the best-effort email went out.
type NotificationOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventID   string `gorm:"size:36;uniqueIndex;not null"`
	UserID    uint64 `gorm:"not null;index"`
	Kind      string `gorm:"size:32;not null"`
	Payload   string `gorm:"type:text;not null"`
	EmailOK   bool   `gorm:"not null;default:false"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
