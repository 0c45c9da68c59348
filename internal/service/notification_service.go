package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"SkillSwap/internal/model"
	"SkillSwap/internal/pkg"
	"SkillSwap/internal/repository/mysql"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

var ErrUnknownKind = errors.New("unknown notification kind")

var emailSendFailures = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "skillswap_notification_email_failures_total",
	Help: "Notification emails that failed to send.",
})

func init() {
	prometheus.MustRegister(emailSendFailures)
}

var validKinds = map[string]struct{}{
	model.KindNewSkill:       {},
	model.KindSkillRequest:   {},
	model.KindRequestStatus:  {},
	model.KindSkillSession:   {},
	model.KindSkillCompleted: {},
	model.KindReview:         {},
	model.KindMessage:        {},
	model.KindMessageRequest: {},
	model.KindMeetingInvite:  {},
	model.KindMeetingUpdate:  {},
}

type NotificationService struct {
	db     *gorm.DB
	repo   *mysql.NotificationRepository
	outbox *mysql.NotificationOutboxRepository
	users  *mysql.UserRepository
	smtp   pkg.SMTPConfig
	send   func(cfg pkg.SMTPConfig, to, subject, html string) error
}

func NewNotificationService(db *gorm.DB, smtp pkg.SMTPConfig) *NotificationService {
	return &NotificationService{
		db:     db,
		repo:   &mysql.NotificationRepository{DB: db},
		outbox: &mysql.NotificationOutboxRepository{DB: db},
		users:  &mysql.UserRepository{DB: db},
		smtp:   smtp,
		send:   pkg.SendEmail,
	}
}

type outboxPayload struct {
	EventID   string `json:"event_id"`
	UserID    uint64 `json:"user_id"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"created_at"`
}

// Notify writes the in-app row and the outbox event in one transaction,
// then attempts the email exactly once. The email is best-effort: failure
// is logged and counted, never returned, never retried.
func (s *NotificationService) Notify(ctx context.Context, userID uint64, kind, text string, relatedUserID, relatedMeetingID *uint64) error {
	if _, ok := validKinds[kind]; !ok {
		return ErrUnknownKind
	}

	n := &model.Notification{
		UserID:           userID,
		Message:          text,
		NotificationType: kind,
		RelatedUserID:    relatedUserID,
		RelatedMeetingID: relatedMeetingID,
	}
	ob := &model.NotificationOutbox{
		EventID: uuid.NewString(),
		UserID:  userID,
		Kind:    kind,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := (&mysql.NotificationRepository{DB: tx}).Create(ctx, n); err != nil {
			return err
		}
		payload, err := json.Marshal(outboxPayload{
			EventID:   ob.EventID,
			UserID:    userID,
			Kind:      kind,
			Message:   text,
			CreatedAt: time.Now().Unix(),
		})
		if err != nil {
			return err
		}
		ob.Payload = string(payload)
		return (&mysql.NotificationOutboxRepository{DB: tx}).Create(ctx, ob)
	})
	if err != nil {
		return err
	}

	s.sendOnce(ctx, ob, kind, text)
	return nil
}

func (s *NotificationService) sendOnce(ctx context.Context, ob *model.NotificationOutbox, kind, text string) {
	user, err := s.users.FindByID(ob.UserID)
	if err != nil {
		emailSendFailures.Inc()
		log.Printf("notify email skipped: user %d lookup: %v", ob.UserID, err)
		return
	}
	html := pkg.NotificationHTML(user.Username, text)
	if err := s.send(s.smtp, user.Email, subjectFor(kind), html); err != nil {
		emailSendFailures.Inc()
		log.Printf("notify email to %d failed: %v", ob.UserID, err)
		return
	}
	_ = s.outbox.MarkEmailOK(ctx, ob.ID)
}

func subjectFor(kind string) string {
	switch kind {
	case model.KindNewSkill:
		return "A new skill was posted"
	case model.KindSkillRequest:
		return "New skill request"
	case model.KindRequestStatus:
		return "Your skill request was updated"
	case model.KindSkillSession:
		return "Your skill session started"
	case model.KindSkillCompleted:
		return "Skill exchange completed"
	case model.KindReview:
		return "You received a review"
	case model.KindMessage:
		return "New message"
	case model.KindMessageRequest:
		return "New message request"
	case model.KindMeetingInvite:
		return "Meeting invitation"
	case model.KindMeetingUpdate:
		return "Meeting updated"
	}
	return "SkillSwap notification"
}

// Broadcast fans text out to every user except the actor. Per-user
// failures are logged and skipped so one bad row cannot stop the fan-out.
func (s *NotificationService) Broadcast(ctx context.Context, actorID uint64, kind, text string, relatedUserID *uint64) error {
	targets, err := s.users.ListExcept(actorID)
	if err != nil {
		return err
	}
	for i := range targets {
		if err := s.Notify(ctx, targets[i].ID, kind, text, relatedUserID, nil); err != nil {
			log.Printf("broadcast to %d: %v", targets[i].ID, err)
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uint64, offset, limit int) ([]model.Notification, error) {
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint64) (bool, error) {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

type Sender func(ctx context.Context, ob *model.NotificationOutbox) error

// OutboxRelayer drains pending outbox rows to the event bus.
type OutboxRelayer struct {
	repo      *mysql.NotificationOutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.NotificationOutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.MarkFailed(ctx, ob.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ob.ID)
	}
}

// KafkaSender keys events by their id so redeliveries land in order.
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.NotificationOutbox) error {
		return p.Send(ctx, ob.EventID, []byte(ob.Payload))
	}
}

// LogSender stands in for Kafka in local runs.
func LogSender(ctx context.Context, ob *model.NotificationOutbox) error {
	log.Printf("OUTBOX SEND kind=%s user=%d payload=%s", ob.Kind, ob.UserID, ob.Payload)
	return nil
}

// RetentionWorker prunes notifications older than the retention window.
type RetentionWorker struct {
	repo     *mysql.NotificationRepository
	maxAge   time.Duration
	interval time.Duration
}

func NewRetentionWorker(db *gorm.DB) *RetentionWorker {
	return &RetentionWorker{
		repo:     &mysql.NotificationRepository{DB: db},
		maxAge:   30 * 24 * time.Hour,
		interval: time.Hour,
	}
}

func (w *RetentionWorker) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.pruneOnce(ctx)
		}
	}
}

func (w *RetentionWorker) pruneOnce(ctx context.Context) {
	n, err := w.repo.DeleteOlderThan(ctx, time.Now().Add(-w.maxAge))
	if err != nil {
		log.Printf("notification prune err: %v", err)
		return
	}
	if n > 0 {
		log.Printf("notification prune removed %d rows", n)
	}
}
