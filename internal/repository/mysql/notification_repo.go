package mysql

import (
	"context"
	"time"

	"SkillSwap/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

type NotificationOutboxRepository struct {
	DB *gorm.DB
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var list []model.Notification
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// MarkRead flips a single unread row; only is_read may change after creation.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint64) (bool, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Update("is_read", true)
	return tx.RowsAffected > 0, tx.Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return tx.RowsAffected, tx.Error
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// DeleteOlderThan prunes aged rows; retention worker calls this.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.DB.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.Notification{})
	return tx.RowsAffected, tx.Error
}

func (r *NotificationOutboxRepository) Create(ctx context.Context, ob *model.NotificationOutbox) error {
	return r.DB.WithContext(ctx).Create(ob).Error
}

func (r *NotificationOutboxRepository) ListPending(ctx context.Context, batchSize int) ([]model.NotificationOutbox, error) {
	var list []model.NotificationOutbox
	err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error
	return list, err
}

func (r *NotificationOutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.NotificationOutbox{}).
		Where("id = ?", id).
		Update("status", 1).Error
}

// MarkEmailOK records that the one-shot email for this event went out.
func (r *NotificationOutboxRepository) MarkEmailOK(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.NotificationOutbox{}).
		Where("id = ?", id).
		Update("email_ok", true).Error
}

// MarkFailed parks the row; failed events are not retried.
func (r *NotificationOutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.NotificationOutbox{}).
		Where("id = ?", id).
		Update("status", 2).Error
}
