package mysql

import (
	"context"

	"SkillSwap/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

// HasHistory reports whether any message has ever been exchanged between the
// pair, in either direction.
func (r *MessageRepository) HasHistory(ctx context.Context, a, b uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Message{}).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		Count(&n).Error
	return n > 0, err
}

// History pages the conversation ascending by sent time; cursor is the last
// seen message id, limit+1 detects the next page.
func (r *MessageRepository) History(ctx context.Context, a, b uint64, cursor uint64, limit int) ([]model.Message, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := r.DB.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a)
	if cursor > 0 {
		q = q.Where("id > ?", cursor)
	}
	var rows []model.Message
	if err := q.Order("sent_at ASC, id ASC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		rows = rows[:limit]
		next = rows[limit-1].ID
	}
	return rows, next, nil
}

func (r *MessageRepository) LastBetween(ctx context.Context, a, b uint64) (*model.Message, error) {
	var msg model.Message
	err := r.DB.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		Order("sent_at DESC, id DESC").
		First(&msg).Error
	return &msg, err
}

// MarkRead flips unread rows from one sender to the reader; rows outside
// that scope are untouched.
func (r *MessageRepository) MarkRead(ctx context.Context, fromID, toID uint64) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Message{}).
		Where("from_user_id = ? AND to_user_id = ? AND is_read = ?", fromID, toID, false).
		Update("is_read", true)
	return tx.RowsAffected, tx.Error
}

func (r *MessageRepository) UnreadCount(ctx context.Context, fromID, toID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Message{}).
		Where("from_user_id = ? AND to_user_id = ? AND is_read = ?", fromID, toID, false).
		Count(&n).Error
	return n, err
}

func (r *MessageRepository) UnreadTotal(ctx context.Context, toID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Message{}).
		Where("to_user_id = ? AND is_read = ?", toID, false).
		Count(&n).Error
	return n, err
}

// ConversationPeers lists the distinct users this one has exchanged
// messages with.
func (r *MessageRepository) ConversationPeers(ctx context.Context, userID uint64) ([]uint64, error) {
	var peers []uint64
	err := r.DB.WithContext(ctx).Raw(`
		SELECT DISTINCT CASE WHEN from_user_id = ? THEN to_user_id ELSE from_user_id END AS peer
		FROM messages
		WHERE from_user_id = ? OR to_user_id = ?`,
		userID, userID, userID,
	).Scan(&peers).Error
	return peers, err
}
