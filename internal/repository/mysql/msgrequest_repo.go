package mysql

import (
	"context"

	"SkillSwap/internal/model"

	"gorm.io/gorm"
)

type MessageRequestRepository struct {
	DB *gorm.DB
}

func (r *MessageRequestRepository) Create(ctx context.Context, req *model.MessageRequest) error {
	return r.DB.WithContext(ctx).Create(req).Error
}

func (r *MessageRequestRepository) FindByID(ctx context.Context, id uint64) (*model.MessageRequest, error) {
	var req model.MessageRequest
	err := r.DB.WithContext(ctx).First(&req, id).Error
	return &req, err
}

// FindBetween looks the pair up in either direction.
func (r *MessageRequestRepository) FindBetween(ctx context.Context, a, b uint64) (*model.MessageRequest, error) {
	var req model.MessageRequest
	err := r.DB.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		First(&req).Error
	return &req, err
}

func (r *MessageRequestRepository) ListPendingFor(ctx context.Context, toID uint64) ([]model.MessageRequest, error) {
	var list []model.MessageRequest
	err := r.DB.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", toID, model.MessageRequestPending).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// Transition moves PENDING to a terminal status; returns false when the row
// had already left PENDING.
func (r *MessageRequestRepository) Transition(ctx context.Context, id uint64, to string) (bool, error) {
	tx := r.DB.WithContext(ctx).Model(&model.MessageRequest{}).
		Where("id = ? AND status = ?", id, model.MessageRequestPending).
		Update("status", to)
	return tx.RowsAffected > 0, tx.Error
}

// DeclinePending force-declines a pending request from one user to another;
// used by the block cascade.
func (r *MessageRequestRepository) DeclinePending(ctx context.Context, fromID, toID uint64) error {
	return r.DB.WithContext(ctx).Model(&model.MessageRequest{}).
		Where("from_user_id = ? AND to_user_id = ? AND status = ?", fromID, toID, model.MessageRequestPending).
		Update("status", model.MessageRequestDeclined).Error
}
