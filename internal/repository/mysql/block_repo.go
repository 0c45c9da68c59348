package mysql

import (
	"context"

	"SkillSwap/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserBlockRepository struct {
	DB *gorm.DB
}

// Create inserts the block idempotently; returns false when the pair was
// already blocked.
func (r *UserBlockRepository) Create(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	tx := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blocker_id"}, {Name: "blocked_id"}},
		DoNothing: true,
	}).Create(&model.UserBlock{BlockerID: blockerID, BlockedID: blockedID})
	return tx.RowsAffected > 0, tx.Error
}

func (r *UserBlockRepository) Delete(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	tx := r.DB.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.UserBlock{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *UserBlockRepository) Exists(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserBlock{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&n).Error
	return n > 0, err
}

func (r *UserBlockRepository) ListBlocked(ctx context.Context, blockerID uint64) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).
		Joins("JOIN user_blocks ub ON ub.blocked_id = users.id").
		Where("ub.blocker_id = ?", blockerID).
		Find(&users).Error
	return users, err
}
