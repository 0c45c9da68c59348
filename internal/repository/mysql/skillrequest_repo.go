package mysql

import (
	"context"

	"SkillSwap/internal/model"

	"gorm.io/gorm"
)

type SkillRequestRepository struct {
	DB *gorm.DB
}

func (r *SkillRequestRepository) Create(ctx context.Context, req *model.SkillRequest) error {
	return r.DB.WithContext(ctx).Create(req).Error
}

func (r *SkillRequestRepository) FindByID(ctx context.Context, id uint64) (*model.SkillRequest, error) {
	var req model.SkillRequest
	err := r.DB.WithContext(ctx).First(&req, id).Error
	return &req, err
}

func (r *SkillRequestRepository) FindBySkillAndRequester(ctx context.Context, skillID, requesterID uint64) (*model.SkillRequest, error) {
	var req model.SkillRequest
	err := r.DB.WithContext(ctx).
		Where("skill_id = ? AND requester_id = ?", skillID, requesterID).
		First(&req).Error
	return &req, err
}

func (r *SkillRequestRepository) ListByRequester(ctx context.Context, requesterID uint64) ([]model.SkillRequest, error) {
	var list []model.SkillRequest
	err := r.DB.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *SkillRequestRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]model.SkillRequest, error) {
	var list []model.SkillRequest
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// Transition moves a request from one status to another in a single guarded
// update. Returns false when the row was not in the expected source state,
// leaving it untouched.
func (r *SkillRequestRepository) Transition(ctx context.Context, id uint64, from, to string, stamps map[string]any) (bool, error) {
	updates := map[string]any{"status": to}
	for k, v := range stamps {
		updates[k] = v
	}
	tx := r.DB.WithContext(ctx).Model(&model.SkillRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return tx.RowsAffected > 0, tx.Error
}

// ForceStatus bypasses the state machine; moderation only.
func (r *SkillRequestRepository) ForceStatus(ctx context.Context, id uint64, status string) error {
	return r.DB.WithContext(ctx).Model(&model.SkillRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *SkillRequestRepository) CountBySkill(ctx context.Context, skillID uint64) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.DB.WithContext(ctx).Model(&model.SkillRequest{}).
		Select("status, COUNT(*) AS total").
		Where("skill_id = ?", skillID).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, x := range rows {
		counts[x.Status] = x.Total
	}
	return counts, nil
}

func (r *SkillRequestRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.SkillRequest{}).Count(&n).Error
	return n, err
}

func (r *SkillRequestRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.SkillRequest{}).
		Where("status = ?", status).Count(&n).Error
	return n, err
}
