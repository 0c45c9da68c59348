package mysql

import (
	"context"

	"SkillSwap/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.DB.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) List(ctx context.Context, unresolvedOnly bool) ([]model.Report, error) {
	q := r.DB.WithContext(ctx).Model(&model.Report{})
	if unresolvedOnly {
		q = q.Where("resolved = ?", false)
	}
	var list []model.Report
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ReportRepository) Resolve(ctx context.Context, id uint64) (bool, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Report{}).
		Where("id = ? AND resolved = ?", id, false).
		Update("resolved", true)
	return tx.RowsAffected > 0, tx.Error
}
