package mysql

import (
	"SkillSwap/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func (r *ReviewRepository) Create(review *model.Review) error {
	return r.DB.Create(review).Error
}

func (r *ReviewRepository) FindByID(id uint64) (*model.Review, error) {
	var review model.Review
	err := r.DB.First(&review, id).Error
	return &review, err
}

func (r *ReviewRepository) Update(id uint64, fields map[string]any) error {
	return r.DB.Model(&model.Review{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ReviewRepository) Delete(id uint64) error {
	return r.DB.Delete(&model.Review{}, id).Error
}

func (r *ReviewRepository) ListBySkill(skillID uint64) ([]model.Review, error) {
	var list []model.Review
	err := r.DB.Where("skill_id = ?", skillID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// OwnerAvg averages the rated reviews across all of one owner's skills.
func (r *ReviewRepository) OwnerAvg(ownerID uint64) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.Review{}).
		Joins("JOIN skills ON skills.id = reviews.skill_id").
		Where("skills.owner_id = ? AND reviews.rating IS NOT NULL", ownerID).
		Select("AVG(reviews.rating)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *ReviewRepository) AvgRatingAll() (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.Review{}).Select("AVG(rating)").Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
