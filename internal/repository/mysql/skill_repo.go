package mysql

import (
	"SkillSwap/internal/model"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

// SkillFilter carries the list-page query parameters.
type SkillFilter struct {
	Query    string
	Category string
	Level    string
	Sort     string // recent | name | popular | rating
}

func (r *SkillRepository) Create(skill *model.Skill) error {
	return r.DB.Create(skill).Error
}

func (r *SkillRepository) FindByID(id uint64) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.First(&skill, id).Error
	return &skill, err
}

func (r *SkillRepository) Update(id uint64, fields map[string]any) error {
	return r.DB.Model(&model.Skill{}).Where("id = ?", id).Updates(fields).Error
}

func (r *SkillRepository) Delete(id uint64) error {
	return r.DB.Delete(&model.Skill{}, id).Error
}

func (r *SkillRepository) ListByOwner(ownerID uint64) ([]model.Skill, error) {
	var list []model.Skill
	err := r.DB.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// List applies search, filters and sort, then pages by offset.
func (r *SkillRepository) List(f SkillFilter, offset, limit int) ([]model.Skill, int64, error) {
	q := r.DB.Model(&model.Skill{})

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Joins("LEFT JOIN users ON users.id = skills.owner_id").
			Where("skills.title LIKE ? OR skills.description LIKE ? OR skills.category LIKE ? OR users.username LIKE ?",
				like, like, like, like)
	}
	if f.Category != "" {
		q = q.Where("skills.category = ?", f.Category)
	}
	if f.Level != "" {
		q = q.Where("skills.level = ?", f.Level)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case "name":
		q = q.Order("skills.title ASC")
	case "popular":
		q = q.Select("skills.*, (SELECT COUNT(*) FROM skill_requests sr WHERE sr.skill_id = skills.id) AS request_count").
			Order("request_count DESC, skills.created_at DESC")
	case "rating":
		q = q.Select("skills.*, (SELECT AVG(rating) FROM reviews rv WHERE rv.skill_id = skills.id) AS avg_rating").
			Order("avg_rating DESC, skills.created_at DESC")
	default:
		q = q.Order("skills.created_at DESC")
	}

	var list []model.Skill
	err := q.Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *SkillRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Skill{}).Count(&n).Error
	return n, err
}

func (r *SkillRepository) AvgRating(skillID uint64) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.Review{}).Where("skill_id = ?", skillID).
		Select("AVG(rating)").Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

// PopularCategories returns the top categories by skill count.
func (r *SkillRepository) PopularCategories(limit int) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.DB.Model(&model.Skill{}).
		Select("category, COUNT(*) AS total").
		Group("category").
		Order("total DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

type CategoryCount struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}
