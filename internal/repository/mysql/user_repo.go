package mysql

import (
	"context"

	"SkillSwap/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", username, username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.DB.Model(user).Update("password", newPassword).Error
}

func (r *UserRepository) UpdateProfile(id uint64, fields map[string]any) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) Search(q string, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var users []model.User
	err := r.DB.Where("username LIKE ?", "%"+q+"%").Limit(limit).Find(&users).Error
	return users, err
}

// ListExcept returns every user except the given one; used for broadcast
// notifications (new skill added).
func (r *UserRepository) ListExcept(id uint64) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("id <> ?", id).Find(&users).Error
	return users, err
}

func (r *UserRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.User{}).Count(&n).Error
	return n, err
}

// DeleteAccount removes the user and their meeting memberships in one
// transaction. Rows keyed by the user elsewhere are cleaned by FK cascades
// or left to retention.
func (r *UserRepository) DeleteAccount(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.MeetingParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}
