package service

import (
	"context"
	"errors"

	"SkillSwap/internal/model"
	"SkillSwap/internal/pkg"
	"SkillSwap/internal/repository/mysql"
	"SkillSwap/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo     *mysql.UserRepository
	rUser    *redis.UserRepository
	emailSvc *EmailService
}

func NewUserService(db *gorm.DB, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		rUser:    &redis.UserRepository{},
		emailSvc: emailSvc,
	}
}

type ProfileUpdate struct {
	Bio           *string
	Course        *string
	Year          *string
	SkillsOffered *string
	SkillsWanted  *string
}

func (s *UserService) Register(username, password, email, code string) error {
	ok, err := s.emailSvc.VerifyCode(ScopeRegister, email, code)
	if err != nil || !ok {
		return errors.New("verification failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
	}
	return s.repo.Create(user)
}

func (s *UserService) Login(username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errors.New("invalid password")
	}
	token, err := pkg.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	// Single active session: the new token replaces any previous one.
	if err = s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

func (s *UserService) ResetPassword(email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyCode(ScopeReset, email, code)
	if err != nil || !ok {
		return errors.New("verification failed")
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, string(hash))
}

func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return errors.New("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, string(hash))
}

func (s *UserService) Profile(id uint64) (*model.User, error) {
	return s.repo.FindByID(id)
}

func (s *UserService) UpdateProfile(id uint64, upd ProfileUpdate) error {
	fields := map[string]any{}
	if upd.Bio != nil {
		fields["bio"] = *upd.Bio
	}
	if upd.Course != nil {
		fields["course"] = *upd.Course
	}
	if upd.Year != nil {
		fields["year"] = *upd.Year
	}
	if upd.SkillsOffered != nil {
		fields["skills_offered"] = *upd.SkillsOffered
	}
	if upd.SkillsWanted != nil {
		fields["skills_wanted"] = *upd.SkillsWanted
	}
	if len(fields) == 0 {
		return nil
	}
	return s.repo.UpdateProfile(id, fields)
}

func (s *UserService) Search(q string, limit int) ([]model.User, error) {
	if q == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.repo.Search(q, limit)
}

// DeleteAccount removes the user and their meeting memberships after a
// password check. Tokens are revoked so the old session dies with the row.
func (s *UserService) DeleteAccount(ctx context.Context, id uint64, password string) error {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return errors.New("invalid password")
	}
	if err = s.repo.DeleteAccount(ctx, id); err != nil {
		return err
	}
	return s.rUser.DeleteUserToken(id)
}
