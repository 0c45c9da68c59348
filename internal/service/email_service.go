package service

import (
	"errors"

	"SkillSwap/internal/pkg"
	"SkillSwap/internal/repository/redis"
)

const (
	ScopeRegister = "register"
	ScopeReset    = "reset"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.EmailRepository{}}
}

// SendCode writes a pending code, mails it, then confirms the code so
// verification only ever sees codes that actually went out.
func (s *EmailService) SendCode(scope, email string) error {
	var action, subject string
	switch scope {
	case ScopeRegister:
		action, subject = "account registration", "Your registration code"
	case ScopeReset:
		action, subject = "password reset", "Your password reset code"
	default:
		return errors.New("unknown code scope")
	}

	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err = s.rds.SetPending(scope, email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML(action, code, redis.DefaultEmailCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, subject, html); err != nil {
		return err
	}

	if err = s.rds.Confirm(scope, email); err != nil {
		_ = s.rds.DeletePending(scope, email)
		return err
	}
	return nil
}

// VerifyCode checks the confirmed code and deletes it on match so a code
// can be used at most once.
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	val, err := s.rds.Get(scope, email)
	if err != nil {
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.Delete(scope, email); err != nil {
		return false, err
	}
	return true, nil
}
