package service

import (
	"testing"

	"SkillSwap/internal/model"
	"SkillSwap/internal/pkg"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.SkillRequest{},
		&model.Review{},
		&model.Message{},
		&model.MessageRequest{},
		&model.UserBlock{},
		&model.Meeting{},
		&model.MeetingParticipant{},
		&model.Notification{},
		&model.NotificationOutbox{},
		&model.Report{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Password: "x",
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createSkill(t *testing.T, db *gorm.DB, ownerID uint64, title string) *model.Skill {
	t.Helper()
	skill := &model.Skill{
		OwnerID:  ownerID,
		Title:    title,
		Category: "programming",
		Level:    "beginner",
	}
	require.NoError(t, db.Create(skill).Error)
	return skill
}

// newTestNotifier swallows email sends so tests never hit SMTP.
func newTestNotifier(db *gorm.DB) *NotificationService {
	svc := NewNotificationService(db, pkg.SMTPConfig{})
	svc.send = func(_ pkg.SMTPConfig, _, _, _ string) error { return nil }
	return svc
}

func notificationsFor(t *testing.T, db *gorm.DB, userID uint64, kind string) []model.Notification {
	t.Helper()
	var rows []model.Notification
	require.NoError(t, db.Where("user_id = ? AND notification_type = ?", userID, kind).Find(&rows).Error)
	return rows
}
