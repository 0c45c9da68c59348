package mysql

import (
	"context"
	"time"

	"SkillSwap/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MeetingRepository struct {
	DB *gorm.DB
}

// Create stores the meeting and its participant rows in one transaction.
// Participant inserts are idempotent on (meeting_id, user_id).
func (r *MeetingRepository) Create(ctx context.Context, meeting *model.Meeting, participantIDs []uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meeting).Error; err != nil {
			return err
		}
		for _, uid := range participantIDs {
			p := &model.MeetingParticipant{MeetingID: meeting.ID, UserID: uid}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "meeting_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MeetingRepository) FindByID(ctx context.Context, id uint64) (*model.Meeting, error) {
	var meeting model.Meeting
	err := r.DB.WithContext(ctx).First(&meeting, id).Error
	return &meeting, err
}

func (r *MeetingRepository) Participants(ctx context.Context, meetingID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.MeetingParticipant{}).
		Where("meeting_id = ?", meetingID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// IsMember reports whether the user is the organizer or a participant.
func (r *MeetingRepository) IsMember(ctx context.Context, meetingID, userID uint64) (bool, error) {
	meeting, err := r.FindByID(ctx, meetingID)
	if err != nil {
		return false, err
	}
	if meeting.OrganizerID == userID {
		return true, nil
	}
	var n int64
	err = r.DB.WithContext(ctx).Model(&model.MeetingParticipant{}).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *MeetingRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&model.Meeting{}).Where("id = ?", id).Updates(fields).Error
}

func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return r.DB.WithContext(ctx).Model(&model.Meeting{}).Where("id = ?", id).Update("status", status).Error
}

func (r *MeetingRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", id).Delete(&model.MeetingParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Meeting{}, id).Error
	})
}

func (r *MeetingRepository) forUser(ctx context.Context, userID uint64) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&model.Meeting{}).
		Joins("LEFT JOIN meeting_participants mp ON mp.meeting_id = meetings.id").
		Where("meetings.organizer_id = ? OR mp.user_id = ?", userID, userID).
		Distinct("meetings.*")
}

func (r *MeetingRepository) ListUpcoming(ctx context.Context, userID uint64, now time.Time) ([]model.Meeting, error) {
	var list []model.Meeting
	err := r.forUser(ctx, userID).
		Where("meetings.scheduled_date >= ? AND meetings.status IN ?", now,
			[]string{model.MeetingScheduled, model.MeetingConfirmed}).
		Order("meetings.scheduled_date ASC").
		Find(&list).Error
	return list, err
}

func (r *MeetingRepository) ListPast(ctx context.Context, userID uint64, now time.Time) ([]model.Meeting, error) {
	var list []model.Meeting
	err := r.forUser(ctx, userID).
		Where("meetings.scheduled_date < ? OR meetings.status = ?", now, model.MeetingCompleted).
		Order("meetings.scheduled_date DESC").
		Find(&list).Error
	return list, err
}

func (r *MeetingRepository) ListAll(ctx context.Context, userID uint64) ([]model.Meeting, error) {
	var list []model.Meeting
	err := r.forUser(ctx, userID).
		Order("meetings.scheduled_date ASC").
		Find(&list).Error
	return list, err
}

func (r *MeetingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Meeting{}).Count(&n).Error
	return n, err
}
