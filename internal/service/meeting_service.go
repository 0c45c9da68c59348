package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SkillSwap/internal/model"
	"SkillSwap/internal/repository/mysql"

	"gorm.io/gorm"
)

var (
	ErrMeetingInPast = errors.New("meeting cannot be scheduled in the past")
	ErrMeetingTooFar = errors.New("meeting cannot be more than a year ahead")
	ErrBadDuration   = errors.New("duration out of range")
	ErrBadStatus     = errors.New("unknown meeting status")
)

type MeetingService struct {
	repo     *mysql.MeetingRepository
	users    *mysql.UserRepository
	notifier *NotificationService
}

func NewMeetingService(db *gorm.DB, notifier *NotificationService) *MeetingService {
	return &MeetingService{
		repo:     &mysql.MeetingRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		notifier: notifier,
	}
}

type MeetingInput struct {
	Title           string
	Description     string
	MeetingType     string
	ScheduledDate   time.Time
	DurationMinutes int
	Location        string
	RelatedSkillID  *uint64
	ParticipantIDs  []uint64
}

type MeetingDetail struct {
	Meeting      model.Meeting `json:"meeting"`
	Participants []uint64      `json:"participants"`
}

func validateSchedule(scheduled time.Time, duration int, now time.Time) error {
	if duration < model.MeetingMinDuration || duration > model.MeetingMaxDuration {
		return ErrBadDuration
	}
	if scheduled.Before(now) {
		return ErrMeetingInPast
	}
	if scheduled.After(now.AddDate(1, 0, 0)) {
		return ErrMeetingTooFar
	}
	if scheduled.Add(time.Duration(duration) * time.Minute).Before(now) {
		return ErrMeetingInPast
	}
	return nil
}

// Create schedules a meeting and invites the participants. The organizer
// is never stored as their own participant.
func (s *MeetingService) Create(ctx context.Context, organizerID uint64, in MeetingInput) (*model.Meeting, error) {
	if in.Title == "" {
		return nil, errors.New("title required")
	}
	if in.MeetingType != "" && !oneOf(in.MeetingType, model.MeetingTypes) {
		return nil, errors.New("unknown meeting type")
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = 30
	}
	if err := validateSchedule(in.ScheduledDate, in.DurationMinutes, time.Now()); err != nil {
		return nil, err
	}

	seen := map[uint64]struct{}{organizerID: {}}
	participants := make([]uint64, 0, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		participants = append(participants, id)
	}

	meeting := &model.Meeting{
		Title:           in.Title,
		Description:     in.Description,
		OrganizerID:     organizerID,
		MeetingType:     in.MeetingType,
		ScheduledDate:   in.ScheduledDate,
		DurationMinutes: in.DurationMinutes,
		Location:        in.Location,
		Status:          model.MeetingScheduled,
		RelatedSkillID:  in.RelatedSkillID,
	}
	if err := s.repo.Create(ctx, meeting, participants); err != nil {
		return nil, err
	}

	organizerName := ""
	if organizer, err := s.users.FindByID(organizerID); err == nil {
		organizerName = organizer.Username
	}
	text := fmt.Sprintf("%s invited you to %s", organizerName, meeting.Title)
	for _, id := range participants {
		_ = s.notifier.Notify(ctx, id, model.KindMeetingInvite, text, &organizerID, &meeting.ID)
	}
	return meeting, nil
}

func (s *MeetingService) Detail(ctx context.Context, actorID, id uint64) (*MeetingDetail, error) {
	member, err := s.repo.IsMember(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotAllowed
	}
	meeting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.Participants(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MeetingDetail{Meeting: *meeting, Participants: participants}, nil
}

// UpdateStatus lets any member move the meeting between valid statuses
// and tells the other members.
func (s *MeetingService) UpdateStatus(ctx context.Context, actorID, id uint64, status string) error {
	if !model.IsMeetingStatus(status) {
		return ErrBadStatus
	}
	member, err := s.repo.IsMember(ctx, id, actorID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotAllowed
	}

	meeting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	text := fmt.Sprintf("%s is now %s", meeting.Title, status)
	s.notifyMembers(ctx, meeting, actorID, text)
	return nil
}

// Update lets the organizer reschedule or edit the meeting.
func (s *MeetingService) Update(ctx context.Context, actorID, id uint64, in MeetingInput) error {
	meeting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if meeting.OrganizerID != actorID {
		return ErrNotAllowed
	}

	fields := map[string]any{}
	if in.Title != "" {
		fields["title"] = in.Title
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.Location != "" {
		fields["location"] = in.Location
	}
	if !in.ScheduledDate.IsZero() || in.DurationMinutes != 0 {
		scheduled := meeting.ScheduledDate
		duration := meeting.DurationMinutes
		if !in.ScheduledDate.IsZero() {
			scheduled = in.ScheduledDate
			fields["scheduled_date"] = in.ScheduledDate
		}
		if in.DurationMinutes != 0 {
			duration = in.DurationMinutes
			fields["duration_minutes"] = in.DurationMinutes
		}
		if err := validateSchedule(scheduled, duration, time.Now()); err != nil {
			return err
		}
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return err
	}

	text := fmt.Sprintf("%s was updated", meeting.Title)
	s.notifyMembers(ctx, meeting, actorID, text)
	return nil
}

func (s *MeetingService) Delete(ctx context.Context, actorID, id uint64) error {
	meeting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if meeting.OrganizerID != actorID {
		return ErrNotAllowed
	}
	return s.repo.Delete(ctx, id)
}

func (s *MeetingService) Upcoming(ctx context.Context, userID uint64) ([]model.Meeting, error) {
	return s.repo.ListUpcoming(ctx, userID, time.Now())
}

func (s *MeetingService) Past(ctx context.Context, userID uint64) ([]model.Meeting, error) {
	return s.repo.ListPast(ctx, userID, time.Now())
}

func (s *MeetingService) All(ctx context.Context, userID uint64) ([]model.Meeting, error) {
	return s.repo.ListAll(ctx, userID)
}

// CalendarEvent is a flattened feed entry for client calendar views.
type CalendarEvent struct {
	ID     uint64    `json:"id"`
	Title  string    `json:"title"`
	Status string    `json:"status"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (s *MeetingService) Calendar(ctx context.Context, userID uint64) ([]CalendarEvent, error) {
	meetings, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	events := make([]CalendarEvent, 0, len(meetings))
	for _, m := range meetings {
		events = append(events, CalendarEvent{
			ID:     m.ID,
			Title:  m.Title,
			Status: m.Status,
			Start:  m.ScheduledDate,
			End:    m.EndTime(),
		})
	}
	return events, nil
}

func (s *MeetingService) notifyMembers(ctx context.Context, meeting *model.Meeting, actorID uint64, text string) {
	participants, err := s.repo.Participants(ctx, meeting.ID)
	if err != nil {
		return
	}
	members := append([]uint64{meeting.OrganizerID}, participants...)
	for _, id := range members {
		if id == actorID {
			continue
		}
		_ = s.notifier.Notify(ctx, id, model.KindMeetingUpdate, text, &actorID, &meeting.ID)
	}
}
