package service

import (
	"context"
	"testing"
	"time"

	"SkillSwap/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMeetingInput(participants ...uint64) MeetingInput {
	return MeetingInput{
		Title:           "Study session",
		MeetingType:     "skill_swap",
		ScheduledDate:   time.Now().Add(48 * time.Hour),
		DurationMinutes: 60,
		Location:        "Library",
		ParticipantIDs:  participants,
	}
}

func TestCreateMeetingValidation(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "organizer")
	svc := NewMeetingService(db, newTestNotifier(db))
	ctx := context.Background()

	in := validMeetingInput()
	in.ScheduledDate = time.Now().Add(-time.Hour)
	_, err := svc.Create(ctx, organizer.ID, in)
	assert.ErrorIs(t, err, ErrMeetingInPast)

	in = validMeetingInput()
	in.ScheduledDate = time.Now().AddDate(1, 1, 0)
	_, err = svc.Create(ctx, organizer.ID, in)
	assert.ErrorIs(t, err, ErrMeetingTooFar)

	in = validMeetingInput()
	in.DurationMinutes = 600
	_, err = svc.Create(ctx, organizer.ID, in)
	assert.ErrorIs(t, err, ErrBadDuration)

	in = validMeetingInput()
	in.DurationMinutes = 10
	_, err = svc.Create(ctx, organizer.ID, in)
	assert.ErrorIs(t, err, ErrBadDuration)

	// Nothing was persisted by the rejected attempts.
	var n int64
	require.NoError(t, db.Model(&model.Meeting{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestCreateMeetingInvitesParticipants(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "organizer")
	guest := createUser(t, db, "guest")
	svc := NewMeetingService(db, newTestNotifier(db))
	ctx := context.Background()

	// The organizer listing themselves is ignored.
	meeting, err := svc.Create(ctx, organizer.ID, validMeetingInput(guest.ID, organizer.ID, guest.ID))
	require.NoError(t, err)
	assert.Equal(t, model.MeetingScheduled, meeting.Status)

	detail, err := svc.Detail(ctx, organizer.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{guest.ID}, detail.Participants)

	rows := notificationsFor(t, db, guest.ID, model.KindMeetingInvite)
	require.Len(t, rows, 1)
	assert.Equal(t, meeting.ID, *rows[0].RelatedMeetingID)

	assert.Empty(t, notificationsFor(t, db, organizer.ID, model.KindMeetingInvite))
}

func TestMeetingDetailMembersOnly(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "organizer")
	guest := createUser(t, db, "guest")
	stranger := createUser(t, db, "stranger")
	svc := NewMeetingService(db, newTestNotifier(db))
	ctx := context.Background()

	meeting, err := svc.Create(ctx, organizer.ID, validMeetingInput(guest.ID))
	require.NoError(t, err)

	_, err = svc.Detail(ctx, guest.ID, meeting.ID)
	require.NoError(t, err)

	_, err = svc.Detail(ctx, stranger.ID, meeting.ID)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestUpdateStatusNotifiesOthers(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "organizer")
	guest := createUser(t, db, "guest")
	stranger := createUser(t, db, "stranger")
	svc := NewMeetingService(db, newTestNotifier(db))
	ctx := context.Background()

	meeting, err := svc.Create(ctx, organizer.ID, validMeetingInput(guest.ID))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, stranger.ID, meeting.ID, model.MeetingConfirmed), ErrNotAllowed)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, guest.ID, meeting.ID, "postponed"), ErrBadStatus)

	require.NoError(t, svc.UpdateStatus(ctx, guest.ID, meeting.ID, model.MeetingConfirmed))

	detail, err := svc.Detail(ctx, organizer.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MeetingConfirmed, detail.Meeting.Status)

	// The actor is not told about their own change.
	assert.Len(t, notificationsFor(t, db, organizer.ID, model.KindMeetingUpdate), 1)
	assert.Empty(t, notificationsFor(t, db, guest.ID, model.KindMeetingUpdate))
}

func TestUpdateMeetingOrganizerOnly(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "organizer")
	guest := createUser(t, db, "guest")
	svc := NewMeetingService(db, newTestNotifier(db))
	ctx := context.Background()

	meeting, err := svc.Create(ctx, organizer.ID, validMeetingInput(guest.ID))
	require.NoError(t, err)

	err = svc.Update(ctx, guest.ID, meeting.ID, MeetingInput{Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotAllowed)

	// Rescheduling re-runs the window checks.
	err = svc.Update(ctx, organizer.ID, meeting.ID, MeetingInput{ScheduledDate: time.Now().Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrMeetingInPast)

	require.NoError(t, svc.Update(ctx, organizer.ID, meeting.ID, MeetingInput{Title: "Renamed"}))
	detail, err := svc.Detail(ctx, organizer.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", detail.Meeting.Title)
}

func TestMeetingLists(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "organizer")
	guest := createUser(t, db, "guest")
	svc := NewMeetingService(db, newTestNotifier(db))
	ctx := context.Background()

	meeting, err := svc.Create(ctx, organizer.ID, validMeetingInput(guest.ID))
	require.NoError(t, err)

	// Both members see it as upcoming.
	for _, uid := range []uint64{organizer.ID, guest.ID} {
		list, err := svc.Upcoming(ctx, uid)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, meeting.ID, list[0].ID)
	}

	// Move it to the past: it leaves upcoming and shows under past.
	require.NoError(t, db.Model(&model.Meeting{}).Where("id = ?", meeting.ID).
		Update("scheduled_date", time.Now().Add(-48*time.Hour)).Error)

	list, err := svc.Upcoming(ctx, guest.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	past, err := svc.Past(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, meeting.ID, past[0].ID)
}

func TestCalendarFeed(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "organizer")
	guest := createUser(t, db, "guest")
	svc := NewMeetingService(db, newTestNotifier(db))
	ctx := context.Background()

	in := validMeetingInput(guest.ID)
	meeting, err := svc.Create(ctx, organizer.ID, in)
	require.NoError(t, err)

	events, err := svc.Calendar(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, meeting.ID, events[0].ID)
	assert.Equal(t, in.Title, events[0].Title)
	assert.Equal(t, 60*time.Minute, events[0].End.Sub(events[0].Start))

	stranger := createUser(t, db, "stranger")
	events, err = svc.Calendar(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}
