package service

import (
	"context"
	"testing"

	"SkillSwap/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequestAgainstOwnSkill(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewSkillRequestService(db, newTestNotifier(db))

	_, _, err := svc.Create(context.Background(), owner.ID, skill.ID, nil)
	assert.ErrorIs(t, err, ErrRequestSelf)
}

func TestCreateRequestDuplicateReturnsExisting(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewSkillRequestService(db, newTestNotifier(db))
	ctx := context.Background()

	first, created, err := svc.Create(ctx, requester.ID, skill.ID, nil)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, model.RequestPending, first.Status)

	// Owner already approved; a repeat create must not reset the state.
	require.NoError(t, svc.Approve(ctx, owner.ID, first.ID))

	second, created, err := svc.Create(ctx, requester.ID, skill.ID, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.RequestApproved, second.Status)

	var n int64
	require.NoError(t, db.Model(&model.SkillRequest{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCreateRequestNotifiesOwner(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewSkillRequestService(db, newTestNotifier(db))

	_, _, err := svc.Create(context.Background(), requester.ID, skill.ID, nil)
	require.NoError(t, err)

	rows := notificationsFor(t, db, owner.ID, model.KindSkillRequest)
	require.Len(t, rows, 1)
	assert.Equal(t, requester.ID, *rows[0].RelatedUserID)
}

func TestApproveOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	stranger := createUser(t, db, "stranger")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewSkillRequestService(db, newTestNotifier(db))
	ctx := context.Background()

	req, _, err := svc.Create(ctx, requester.ID, skill.ID, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Approve(ctx, requester.ID, req.ID), ErrNotAllowed)
	assert.ErrorIs(t, svc.Approve(ctx, stranger.ID, req.ID), ErrNotAllowed)

	got, err := svc.Get(ctx, requester.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, got.Status)

	require.NoError(t, svc.Approve(ctx, owner.ID, req.ID))

	// A second approve finds no PENDING row to move.
	assert.ErrorIs(t, svc.Approve(ctx, owner.ID, req.ID), ErrBadTransition)
}

func TestRejectRequiresPending(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewSkillRequestService(db, newTestNotifier(db))
	ctx := context.Background()

	req, _, err := svc.Create(ctx, requester.ID, skill.ID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Approve(ctx, owner.ID, req.ID))

	assert.ErrorIs(t, svc.Reject(ctx, owner.ID, req.ID), ErrBadTransition)

	got, err := svc.Get(ctx, owner.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestApproved, got.Status)
}

func TestRequestLifecycle(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewSkillRequestService(db, newTestNotifier(db))
	ctx := context.Background()

	req, _, err := svc.Create(ctx, requester.ID, skill.ID, nil)
	require.NoError(t, err)

	// Cannot start before approval.
	assert.ErrorIs(t, svc.Start(ctx, owner.ID, req.ID), ErrBadTransition)

	require.NoError(t, svc.Approve(ctx, owner.ID, req.ID))
	require.NoError(t, svc.Start(ctx, owner.ID, req.ID))

	got, err := svc.Get(ctx, owner.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestInProgress, got.Status)
	require.NotNil(t, got.StartedAt)

	// Requester may close the exchange; the owner is told.
	require.NoError(t, svc.Complete(ctx, requester.ID, req.ID))

	got, err = svc.Get(ctx, owner.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	ownerNotes := notificationsFor(t, db, owner.ID, model.KindSkillCompleted)
	assert.Len(t, ownerNotes, 1)
	requesterNotes := notificationsFor(t, db, requester.ID, model.KindSkillCompleted)
	assert.Empty(t, requesterNotes)
}

func TestCompleteParticipantsOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	stranger := createUser(t, db, "stranger")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewSkillRequestService(db, newTestNotifier(db))
	ctx := context.Background()

	req, _, err := svc.Create(ctx, requester.ID, skill.ID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Approve(ctx, owner.ID, req.ID))
	require.NoError(t, svc.Start(ctx, owner.ID, req.ID))

	assert.ErrorIs(t, svc.Complete(ctx, stranger.ID, req.ID), ErrNotAllowed)
}
