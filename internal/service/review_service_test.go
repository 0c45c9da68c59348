package service

import (
	"context"
	"testing"

	"SkillSwap/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewNotifiesOwnerAndAggregates(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	reviewer := createUser(t, db, "reviewer")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewReviewService(db, newTestNotifier(db))
	ctx := context.Background()

	rating := 5
	review, err := svc.Create(ctx, reviewer.ID, skill.ID, &rating, "great teacher")
	require.NoError(t, err)
	require.NotZero(t, review.ID)

	assert.Len(t, notificationsFor(t, db, owner.ID, model.KindReview), 1)

	var got model.User
	require.NoError(t, db.First(&got, owner.ID).Error)
	assert.InDelta(t, 5.0, got.Rating, 0.001)
}

func TestSelfReviewSkipsNotification(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewReviewService(db, newTestNotifier(db))

	rating := 3
	_, err := svc.Create(context.Background(), owner.ID, skill.ID, &rating, "testing my own listing")
	require.NoError(t, err)

	assert.Empty(t, notificationsFor(t, db, owner.ID, model.KindReview))
}

func TestReviewRatingBounds(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	reviewer := createUser(t, db, "reviewer")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewReviewService(db, newTestNotifier(db))
	ctx := context.Background()

	bad := 6
	_, err := svc.Create(ctx, reviewer.ID, skill.ID, &bad, "")
	assert.Error(t, err)

	// No rating at all is fine.
	_, err = svc.Create(ctx, reviewer.ID, skill.ID, nil, "comment only")
	require.NoError(t, err)
}

func TestReviewEditAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	reviewer := createUser(t, db, "reviewer")
	other := createUser(t, db, "other")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewReviewService(db, newTestNotifier(db))
	ctx := context.Background()

	rating := 2
	review, err := svc.Create(ctx, reviewer.ID, skill.ID, &rating, "meh")
	require.NoError(t, err)

	newRating := 4
	assert.ErrorIs(t, svc.Update(other.ID, review.ID, &newRating, nil), ErrNotAllowed)
	assert.ErrorIs(t, svc.Delete(other.ID, review.ID), ErrNotAllowed)

	require.NoError(t, svc.Update(reviewer.ID, review.ID, &newRating, nil))

	var owner2 model.User
	require.NoError(t, db.First(&owner2, owner.ID).Error)
	assert.InDelta(t, 4.0, owner2.Rating, 0.001)

	require.NoError(t, svc.Delete(reviewer.ID, review.ID))
	list, err := svc.ListBySkill(skill.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
