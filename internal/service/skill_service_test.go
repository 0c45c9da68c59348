package service

import (
	"context"
	"testing"

	"SkillSwap/internal/model"
	"SkillSwap/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSkillBroadcasts(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")
	svc := NewSkillService(db, newTestNotifier(db))

	skill, err := svc.Create(context.Background(), owner.ID, SkillInput{
		Title:    "Go basics",
		Category: "programming",
		Level:    "beginner",
	})
	require.NoError(t, err)
	require.NotZero(t, skill.ID)

	assert.Len(t, notificationsFor(t, db, other.ID, model.KindNewSkill), 1)
	assert.Empty(t, notificationsFor(t, db, owner.ID, model.KindNewSkill))
}

func TestCreateSkillRejectsUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	svc := NewSkillService(db, newTestNotifier(db))

	_, err := svc.Create(context.Background(), owner.ID, SkillInput{
		Title:    "Mind reading",
		Category: "paranormal",
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), owner.ID, SkillInput{Category: "programming"})
	assert.Error(t, err) // missing title
}

func TestUpdateSkillOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewSkillService(db, newTestNotifier(db))

	title := "Hijacked"
	assert.ErrorIs(t, svc.Update(other.ID, skill.ID, SkillUpdate{Title: &title}), ErrNotOwner)
	assert.ErrorIs(t, svc.Delete(other.ID, skill.ID), ErrNotOwner)

	renamed := "Go fundamentals"
	require.NoError(t, svc.Update(owner.ID, skill.ID, SkillUpdate{Title: &renamed}))

	var got model.Skill
	require.NoError(t, db.First(&got, skill.ID).Error)
	assert.Equal(t, renamed, got.Title)

	require.NoError(t, svc.Delete(owner.ID, skill.ID))
	assert.Error(t, db.First(&model.Skill{}, skill.ID).Error)
}

func TestSkillListFilters(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	svc := NewSkillService(db, newTestNotifier(db))

	require.NoError(t, db.Create(&model.Skill{OwnerID: owner.ID, Title: "Go basics", Category: "programming", Level: "beginner"}).Error)
	require.NoError(t, db.Create(&model.Skill{OwnerID: owner.ID, Title: "Logo design", Category: "design", Level: "advanced"}).Error)

	list, total, err := svc.List(mysql.SkillFilter{Category: "design"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Logo design", list[0].Title)

	list, total, err = svc.List(mysql.SkillFilter{Query: "go"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Go basics", list[0].Title)
}

func TestSkillDetailStats(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	skill := createSkill(t, db, owner.ID, "Go basics")
	svc := NewSkillService(db, newTestNotifier(db))
	reqSvc := NewSkillRequestService(db, newTestNotifier(db))
	ctx := context.Background()

	req, _, err := reqSvc.Create(ctx, requester.ID, skill.ID, nil)
	require.NoError(t, err)

	rating := 4
	require.NoError(t, db.Create(&model.Review{SkillID: skill.ID, ReviewerID: requester.ID, Rating: &rating}).Error)

	detail, err := svc.Detail(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, skill.ID, detail.Skill.ID)
	assert.InDelta(t, 4.0, detail.AvgRating, 0.001)
	assert.EqualValues(t, 1, detail.RequestCounts[model.RequestPending])
	assert.InDelta(t, 0.0, detail.ApprovalRate, 0.001)
	require.NotNil(t, detail.Owner)
	assert.Empty(t, detail.Owner.Password)

	require.NoError(t, reqSvc.Approve(ctx, owner.ID, req.ID))
	detail, err = svc.Detail(ctx, skill.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, detail.ApprovalRate, 0.001)
}
