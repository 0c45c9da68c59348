package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"SkillSwap/internal/model"
	"SkillSwap/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyWritesRowAndOutbox(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	svc := newTestNotifier(db)

	require.NoError(t, svc.Notify(context.Background(), user.ID, model.KindMessage, "New message from bob", nil, nil))

	rows := notificationsFor(t, db, user.ID, model.KindMessage)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsRead)

	var obs []model.NotificationOutbox
	require.NoError(t, db.Find(&obs).Error)
	require.Len(t, obs, 1)
	assert.NotEmpty(t, obs[0].EventID)
	assert.EqualValues(t, 0, obs[0].Status)
	assert.True(t, obs[0].EmailOK)

	var payload outboxPayload
	require.NoError(t, json.Unmarshal([]byte(obs[0].Payload), &payload))
	assert.Equal(t, model.KindMessage, payload.Kind)
	assert.Equal(t, user.ID, payload.UserID)
	assert.Equal(t, obs[0].EventID, payload.EventID)
}

func TestNotifyUnknownKind(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	svc := newTestNotifier(db)

	err := svc.Notify(context.Background(), user.ID, "telepathy", "hello", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownKind)

	var n int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

// A failing mail server must not fail Notify; the miss is just recorded.
func TestNotifyEmailFailureIsSwallowed(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	svc := newTestNotifier(db)

	calls := 0
	svc.send = func(_ pkg.SMTPConfig, _, _, _ string) error {
		calls++
		return errors.New("smtp down")
	}

	require.NoError(t, svc.Notify(context.Background(), user.ID, model.KindMessage, "hi", nil, nil))
	assert.Equal(t, 1, calls)

	var ob model.NotificationOutbox
	require.NoError(t, db.First(&ob).Error)
	assert.False(t, ob.EmailOK)

	// No retry happens on later notifies for the same user.
	require.NoError(t, svc.Notify(context.Background(), user.ID, model.KindMessage, "again", nil, nil))
	assert.Equal(t, 2, calls)
}

func TestBroadcastSkipsActor(t *testing.T) {
	db := newTestDB(t)
	actor := createUser(t, db, "actor")
	u1 := createUser(t, db, "u1")
	u2 := createUser(t, db, "u2")
	svc := newTestNotifier(db)

	require.NoError(t, svc.Broadcast(context.Background(), actor.ID, model.KindNewSkill, "actor posted a new skill", &actor.ID))

	assert.Len(t, notificationsFor(t, db, u1.ID, model.KindNewSkill), 1)
	assert.Len(t, notificationsFor(t, db, u2.ID, model.KindNewSkill), 1)
	assert.Empty(t, notificationsFor(t, db, actor.ID, model.KindNewSkill))
}

func TestMarkReadOwnRowsOnly(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := newTestNotifier(db)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, alice.ID, model.KindMessage, "hi", nil, nil))
	var note model.Notification
	require.NoError(t, db.First(&note).Error)

	// Bob cannot read Alice's notification.
	changed, err := svc.MarkRead(ctx, note.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = svc.MarkRead(ctx, note.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	// Second read is a no-op.
	changed, err = svc.MarkRead(ctx, note.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	n, err := svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestOutboxRelayerDrains(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	svc := newTestNotifier(db)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, user.ID, model.KindMessage, "one", nil, nil))
	require.NoError(t, svc.Notify(ctx, user.ID, model.KindMessage, "two", nil, nil))

	var sent []string
	relayer := NewOutboxRelayer(db, func(_ context.Context, ob *model.NotificationOutbox) error {
		sent = append(sent, ob.EventID)
		return nil
	})
	relayer.drainOnce(ctx)

	assert.Len(t, sent, 2)

	var pending int64
	require.NoError(t, db.Model(&model.NotificationOutbox{}).Where("status = 0").Count(&pending).Error)
	assert.EqualValues(t, 0, pending)

	// Nothing left for a second pass.
	relayer.drainOnce(ctx)
	assert.Len(t, sent, 2)
}

func TestOutboxRelayerParksFailures(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	svc := newTestNotifier(db)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, user.ID, model.KindMessage, "one", nil, nil))

	attempts := 0
	relayer := NewOutboxRelayer(db, func(_ context.Context, _ *model.NotificationOutbox) error {
		attempts++
		return errors.New("broker down")
	})
	relayer.drainOnce(ctx)
	relayer.drainOnce(ctx)

	// Failed rows are parked, not retried.
	assert.Equal(t, 1, attempts)

	var ob model.NotificationOutbox
	require.NoError(t, db.First(&ob).Error)
	assert.EqualValues(t, 2, ob.Status)
}

func TestRetentionWorkerPrunes(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	svc := newTestNotifier(db)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, user.ID, model.KindMessage, "old", nil, nil))
	require.NoError(t, svc.Notify(ctx, user.ID, model.KindMessage, "fresh", nil, nil))

	// Age the first row past the window.
	var old model.Notification
	require.NoError(t, db.Where("message = ?", "old").First(&old).Error)
	require.NoError(t, db.Model(&model.Notification{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().Add(-31*24*time.Hour)).Error)

	worker := NewRetentionWorker(db)
	worker.pruneOnce(ctx)

	var remaining []model.Notification
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].Message)
}
