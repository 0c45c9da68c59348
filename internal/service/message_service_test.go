package service

import (
	"context"
	"testing"

	"SkillSwap/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func requestBetween(t *testing.T, db *gorm.DB, from, to uint64) *model.MessageRequest {
	t.Helper()
	var mr model.MessageRequest
	require.NoError(t, db.Where("from_user_id = ? AND to_user_id = ?", from, to).First(&mr).Error)
	return &mr
}

func TestFirstMessageOpensRequest(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := NewMessageService(db, newTestNotifier(db))
	ctx := context.Background()

	msg, requested, err := svc.Send(ctx, alice.ID, bob.ID, "hi", nil, "")
	require.NoError(t, err)
	assert.True(t, requested)
	assert.Nil(t, msg)

	// No message was delivered, only the consent request.
	var n int64
	require.NoError(t, db.Model(&model.Message{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)

	mr := requestBetween(t, db, alice.ID, bob.ID)
	assert.Equal(t, model.MessageRequestPending, mr.Status)

	rows := notificationsFor(t, db, bob.ID, model.KindMessageRequest)
	assert.Len(t, rows, 1)

	// While pending, further sends from either side are refused.
	_, _, err = svc.Send(ctx, alice.ID, bob.ID, "hello?", nil, "")
	assert.ErrorIs(t, err, ErrRequestPending)
	_, _, err = svc.Send(ctx, bob.ID, alice.ID, "who is this", nil, "")
	assert.ErrorIs(t, err, ErrRequestPending)
}

func TestAcceptedRequestUnlocksMessaging(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := NewMessageService(db, newTestNotifier(db))
	ctx := context.Background()

	_, _, err := svc.Send(ctx, alice.ID, bob.ID, "hi", nil, "")
	require.NoError(t, err)
	mr := requestBetween(t, db, alice.ID, bob.ID)

	// Only the receiver may settle the request.
	assert.ErrorIs(t, svc.AcceptRequest(ctx, alice.ID, mr.ID), ErrNotAllowed)
	require.NoError(t, svc.AcceptRequest(ctx, bob.ID, mr.ID))

	// Settled requests stay settled.
	assert.ErrorIs(t, svc.DeclineRequest(ctx, bob.ID, mr.ID), ErrBadTransition)

	msg, requested, err := svc.Send(ctx, alice.ID, bob.ID, "hi again", nil, "")
	require.NoError(t, err)
	assert.False(t, requested)
	require.NotNil(t, msg)
	assert.Equal(t, "hi again", msg.Content)

	// The gate is per pair, not per direction.
	reply, _, err := svc.Send(ctx, bob.ID, alice.ID, "hey", nil, "")
	require.NoError(t, err)
	require.NotNil(t, reply)
}

func TestDeclinedRequestRefusesMessages(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := NewMessageService(db, newTestNotifier(db))
	ctx := context.Background()

	_, _, err := svc.Send(ctx, alice.ID, bob.ID, "hi", nil, "")
	require.NoError(t, err)
	mr := requestBetween(t, db, alice.ID, bob.ID)
	require.NoError(t, svc.DeclineRequest(ctx, bob.ID, mr.ID))

	_, _, err = svc.Send(ctx, alice.ID, bob.ID, "please", nil, "")
	assert.ErrorIs(t, err, ErrRequestDeclined)
}

func TestBlockCascadesAndGates(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := NewMessageService(db, newTestNotifier(db))
	ctx := context.Background()

	_, _, err := svc.Send(ctx, alice.ID, bob.ID, "hi", nil, "")
	require.NoError(t, err)

	created, err := svc.Block(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// The pending request was declined by the block.
	mr := requestBetween(t, db, alice.ID, bob.ID)
	assert.Equal(t, model.MessageRequestDeclined, mr.Status)

	// Both directions are closed while the block stands.
	_, _, err = svc.Send(ctx, alice.ID, bob.ID, "hello", nil, "")
	assert.ErrorIs(t, err, ErrBlockedByPeer)
	_, _, err = svc.Send(ctx, bob.ID, alice.ID, "go away", nil, "")
	assert.ErrorIs(t, err, ErrBlockedByYou)

	// Blocking twice changes nothing.
	created, err = svc.Block(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, created)

	removed, err := svc.Unblock(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestFirstContactInsertRace(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := NewMessageService(db, newTestNotifier(db))
	ctx := context.Background()

	// A concurrent first contact already holds the unique-index slot.
	require.NoError(t, db.Create(&model.MessageRequest{
		FromUserID: alice.ID,
		ToUserID:   bob.ID,
		Status:     model.MessageRequestPending,
	}).Error)

	requested, err := svc.openRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, requested)

	// Only the winner's row stands and the loser notified nobody.
	var n int64
	require.NoError(t, db.Model(&model.MessageRequest{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	assert.Empty(t, notificationsFor(t, db, bob.ID, model.KindMessageRequest))

	// A store fault that is not a lost race is surfaced, not swallowed.
	require.NoError(t, db.Migrator().DropTable(&model.MessageRequest{}))
	_, err = svc.openRequest(ctx, alice.ID, bob.ID)
	assert.Error(t, err)
}

func TestBlockedRequestDirectionalRefusals(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := NewMessageService(db, newTestNotifier(db))
	ctx := context.Background()

	// Bob blocked Alice's request: the row points alice -> bob.
	require.NoError(t, db.Create(&model.MessageRequest{
		FromUserID: alice.ID,
		ToUserID:   bob.ID,
		Status:     model.MessageRequestBlocked,
	}).Error)

	_, _, err := svc.Send(ctx, alice.ID, bob.ID, "hi", nil, "")
	assert.ErrorIs(t, err, ErrBlockedByPeer)
	_, _, err = svc.Send(ctx, bob.ID, alice.ID, "hi", nil, "")
	assert.ErrorIs(t, err, ErrBlockedByYou)
}

func TestSelfMessageRefused(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	svc := NewMessageService(db, newTestNotifier(db))

	_, _, err := svc.Send(context.Background(), alice.ID, alice.ID, "note to self", nil, "")
	assert.ErrorIs(t, err, ErrSelfMessage)
}

func TestMarkReadScopedToPeer(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	svc := NewMessageService(db, newTestNotifier(db))
	ctx := context.Background()

	acceptPair := func(from, to uint64) {
		_, _, err := svc.Send(ctx, from, to, "hi", nil, "")
		require.NoError(t, err)
		mr := requestBetween(t, db, from, to)
		require.NoError(t, svc.AcceptRequest(ctx, to, mr.ID))
	}
	acceptPair(alice.ID, bob.ID)
	acceptPair(carol.ID, bob.ID)

	for i := 0; i < 2; i++ {
		_, _, err := svc.Send(ctx, alice.ID, bob.ID, "ping", nil, "")
		require.NoError(t, err)
	}
	_, _, err := svc.Send(ctx, carol.ID, bob.ID, "ping", nil, "")
	require.NoError(t, err)

	n, err := svc.MarkRead(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// Carol's message is still unread.
	total, err := svc.UnreadTotal(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestConversationsSummaries(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := NewMessageService(db, newTestNotifier(db))
	ctx := context.Background()

	_, _, err := svc.Send(ctx, alice.ID, bob.ID, "hi", nil, "")
	require.NoError(t, err)
	mr := requestBetween(t, db, alice.ID, bob.ID)
	require.NoError(t, svc.AcceptRequest(ctx, bob.ID, mr.ID))

	_, _, err = svc.Send(ctx, alice.ID, bob.ID, "first", nil, "")
	require.NoError(t, err)
	_, _, err = svc.Send(ctx, alice.ID, bob.ID, "second", nil, "")
	require.NoError(t, err)

	convs, err := svc.Conversations(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, alice.ID, convs[0].Peer.ID)
	require.NotNil(t, convs[0].LastMessage)
	assert.Equal(t, "second", convs[0].LastMessage.Content)
	assert.EqualValues(t, 2, convs[0].Unread)
	assert.Empty(t, convs[0].Peer.Password)
}
