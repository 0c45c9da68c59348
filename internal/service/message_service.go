package service

import (
	"context"
	"errors"
	"fmt"

	"SkillSwap/internal/model"
	"SkillSwap/internal/repository/mysql"
	"SkillSwap/internal/repository/redis"

	"gorm.io/gorm"
)

var (
	ErrSelfMessage     = errors.New("cannot message yourself")
	ErrBlockedByYou    = errors.New("you have blocked this user")
	ErrBlockedByPeer   = errors.New("this user has blocked you")
	ErrRequestPending  = errors.New("message request still pending")
	ErrRequestDeclined = errors.New("message request was rejected")
)

type MessageService struct {
	msgs     *mysql.MessageRepository
	reqs     *mysql.MessageRequestRepository
	blocks   *mysql.UserBlockRepository
	users    *mysql.UserRepository
	unread   *redis.UnreadRepository
	notifier *NotificationService
}

func NewMessageService(db *gorm.DB, notifier *NotificationService) *MessageService {
	return &MessageService{
		msgs:     &mysql.MessageRepository{DB: db},
		reqs:     &mysql.MessageRequestRepository{DB: db},
		blocks:   &mysql.UserBlockRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		unread:   &redis.UnreadRepository{},
		notifier: notifier,
	}
}

type ConversationSummary struct {
	Peer        model.User     `json:"peer"`
	LastMessage *model.Message `json:"last_message,omitempty"`
	Unread      int64          `json:"unread"`
}

// Send delivers a message if the pair may talk. The first contact between
// strangers does not deliver: it opens a PENDING message request instead
// and returns requested=true with no message row.
func (s *MessageService) Send(ctx context.Context, fromID, toID uint64, content string, replyToID *uint64, attachmentID string) (*model.Message, bool, error) {
	if fromID == toID {
		return nil, false, ErrSelfMessage
	}
	if content == "" && attachmentID == "" {
		return nil, false, errors.New("empty message")
	}

	if blocked, err := s.blocks.Exists(ctx, fromID, toID); err != nil {
		return nil, false, err
	} else if blocked {
		return nil, false, ErrBlockedByYou
	}
	if blocked, err := s.blocks.Exists(ctx, toID, fromID); err != nil {
		return nil, false, err
	} else if blocked {
		return nil, false, ErrBlockedByPeer
	}

	mr, err := s.reqs.FindBetween(ctx, fromID, toID)
	switch {
	case err == nil:
		if gerr := gateError(fromID, mr); gerr != nil {
			return nil, false, gerr
		}
		// ACCEPTED falls through to delivery.
	case errors.Is(err, gorm.ErrRecordNotFound):
		has, herr := s.msgs.HasHistory(ctx, fromID, toID)
		if herr != nil {
			return nil, false, herr
		}
		if !has {
			requested, rerr := s.openRequest(ctx, fromID, toID)
			if rerr != nil {
				return nil, false, rerr
			}
			if requested {
				return nil, true, nil
			}
			// Lost the insert race to a concurrent first contact; gate
			// on the winning row.
			if mr, rerr = s.reqs.FindBetween(ctx, fromID, toID); rerr != nil {
				return nil, false, rerr
			}
			if gerr := gateError(fromID, mr); gerr != nil {
				return nil, false, gerr
			}
		}
		// Conversations that predate the gate keep flowing.
	default:
		return nil, false, err
	}

	msg := &model.Message{
		FromUserID:   fromID,
		ToUserID:     toID,
		Content:      content,
		ReplyToID:    replyToID,
		AttachmentID: attachmentID,
	}
	if err := s.msgs.Create(ctx, msg); err != nil {
		return nil, false, err
	}
	s.unread.Incr(ctx, toID, fromID)

	if sender, err := s.users.FindByID(fromID); err == nil {
		text := fmt.Sprintf("New message from %s", sender.Username)
		_ = s.notifier.Notify(ctx, toID, model.KindMessage, text, &fromID, nil)
	}
	return msg, false, nil
}

// gateError maps a request row to the sender-facing refusal; nil means
// the pair may talk.
func gateError(senderID uint64, mr *model.MessageRequest) error {
	switch mr.Status {
	case model.MessageRequestPending:
		return ErrRequestPending
	case model.MessageRequestDeclined:
		return ErrRequestDeclined
	case model.MessageRequestBlocked:
		if mr.ToUserID == senderID {
			return ErrBlockedByYou
		}
		return ErrBlockedByPeer
	}
	return nil
}

// openRequest files the PENDING request. Losing the unique-index race to
// a concurrent first contact is not a fault: the winner's row stands and
// requested=false tells the caller to re-read it.
func (s *MessageService) openRequest(ctx context.Context, fromID, toID uint64) (bool, error) {
	mr := &model.MessageRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     model.MessageRequestPending,
	}
	if err := s.reqs.Create(ctx, mr); err != nil {
		if _, ferr := s.reqs.FindBetween(ctx, fromID, toID); ferr == nil {
			return false, nil
		}
		return false, err
	}
	if sender, err := s.users.FindByID(fromID); err == nil {
		text := fmt.Sprintf("%s wants to message you", sender.Username)
		_ = s.notifier.Notify(ctx, toID, model.KindMessageRequest, text, &fromID, nil)
	}
	return true, nil
}

// AcceptRequest: only the receiver may accept, and only while PENDING.
func (s *MessageService) AcceptRequest(ctx context.Context, actorID, requestID uint64) error {
	return s.settleRequest(ctx, actorID, requestID, model.MessageRequestAccepted)
}

// DeclineRequest: only the receiver may decline, and only while PENDING.
func (s *MessageService) DeclineRequest(ctx context.Context, actorID, requestID uint64) error {
	return s.settleRequest(ctx, actorID, requestID, model.MessageRequestDeclined)
}

func (s *MessageService) settleRequest(ctx context.Context, actorID, requestID uint64, to string) error {
	mr, err := s.reqs.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if mr.ToUserID != actorID {
		return ErrNotAllowed
	}
	ok, err := s.reqs.Transition(ctx, requestID, to)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadTransition
	}
	return nil
}

func (s *MessageService) PendingRequests(ctx context.Context, userID uint64) ([]model.MessageRequest, error) {
	return s.reqs.ListPendingFor(ctx, userID)
}

// Block is idempotent and declines any pending request between the pair.
func (s *MessageService) Block(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	if blockerID == blockedID {
		return false, errors.New("cannot block yourself")
	}
	created, err := s.blocks.Create(ctx, blockerID, blockedID)
	if err != nil {
		return false, err
	}
	_ = s.reqs.DeclinePending(ctx, blockedID, blockerID)
	_ = s.reqs.DeclinePending(ctx, blockerID, blockedID)
	return created, nil
}

func (s *MessageService) Unblock(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	return s.blocks.Delete(ctx, blockerID, blockedID)
}

func (s *MessageService) BlockedUsers(ctx context.Context, blockerID uint64) ([]model.User, error) {
	return s.blocks.ListBlocked(ctx, blockerID)
}

// MarkRead flips the unread rows the reader received from peer and drops
// the cached counter.
func (s *MessageService) MarkRead(ctx context.Context, readerID, peerID uint64) (int64, error) {
	n, err := s.msgs.MarkRead(ctx, peerID, readerID)
	if err != nil {
		return 0, err
	}
	s.unread.Clear(ctx, readerID, peerID)
	return n, nil
}

func (s *MessageService) History(ctx context.Context, userID, peerID uint64, cursor uint64, limit int) ([]model.Message, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.msgs.History(ctx, userID, peerID, cursor, limit)
}

// Conversations lists every peer with the last message and an unread
// counter. The counter comes from cache when warm, store otherwise.
func (s *MessageService) Conversations(ctx context.Context, userID uint64) ([]ConversationSummary, error) {
	peers, err := s.msgs.ConversationPeers(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationSummary, 0, len(peers))
	for _, peerID := range peers {
		peer, err := s.users.FindByID(peerID)
		if err != nil {
			continue
		}
		peer.Password = ""

		last, err := s.msgs.LastBetween(ctx, userID, peerID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			last = nil
		}

		unread, hit := s.unread.Get(ctx, userID, peerID)
		if !hit {
			if unread, err = s.msgs.UnreadCount(ctx, peerID, userID); err != nil {
				return nil, err
			}
			s.unread.Set(ctx, userID, peerID, unread)
		}

		out = append(out, ConversationSummary{Peer: *peer, LastMessage: last, Unread: unread})
	}
	return out, nil
}

func (s *MessageService) UnreadTotal(ctx context.Context, userID uint64) (int64, error) {
	return s.msgs.UnreadTotal(ctx, userID)
}
