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
	ErrRequestSelf   = errors.New("cannot request your own skill")
	ErrNotAllowed    = errors.New("no permission")
	ErrBadTransition = errors.New("invalid status transition")
)

type SkillRequestService struct {
	repo     *mysql.SkillRequestRepository
	skills   *mysql.SkillRepository
	users    *mysql.UserRepository
	notifier *NotificationService
}

func NewSkillRequestService(db *gorm.DB, notifier *NotificationService) *SkillRequestService {
	return &SkillRequestService{
		repo:     &mysql.SkillRequestRepository{DB: db},
		skills:   &mysql.SkillRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		notifier: notifier,
	}
}

// Create opens a request against someone else's skill. A second request
// for the same pair is not an error: the existing row comes back with
// created=false, whatever state it is in. The unique index backs this up
// when two creates race.
func (s *SkillRequestService) Create(ctx context.Context, requesterID, skillID uint64, scheduledFor *time.Time) (*model.SkillRequest, bool, error) {
	skill, err := s.skills.FindByID(skillID)
	if err != nil {
		return nil, false, err
	}
	if skill.OwnerID == requesterID {
		return nil, false, ErrRequestSelf
	}

	if existing, err := s.repo.FindBySkillAndRequester(ctx, skillID, requesterID); err == nil {
		return existing, false, nil
	}

	req := &model.SkillRequest{
		SkillID:      skillID,
		RequesterID:  requesterID,
		OwnerID:      skill.OwnerID,
		Status:       model.RequestPending,
		ScheduledFor: scheduledFor,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		// A concurrent create may have won the unique index; surface its row.
		if existing, ferr := s.repo.FindBySkillAndRequester(ctx, skillID, requesterID); ferr == nil {
			return existing, false, nil
		}
		return nil, false, err
	}

	if requester, err := s.users.FindByID(requesterID); err == nil {
		text := fmt.Sprintf("%s requested your skill: %s", requester.Username, skill.Title)
		_ = s.notifier.Notify(ctx, skill.OwnerID, model.KindSkillRequest, text, &requesterID, nil)
	}
	return req, true, nil
}

func (s *SkillRequestService) ListMine(ctx context.Context, requesterID uint64) ([]model.SkillRequest, error) {
	return s.repo.ListByRequester(ctx, requesterID)
}

func (s *SkillRequestService) ListIncoming(ctx context.Context, ownerID uint64) ([]model.SkillRequest, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Approve moves PENDING to APPROVED; only the skill owner may do it.
func (s *SkillRequestService) Approve(ctx context.Context, actorID, id uint64) error {
	return s.ownerTransition(ctx, actorID, id,
		model.RequestPending, model.RequestApproved, nil, "approved")
}

// Reject moves PENDING to REJECTED; only the skill owner may do it.
func (s *SkillRequestService) Reject(ctx context.Context, actorID, id uint64) error {
	return s.ownerTransition(ctx, actorID, id,
		model.RequestPending, model.RequestRejected, nil, "rejected")
}

// Start moves APPROVED to IN_PROGRESS and stamps the session start.
func (s *SkillRequestService) Start(ctx context.Context, actorID, id uint64) error {
	now := time.Now()
	return s.ownerTransition(ctx, actorID, id,
		model.RequestApproved, model.RequestInProgress,
		map[string]any{"started_at": now}, "started")
}

func (s *SkillRequestService) ownerTransition(ctx context.Context, actorID, id uint64, from, to string, stamps map[string]any, verb string) error {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if req.OwnerID != actorID {
		return ErrNotAllowed
	}

	ok, err := s.repo.Transition(ctx, id, from, to, stamps)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadTransition
	}

	s.notifyStatus(ctx, req, req.RequesterID, to, verb)
	return nil
}

// Complete closes an IN_PROGRESS exchange. Either side may finish it; the
// other side gets the notice.
func (s *SkillRequestService) Complete(ctx context.Context, actorID, id uint64) error {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if req.OwnerID != actorID && req.RequesterID != actorID {
		return ErrNotAllowed
	}

	now := time.Now()
	ok, err := s.repo.Transition(ctx, id,
		model.RequestInProgress, model.RequestCompleted,
		map[string]any{"completed_at": now})
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadTransition
	}

	counterparty := req.RequesterID
	if actorID == req.RequesterID {
		counterparty = req.OwnerID
	}
	s.notifyStatus(ctx, req, counterparty, model.RequestCompleted, "completed")
	return nil
}

func (s *SkillRequestService) notifyStatus(ctx context.Context, req *model.SkillRequest, to uint64, status, verb string) {
	title := "a skill"
	if skill, err := s.skills.FindByID(req.SkillID); err == nil {
		title = skill.Title
	}
	kind := model.KindRequestStatus
	switch status {
	case model.RequestInProgress:
		kind = model.KindSkillSession
	case model.RequestCompleted:
		kind = model.KindSkillCompleted
	}
	text := fmt.Sprintf("Your exchange for %s was %s", title, verb)
	_ = s.notifier.Notify(ctx, to, kind, text, nil, nil)
}

func (s *SkillRequestService) Get(ctx context.Context, actorID, id uint64) (*model.SkillRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.OwnerID != actorID && req.RequesterID != actorID {
		return nil, ErrNotAllowed
	}
	return req, nil
}
