package service

import (
	"context"
	"errors"
	"fmt"

	"SkillSwap/internal/model"
	"SkillSwap/internal/repository/mysql"

	"gorm.io/gorm"
)

var ErrNotOwner = errors.New("no permission")

type SkillService struct {
	repo     *mysql.SkillRepository
	requests *mysql.SkillRequestRepository
	users    *mysql.UserRepository
	notifier *NotificationService
}

func NewSkillService(db *gorm.DB, notifier *NotificationService) *SkillService {
	return &SkillService{
		repo:     &mysql.SkillRepository{DB: db},
		requests: &mysql.SkillRequestRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		notifier: notifier,
	}
}

type SkillInput struct {
	Title        string
	Description  string
	Category     string
	Level        string
	Availability string
}

type SkillUpdate struct {
	Title        *string
	Description  *string
	Category     *string
	Level        *string
	Availability *string
}

// SkillDetail bundles the row with its derived stats.
type SkillDetail struct {
	Skill         model.Skill      `json:"skill"`
	Owner         *model.User      `json:"owner,omitempty"`
	AvgRating     float64          `json:"avg_rating"`
	RequestCounts map[string]int64 `json:"request_counts"`
	ApprovalRate  float64          `json:"approval_rate"`
}

func oneOf(val string, allowed []string) bool {
	for _, a := range allowed {
		if a == val {
			return true
		}
	}
	return false
}

func validateSkillFields(category, level, availability string) error {
	if category != "" && !oneOf(category, model.SkillCategories) {
		return errors.New("unknown category")
	}
	if level != "" && !oneOf(level, model.SkillLevels) {
		return errors.New("unknown level")
	}
	if availability != "" && !oneOf(availability, model.SkillAvailabilities) {
		return errors.New("unknown availability")
	}
	return nil
}

// Create stores the skill and fans a new_skill notice out to every other
// user.
func (s *SkillService) Create(ctx context.Context, ownerID uint64, in SkillInput) (*model.Skill, error) {
	if in.Title == "" {
		return nil, errors.New("title required")
	}
	if err := validateSkillFields(in.Category, in.Level, in.Availability); err != nil {
		return nil, err
	}

	skill := &model.Skill{
		OwnerID:      ownerID,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Level:        in.Level,
		Availability: in.Availability,
	}
	if err := s.repo.Create(skill); err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ownerID)
	if err == nil {
		text := fmt.Sprintf("%s posted a new skill: %s", owner.Username, skill.Title)
		_ = s.notifier.Broadcast(ctx, ownerID, model.KindNewSkill, text, &ownerID)
	}
	return skill, nil
}

func (s *SkillService) List(f mysql.SkillFilter, page, size int) ([]model.Skill, int64, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.repo.List(f, (page-1)*size, size)
}

func (s *SkillService) ListByOwner(ownerID uint64) ([]model.Skill, error) {
	return s.repo.ListByOwner(ownerID)
}

func (s *SkillService) Detail(ctx context.Context, id uint64) (*SkillDetail, error) {
	skill, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	avg, err := s.repo.AvgRating(id)
	if err != nil {
		return nil, err
	}
	counts, err := s.requests.CountBySkill(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &SkillDetail{Skill: *skill, AvgRating: avg, RequestCounts: counts}
	var total int64
	for _, n := range counts {
		total += n
	}
	if total > 0 {
		approved := counts[model.RequestApproved] + counts[model.RequestInProgress] + counts[model.RequestCompleted]
		detail.ApprovalRate = float64(approved) / float64(total)
	}
	if owner, err := s.users.FindByID(skill.OwnerID); err == nil {
		owner.Password = ""
		detail.Owner = owner
	}
	return detail, nil
}

func (s *SkillService) Update(actorID, id uint64, upd SkillUpdate) error {
	skill, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if skill.OwnerID != actorID {
		return ErrNotOwner
	}

	fields := map[string]any{}
	if upd.Title != nil {
		if *upd.Title == "" {
			return errors.New("title required")
		}
		fields["title"] = *upd.Title
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Category != nil {
		if err := validateSkillFields(*upd.Category, "", ""); err != nil {
			return err
		}
		fields["category"] = *upd.Category
	}
	if upd.Level != nil {
		if err := validateSkillFields("", *upd.Level, ""); err != nil {
			return err
		}
		fields["level"] = *upd.Level
	}
	if upd.Availability != nil {
		if err := validateSkillFields("", "", *upd.Availability); err != nil {
			return err
		}
		fields["availability"] = *upd.Availability
	}
	if len(fields) == 0 {
		return nil
	}
	return s.repo.Update(id, fields)
}

func (s *SkillService) Delete(actorID, id uint64) error {
	skill, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if skill.OwnerID != actorID {
		return ErrNotOwner
	}
	return s.repo.Delete(id)
}

func (s *SkillService) PopularCategories(limit int) ([]mysql.CategoryCount, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	return s.repo.PopularCategories(limit)
}
