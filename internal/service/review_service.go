package service

import (
	"context"
	"errors"
	"fmt"

	"SkillSwap/internal/model"
	"SkillSwap/internal/repository/mysql"

	"gorm.io/gorm"
)

type ReviewService struct {
	repo     *mysql.ReviewRepository
	skills   *mysql.SkillRepository
	users    *mysql.UserRepository
	notifier *NotificationService
}

func NewReviewService(db *gorm.DB, notifier *NotificationService) *ReviewService {
	return &ReviewService{
		repo:     &mysql.ReviewRepository{DB: db},
		skills:   &mysql.SkillRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		notifier: notifier,
	}
}

// Create posts a review on a skill. The rating is optional; when present
// it must sit in [0,5]. Reviewing your own skill skips the notice.
func (s *ReviewService) Create(ctx context.Context, reviewerID, skillID uint64, rating *int, comment string) (*model.Review, error) {
	if rating != nil && (*rating < 0 || *rating > 5) {
		return nil, errors.New("rating out of range")
	}
	skill, err := s.skills.FindByID(skillID)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		SkillID:    skillID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.repo.Create(review); err != nil {
		return nil, err
	}
	s.refreshOwnerRating(skill.OwnerID)

	if skill.OwnerID != reviewerID {
		if reviewer, err := s.users.FindByID(reviewerID); err == nil {
			text := fmt.Sprintf("%s reviewed your skill: %s", reviewer.Username, skill.Title)
			_ = s.notifier.Notify(ctx, skill.OwnerID, model.KindReview, text, &reviewerID, nil)
		}
	}
	return review, nil
}

func (s *ReviewService) ListBySkill(skillID uint64) ([]model.Review, error) {
	return s.repo.ListBySkill(skillID)
}

// Update lets the author amend their review.
func (s *ReviewService) Update(actorID, id uint64, rating *int, comment *string) error {
	review, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if review.ReviewerID != actorID {
		return ErrNotAllowed
	}

	fields := map[string]any{}
	if rating != nil {
		if *rating < 0 || *rating > 5 {
			return errors.New("rating out of range")
		}
		fields["rating"] = *rating
	}
	if comment != nil {
		fields["comment"] = *comment
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.repo.Update(id, fields); err != nil {
		return err
	}
	if skill, err := s.skills.FindByID(review.SkillID); err == nil {
		s.refreshOwnerRating(skill.OwnerID)
	}
	return nil
}

func (s *ReviewService) Delete(actorID, id uint64) error {
	review, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if review.ReviewerID != actorID {
		return ErrNotAllowed
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if skill, err := s.skills.FindByID(review.SkillID); err == nil {
		s.refreshOwnerRating(skill.OwnerID)
	}
	return nil
}

// refreshOwnerRating recomputes the owner's aggregate; best-effort.
func (s *ReviewService) refreshOwnerRating(ownerID uint64) {
	avg, err := s.repo.OwnerAvg(ownerID)
	if err != nil {
		return
	}
	_ = s.users.UpdateProfile(ownerID, map[string]any{"rating": avg})
}
