package service

import (
	"context"
	"errors"

	"SkillSwap/internal/model"
	"SkillSwap/internal/repository/mysql"

	"gorm.io/gorm"
)

type AdminService struct {
	users    *mysql.UserRepository
	skills   *mysql.SkillRepository
	reqs     *mysql.SkillRequestRepository
	reviews  *mysql.ReviewRepository
	reports  *mysql.ReportRepository
	meetings *mysql.MeetingRepository
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{
		users:    &mysql.UserRepository{DB: db},
		skills:   &mysql.SkillRepository{DB: db},
		reqs:     &mysql.SkillRequestRepository{DB: db},
		reviews:  &mysql.ReviewRepository{DB: db},
		reports:  &mysql.ReportRepository{DB: db},
		meetings: &mysql.MeetingRepository{DB: db},
	}
}

type PlatformStats struct {
	Users            int64            `json:"users"`
	Skills           int64            `json:"skills"`
	Requests         int64            `json:"requests"`
	RequestsByStatus map[string]int64 `json:"requests_by_status"`
	Meetings         int64            `json:"meetings"`
	AvgRating        float64          `json:"avg_rating"`
}

func (s *AdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{RequestsByStatus: map[string]int64{}}

	var err error
	if stats.Users, err = s.users.Count(); err != nil {
		return nil, err
	}
	if stats.Skills, err = s.skills.Count(); err != nil {
		return nil, err
	}
	if stats.Requests, err = s.reqs.Count(ctx); err != nil {
		return nil, err
	}
	for _, status := range []string{
		model.RequestPending, model.RequestApproved, model.RequestRejected,
		model.RequestInProgress, model.RequestCompleted,
	} {
		n, err := s.reqs.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		stats.RequestsByStatus[status] = n
	}
	if stats.Meetings, err = s.meetings.Count(ctx); err != nil {
		return nil, err
	}
	if stats.AvgRating, err = s.reviews.AvgRatingAll(); err != nil {
		return nil, err
	}
	return stats, nil
}

// Report files a complaint against another user.
func (s *AdminService) Report(ctx context.Context, reporterID, reportedID uint64, reason string) (*model.Report, error) {
	if reporterID == reportedID {
		return nil, errors.New("cannot report yourself")
	}
	if reason == "" {
		return nil, errors.New("reason required")
	}
	if _, err := s.users.FindByID(reportedID); err != nil {
		return nil, err
	}

	report := &model.Report{
		ReporterID:     reporterID,
		ReportedUserID: reportedID,
		Reason:         reason,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *AdminService) ListReports(ctx context.Context, unresolvedOnly bool) ([]model.Report, error) {
	return s.reports.List(ctx, unresolvedOnly)
}

func (s *AdminService) ResolveReport(ctx context.Context, id uint64) (bool, error) {
	return s.reports.Resolve(ctx, id)
}

// Moderation removals skip the ownership checks regular users go through.
func (s *AdminService) RemoveSkill(id uint64) error {
	return s.skills.Delete(id)
}

func (s *AdminService) RemoveReview(id uint64) error {
	return s.reviews.Delete(id)
}

func (s *AdminService) RemoveUser(ctx context.Context, id uint64) error {
	return s.users.DeleteAccount(ctx, id)
}

// ForceRequestStatus overrides a skill request state without the usual
// transition guard.
func (s *AdminService) ForceRequestStatus(ctx context.Context, id uint64, status string) error {
	switch status {
	case model.RequestPending, model.RequestApproved, model.RequestRejected,
		model.RequestInProgress, model.RequestCompleted:
	default:
		return errors.New("unknown request status")
	}
	if _, err := s.reqs.FindByID(ctx, id); err != nil {
		return err
	}
	return s.reqs.ForceStatus(ctx, id, status)
}
