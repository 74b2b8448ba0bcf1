package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/cache"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

const (
	recentComplaintsLimit = 5
	dashboardCacheKey     = "dashboard"
	staffCacheKey         = "staff-performance"
	secondsPerDay         = 24 * 60 * 60
)

// Dashboard is the admin overview rollup.
type Dashboard struct {
	TotalComplaints       int64                   `json:"totalComplaints"`
	TotalStudents         int64                   `json:"totalStudents"`
	TotalStaff            int64                   `json:"totalStaff"`
	StatusBreakdown       []repository.GroupCount `json:"statusBreakdown"`
	CategoryBreakdown     []repository.GroupCount `json:"categoryBreakdown"`
	PriorityBreakdown     []repository.GroupCount `json:"priorityBreakdown"`
	RecentComplaints      []domain.Complaint      `json:"recentComplaints"`
	AvgResolutionTimeDays float64                 `json:"avgResolutionTime"`
}

// AnalyticsService builds read-only reports for admins.
type AnalyticsService struct {
	reports    repository.ReportRepository
	users      repository.UserRepository
	complaints repository.ComplaintRepository
	cache      *cache.ReportCache
	logger     *zap.Logger
}

// AnalyticsDependencies bundles collaborators for reporting.
type AnalyticsDependencies struct {
	ReportRepo    repository.ReportRepository
	UserRepo      repository.UserRepository
	ComplaintRepo repository.ComplaintRepository
	Cache         *cache.ReportCache
	Logger        *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		reports:    deps.ReportRepo,
		users:      deps.UserRepo,
		complaints: deps.ComplaintRepo,
		cache:      deps.Cache,
		logger:     logger,
	}
}

// Dashboard returns totals, breakdowns, recent complaints and mean resolution time.
func (s *AnalyticsService) Dashboard(ctx context.Context, principal auth.Principal) (*Dashboard, error) {
	if err := auth.Authorize(principal, auth.ActionViewReports, nil); err != nil {
		return nil, err
	}

	var cached Dashboard
	if s.fromCache(ctx, dashboardCacheKey, &cached) {
		return &cached, nil
	}

	var (
		out Dashboard
		err error
	)
	if out.TotalComplaints, err = s.reports.CountComplaints(ctx); err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}
	if out.TotalStudents, err = s.users.CountByRole(ctx, domain.RoleStudent); err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	if out.TotalStaff, err = s.users.CountByRole(ctx, domain.RoleStaff); err != nil {
		return nil, fmt.Errorf("count staff: %w", err)
	}
	if out.StatusBreakdown, err = s.reports.CountBy(ctx, repository.GroupByStatus); err != nil {
		return nil, fmt.Errorf("status breakdown: %w", err)
	}
	if out.CategoryBreakdown, err = s.reports.CountBy(ctx, repository.GroupByCategory); err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	if out.PriorityBreakdown, err = s.reports.CountBy(ctx, repository.GroupByPriority); err != nil {
		return nil, fmt.Errorf("priority breakdown: %w", err)
	}

	recent, err := s.complaints.List(ctx, repository.ComplaintFilter{Limit: recentComplaintsLimit})
	if err != nil {
		return nil, fmt.Errorf("recent complaints: %w", err)
	}
	if err := s.attachStudents(ctx, recent); err != nil {
		return nil, err
	}
	out.RecentComplaints = recent

	stats, err := s.reports.Resolution(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolution stats: %w", err)
	}
	if stats.Resolved > 0 {
		out.AvgResolutionTimeDays = roundDays(stats.AverageSeconds)
	}

	s.toCache(ctx, dashboardCacheKey, out)
	return &out, nil
}

// StaffPerformance returns complaint counts per assignee.
func (s *AnalyticsService) StaffPerformance(ctx context.Context, principal auth.Principal) ([]repository.StaffWorkload, error) {
	if err := auth.Authorize(principal, auth.ActionViewReports, nil); err != nil {
		return nil, err
	}

	var cached []repository.StaffWorkload
	if s.fromCache(ctx, staffCacheKey, &cached) {
		return cached, nil
	}

	workload, err := s.reports.StaffWorkload(ctx)
	if err != nil {
		return nil, fmt.Errorf("staff workload: %w", err)
	}
	s.toCache(ctx, staffCacheKey, workload)
	return workload, nil
}

func (s *AnalyticsService) attachStudents(ctx context.Context, complaints []domain.Complaint) error {
	ids := make([]string, 0, len(complaints))
	for _, c := range complaints {
		ids = append(ids, c.StudentID)
	}
	if len(ids) == 0 {
		return nil
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve students: %w", err)
	}
	for i := range complaints {
		if u, ok := users[complaints[i].StudentID]; ok {
			complaints[i].Student = &domain.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	return nil
}

func (s *AnalyticsService) fromCache(ctx context.Context, key string, dest any) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *AnalyticsService) toCache(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// roundDays converts seconds to days rounded to one decimal.
func roundDays(seconds float64) float64 {
	return math.Round(seconds/secondsPerDay*10) / 10
}
