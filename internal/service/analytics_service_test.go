package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/cache"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

func TestRoundDays(t *testing.T) {
	assert.Equal(t, 0.0, roundDays(0))
	assert.Equal(t, 1.0, roundDays(secondsPerDay))
	assert.Equal(t, 1.5, roundDays(1.5*secondsPerDay))
	assert.Equal(t, 0.1, roundDays(0.14*secondsPerDay))
	assert.Equal(t, 2.3, roundDays(2.26*secondsPerDay))
}

func TestDashboard(t *testing.T) {
	sid := "S-1"
	users := repotest.NewUsers(
		&domain.User{ID: "student-a", Name: "Ada", Email: "ada@campus.edu", Role: domain.RoleStudent, StudentID: &sid, Active: true},
		&domain.User{ID: "staff-b", Name: "Bea", Email: "bea@campus.edu", Role: domain.RoleStaff, Active: true},
	)
	complaints := repotest.NewComplaints()
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		require.NoError(t, complaints.Create(ctx, &domain.Complaint{
			Title: "c", Description: "d", Category: domain.CategoryOther,
			Priority: domain.PriorityMedium, Status: domain.StatusPending, StudentID: "student-a",
		}))
	}

	reports := new(mockReportRepo)
	reports.On("CountComplaints", mock.Anything).Return(int64(7), nil)
	reports.On("CountBy", mock.Anything, repository.GroupByStatus).Return([]repository.GroupCount{{Key: "Pending", Count: 7}}, nil)
	reports.On("CountBy", mock.Anything, repository.GroupByCategory).Return([]repository.GroupCount{{Key: "Other", Count: 7}}, nil)
	reports.On("CountBy", mock.Anything, repository.GroupByPriority).Return([]repository.GroupCount{{Key: "Medium", Count: 7}}, nil)
	reports.On("Resolution", mock.Anything).Return(repository.ResolutionStats{Resolved: 2, AverageSeconds: 1.26 * secondsPerDay}, nil)

	svc := NewAnalyticsService(AnalyticsDependencies{
		ReportRepo:    reports,
		UserRepo:      users,
		ComplaintRepo: complaints,
		Cache:         cache.NewReportCache(nil, 0),
	})

	out, err := svc.Dashboard(ctx, auth.Principal{ID: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.TotalComplaints)
	assert.Equal(t, int64(1), out.TotalStudents)
	assert.Equal(t, int64(1), out.TotalStaff)
	assert.Equal(t, 1.3, out.AvgResolutionTimeDays)
	require.Len(t, out.RecentComplaints, 5)
	assert.True(t, out.RecentComplaints[0].CreatedAt.After(out.RecentComplaints[4].CreatedAt))
	require.NotNil(t, out.RecentComplaints[0].Student)
	assert.Equal(t, "Ada", out.RecentComplaints[0].Student.Name)
	assert.Len(t, out.StatusBreakdown, 1)
	reports.AssertExpectations(t)
}

func TestDashboardNoResolvedComplaints(t *testing.T) {
	reports := new(mockReportRepo)
	reports.On("CountComplaints", mock.Anything).Return(int64(0), nil)
	reports.On("CountBy", mock.Anything, mock.Anything).Return([]repository.GroupCount{}, nil)
	reports.On("Resolution", mock.Anything).Return(repository.ResolutionStats{}, nil)

	svc := NewAnalyticsService(AnalyticsDependencies{
		ReportRepo:    reports,
		UserRepo:      repotest.NewUsers(),
		ComplaintRepo: repotest.NewComplaints(),
	})
	out, err := svc.Dashboard(context.Background(), auth.Principal{ID: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Zero(t, out.AvgResolutionTimeDays)
	assert.Empty(t, out.RecentComplaints)
}

func TestReportsAdminOnly(t *testing.T) {
	reports := new(mockReportRepo)
	svc := NewAnalyticsService(AnalyticsDependencies{ReportRepo: reports, UserRepo: repotest.NewUsers(), ComplaintRepo: repotest.NewComplaints()})

	for _, role := range []domain.Role{domain.RoleStudent, domain.RoleStaff} {
		p := auth.Principal{ID: "u", Role: role}
		_, err := svc.Dashboard(context.Background(), p)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
		_, err = svc.StaffPerformance(context.Background(), p)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	}
	reports.AssertNotCalled(t, "StaffWorkload", mock.Anything)
}

func TestStaffPerformance(t *testing.T) {
	reports := new(mockReportRepo)
	rows := []repository.StaffWorkload{{StaffID: "staff-b", Name: "Bea", Total: 3, Resolved: 1, Pending: 1, InProgress: 1}}
	reports.On("StaffWorkload", mock.Anything).Return(rows, nil).Once()
	reports.On("StaffWorkload", mock.Anything).Return([]repository.StaffWorkload(nil), errors.New("db down")).Once()

	svc := NewAnalyticsService(AnalyticsDependencies{ReportRepo: reports, UserRepo: repotest.NewUsers(), ComplaintRepo: repotest.NewComplaints()})
	admin := auth.Principal{ID: "admin", Role: domain.RoleAdmin}

	got, err := svc.StaffPerformance(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	_, err = svc.StaffPerformance(context.Background(), admin)
	assert.Error(t, err)
}
