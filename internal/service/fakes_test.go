package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/complaint-service/internal/repository"
)

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) CountComplaints(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReportRepo) CountBy(ctx context.Context, field repository.GroupField) ([]repository.GroupCount, error) {
	args := m.Called(ctx, field)
	return args.Get(0).([]repository.GroupCount), args.Error(1)
}

func (m *mockReportRepo) Resolution(ctx context.Context) (repository.ResolutionStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(repository.ResolutionStats), args.Error(1)
}

func (m *mockReportRepo) StaffWorkload(ctx context.Context) ([]repository.StaffWorkload, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.StaffWorkload), args.Error(1)
}

func strPtr(s string) *string { return &s }
