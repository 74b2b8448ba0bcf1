package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// GroupField names a complaint column that reports may group by.
type GroupField string

const (
	GroupByStatus   GroupField = "status"
	GroupByCategory GroupField = "category"
	GroupByPriority GroupField = "priority"
)

// GroupCount is a single bucket of a grouped count.
type GroupCount struct {
	Key   string `json:"_id"`
	Count int64  `json:"count"`
}

// ResolutionStats summarizes time-to-resolve across resolved complaints.
type ResolutionStats struct {
	Resolved       int64
	AverageSeconds float64
}

// StaffWorkload aggregates complaints per assignee.
type StaffWorkload struct {
	StaffID    string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Total      int64  `json:"total"`
	Resolved   int64  `json:"resolved"`
	Pending    int64  `json:"pending"`
	InProgress int64  `json:"inProgress"`
}

// ReportRepository serves read-only rollups over complaints.
type ReportRepository interface {
	CountComplaints(ctx context.Context) (int64, error)
	CountBy(ctx context.Context, field GroupField) ([]GroupCount, error)
	Resolution(ctx context.Context) (ResolutionStats, error)
	StaffWorkload(ctx context.Context) ([]StaffWorkload, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository builds the Postgres report repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) CountComplaints(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints`).Scan(&count)
	return count, err
}

func (r *reportRepository) CountBy(ctx context.Context, field GroupField) ([]GroupCount, error) {
	switch field {
	case GroupByStatus, GroupByCategory, GroupByPriority:
	default:
		return nil, fmt.Errorf("unsupported group field %q", field)
	}
	query := fmt.Sprintf(`SELECT %[1]s, COUNT(*) FROM complaints GROUP BY %[1]s ORDER BY %[1]s`, field)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []GroupCount{}
	for rows.Next() {
		var gc GroupCount
		if err := rows.Scan(&gc.Key, &gc.Count); err != nil {
			return nil, err
		}
		result = append(result, gc)
	}
	return result, rows.Err()
}

func (r *reportRepository) Resolution(ctx context.Context) (ResolutionStats, error) {
	const query = `
        SELECT COUNT(*), COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at))), 0)::float8
        FROM complaints WHERE status=$1 AND resolved_at IS NOT NULL`
	var stats ResolutionStats
	err := r.pool.QueryRow(ctx, query, domain.StatusResolved).Scan(&stats.Resolved, &stats.AverageSeconds)
	return stats, err
}

func (r *reportRepository) StaffWorkload(ctx context.Context) ([]StaffWorkload, error) {
	const query = `
        SELECT u.id, u.name, u.email,
               COUNT(*),
               COUNT(*) FILTER (WHERE c.status=$1),
               COUNT(*) FILTER (WHERE c.status=$2),
               COUNT(*) FILTER (WHERE c.status=$3)
        FROM complaints c
        JOIN users u ON u.id = c.assigned_to
        GROUP BY u.id, u.name, u.email
        ORDER BY u.name`
	rows, err := r.pool.Query(ctx, query, domain.StatusResolved, domain.StatusPending, domain.StatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []StaffWorkload{}
	for rows.Next() {
		var w StaffWorkload
		if err := rows.Scan(&w.StaffID, &w.Name, &w.Email, &w.Total, &w.Resolved, &w.Pending, &w.InProgress); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
