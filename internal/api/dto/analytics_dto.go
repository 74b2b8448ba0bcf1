package dto

import "github.com/spec-kit/complaint-service/internal/repository"

// DashboardResponse is the admin overview.
type DashboardResponse struct {
	TotalComplaints   int64                   `json:"total_complaints"`
	TotalStudents     int64                   `json:"total_students"`
	TotalStaff        int64                   `json:"total_staff"`
	StatusBreakdown   []repository.GroupCount `json:"status_breakdown"`
	CategoryBreakdown []repository.GroupCount `json:"category_breakdown"`
	PriorityBreakdown []repository.GroupCount `json:"priority_breakdown"`
	RecentComplaints  []ComplaintResponse     `json:"recent_complaints"`
	// Mean days from filing to resolution, one decimal.
	AvgResolutionTime float64 `json:"avg_resolution_time"`
}
