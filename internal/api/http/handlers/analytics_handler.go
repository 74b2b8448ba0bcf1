package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/service"
)

// AnalyticsHandler serves admin reports.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Dashboard handles GET /api/analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	out, err := h.analytics.Dashboard(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		TotalComplaints:   out.TotalComplaints,
		TotalStudents:     out.TotalStudents,
		TotalStaff:        out.TotalStaff,
		StatusBreakdown:   out.StatusBreakdown,
		CategoryBreakdown: out.CategoryBreakdown,
		PriorityBreakdown: out.PriorityBreakdown,
		RecentComplaints:  dto.NewComplaintResponses(out.RecentComplaints),
		AvgResolutionTime: out.AvgResolutionTimeDays,
	}})
}

// StaffPerformance handles GET /api/analytics/staff-performance.
func (h *AnalyticsHandler) StaffPerformance(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	rows, err := h.analytics.StaffPerformance(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}
