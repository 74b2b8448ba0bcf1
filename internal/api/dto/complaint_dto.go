package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload. Multipart requests carry the same names as form fields.
type CreateComplaintRequest struct {
	Title       string                   `json:"title" form:"title"`
	Description string                   `json:"description" form:"description"`
	Category    domain.ComplaintCategory `json:"category" form:"category"`
	Priority    domain.ComplaintPriority `json:"priority" form:"priority"`
}

// UpdateComplaintRequest payload. Absent fields are left untouched.
type UpdateComplaintRequest struct {
	Status     *domain.ComplaintStatus   `json:"status"`
	Feedback   *string                   `json:"feedback"`
	Priority   *domain.ComplaintPriority `json:"priority"`
	AssignedTo *string                   `json:"assigned_to"`
}

// ComplaintResponse is the full complaint view.
type ComplaintResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.ComplaintCategory `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
	Status      domain.ComplaintStatus   `json:"status"`
	StudentID   string                   `json:"student_id"`
	Student     *domain.UserRef          `json:"student,omitempty"`
	AssignedTo  *string                  `json:"assigned_to"`
	Assignee    *domain.UserRef          `json:"assignee,omitempty"`
	Attachments []domain.Attachment      `json:"attachments"`
	Feedback    *string                  `json:"feedback"`
	ResolvedAt  *time.Time               `json:"resolved_at"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// UpdateComplaintResponse adds the fields the caller was not allowed to change.
type UpdateComplaintResponse struct {
	ComplaintResponse
	IgnoredFields []string `json:"ignored_fields"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	attachments := c.Attachments
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	return ComplaintResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Priority:    c.Priority,
		Status:      c.Status,
		StudentID:   c.StudentID,
		Student:     c.Student,
		AssignedTo:  c.AssignedTo,
		Assignee:    c.Assignee,
		Attachments: attachments,
		Feedback:    c.Feedback,
		ResolvedAt:  c.ResolvedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewComplaintResponses maps a slice.
func NewComplaintResponses(items []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(items))
	for i := range items {
		out = append(out, NewComplaintResponse(&items[i]))
	}
	return out
}

// ComplaintListMeta describes the page returned by a listing.
type ComplaintListMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Count    int `json:"count"`
}
