package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// Fields an update can name. Used in UpdateResult.IgnoredFields.
const (
	FieldStatus     = "status"
	FieldFeedback   = "feedback"
	FieldPriority   = "priority"
	FieldAssignedTo = "assignedTo"
)

// ComplaintService owns the complaint lifecycle.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	logger     *zap.Logger
	clock      func() time.Time
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	Logger        *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	Title       string
	Description string
	Category    domain.ComplaintCategory
	Priority    domain.ComplaintPriority
}

// Validate checks the payload fields without touching attachments.
func (in ComplaintCreateInput) Validate() error {
	if details := in.validationDetails(); len(details) > 0 {
		return apperrors.NewValidationError("invalid complaint", details)
	}
	return nil
}

func (in ComplaintCreateInput) validationDetails() map[string]any {
	details := map[string]any{}
	if strings.TrimSpace(in.Title) == "" {
		details["title"] = "required"
	}
	if strings.TrimSpace(in.Description) == "" {
		details["description"] = "required"
	}
	if !in.Category.Valid() {
		details["category"] = "must be one of the known categories"
	}
	if in.Priority != "" && !in.Priority.Valid() {
		details["priority"] = "must be Low, Medium or High"
	}
	return details
}

// ComplaintListFilter narrows a listing inside the caller's visibility scope.
type ComplaintListFilter struct {
	Statuses   []domain.ComplaintStatus
	Categories []domain.ComplaintCategory
	Priorities []domain.ComplaintPriority
	Limit      int
	Offset     int
}

// ComplaintUpdateInput carries the fields an update may touch. Nil or empty values are left alone.
type ComplaintUpdateInput struct {
	Status     *domain.ComplaintStatus
	Feedback   *string
	Priority   *domain.ComplaintPriority
	AssignedTo *string
}

// UpdateResult is the reloaded complaint plus the requested fields the caller was not allowed to set.
type UpdateResult struct {
	Complaint     *domain.Complaint
	IgnoredFields []string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		logger:     logger,
		clock:      clock,
	}
}

// Create files a new complaint on behalf of a student.
func (s *ComplaintService) Create(ctx context.Context, principal auth.Principal, input ComplaintCreateInput, attachments []domain.Attachment) (*domain.Complaint, error) {
	if err := auth.Authorize(principal, auth.ActionCreateComplaint, nil); err != nil {
		return nil, err
	}

	details := input.validationDetails()
	if len(attachments) > domain.MaxAttachments {
		details["attachments"] = fmt.Sprintf("at most %d allowed", domain.MaxAttachments)
	}
	for i, att := range attachments {
		if strings.TrimSpace(att.Filename) == "" || strings.TrimSpace(att.StorageURL) == "" || strings.TrimSpace(att.StorageID) == "" {
			details[fmt.Sprintf("attachments[%d]", i)] = "filename, storage url and storage id required"
		}
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid complaint", details)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := s.clock().UTC()
	refs := make([]domain.Attachment, len(attachments))
	for i, att := range attachments {
		if att.UploadedAt.IsZero() {
			att.UploadedAt = now
		}
		refs[i] = att
	}

	complaint := &domain.Complaint{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
		Status:      domain.StatusPending,
		StudentID:   principal.ID,
		Attachments: refs,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}
	s.logger.Info("complaint created",
		zap.String("complaint_id", complaint.ID),
		zap.String("student_id", principal.ID),
		zap.Int("attachments", len(refs)),
	)

	if err := s.hydrate(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// List returns the complaints visible to principal, newest first.
func (s *ComplaintService) List(ctx context.Context, principal auth.Principal, filter ComplaintListFilter) ([]domain.Complaint, error) {
	if err := auth.Authorize(principal, auth.ActionListComplaints, nil); err != nil {
		return nil, err
	}
	repoFilter := repository.ComplaintFilter{
		Statuses:   filter.Statuses,
		Categories: filter.Categories,
		Priorities: filter.Priorities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	switch principal.Role {
	case domain.RoleStudent:
		repoFilter.StudentID = &principal.ID
	case domain.RoleStaff:
		repoFilter.AssignedTo = &principal.ID
	}

	complaints, err := s.complaints.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	if err := s.hydrateAll(ctx, complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

// Get loads a single complaint the principal may see.
func (s *ComplaintService) Get(ctx context.Context, principal auth.Principal, id string) (*domain.Complaint, error) {
	complaint, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(principal, auth.ActionViewComplaint, complaint); err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// Update applies status, feedback, priority and assignment changes.
// Priority and assignment requested by non-admins are dropped and reported in IgnoredFields.
func (s *ComplaintService) Update(ctx context.Context, principal auth.Principal, id string, input ComplaintUpdateInput) (*UpdateResult, error) {
	if err := auth.Authorize(principal, auth.ActionUpdateComplaint, nil); err != nil {
		return nil, err
	}
	complaint, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(principal, auth.ActionUpdateComplaint, complaint); err != nil {
		return nil, err
	}

	result := &UpdateResult{IgnoredFields: []string{}}

	if input.Status != nil && *input.Status != "" {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		complaint.Status = *input.Status
	}
	if input.Feedback != nil && *input.Feedback != "" {
		feedback := *input.Feedback
		complaint.Feedback = &feedback
	}
	if input.Priority != nil && *input.Priority != "" {
		if auth.Allowed(principal, auth.ActionSetPriority, complaint) {
			if !input.Priority.Valid() {
				return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
			}
			complaint.Priority = *input.Priority
		} else {
			result.IgnoredFields = append(result.IgnoredFields, FieldPriority)
		}
	}
	if input.AssignedTo != nil && *input.AssignedTo != "" {
		if auth.Allowed(principal, auth.ActionAssign, complaint) {
			assignee, err := s.checkAssignee(ctx, *input.AssignedTo)
			if err != nil {
				return nil, err
			}
			complaint.AssignedTo = &assignee.ID
		} else {
			result.IgnoredFields = append(result.IgnoredFields, FieldAssignedTo)
		}
	}

	if complaint.Status == domain.StatusResolved {
		resolvedAt := s.clock().UTC()
		complaint.ResolvedAt = &resolvedAt
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, fmt.Errorf("update complaint: %w", err)
	}

	fields := []zap.Field{
		zap.String("complaint_id", complaint.ID),
		zap.String("actor_id", principal.ID),
		zap.String("status", string(complaint.Status)),
	}
	if len(result.IgnoredFields) > 0 {
		fields = append(fields, zap.Strings("ignored_fields", result.IgnoredFields))
	}
	s.logger.Info("complaint updated", fields...)

	reloaded, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, reloaded); err != nil {
		return nil, err
	}
	result.Complaint = reloaded
	return result, nil
}

// Delete permanently removes a complaint. Stored attachment objects are left in place.
func (s *ComplaintService) Delete(ctx context.Context, principal auth.Principal, id string) error {
	if err := auth.Authorize(principal, auth.ActionDeleteComplaint, nil); err != nil {
		return err
	}
	if err := s.complaints.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return fmt.Errorf("delete complaint: %w", err)
	}
	s.logger.Info("complaint deleted", zap.String("complaint_id", id), zap.String("actor_id", principal.ID))
	return nil
}

func (s *ComplaintService) load(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, fmt.Errorf("load complaint: %w", err)
	}
	return complaint, nil
}

func (s *ComplaintService) checkAssignee(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("assignee not found", map[string]any{"assignedTo": id})
		}
		return nil, fmt.Errorf("load assignee: %w", err)
	}
	if user.Role != domain.RoleStaff || !user.Active {
		return nil, apperrors.NewValidationError("assignee must be an active staff member", map[string]any{"assignedTo": id})
	}
	return user, nil
}

func (s *ComplaintService) hydrate(ctx context.Context, complaint *domain.Complaint) error {
	items := []domain.Complaint{*complaint}
	if err := s.hydrateAll(ctx, items); err != nil {
		return err
	}
	*complaint = items[0]
	return nil
}

// hydrateAll fills student and assignee display references in place.
func (s *ComplaintService) hydrateAll(ctx context.Context, complaints []domain.Complaint) error {
	if len(complaints) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(complaints)*2)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for i := range complaints {
		add(complaints[i].StudentID)
		if complaints[i].AssignedTo != nil {
			add(*complaints[i].AssignedTo)
		}
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve complaint users: %w", err)
	}
	for i := range complaints {
		complaints[i].Student = users[complaints[i].StudentID].Ref()
		if complaints[i].AssignedTo != nil {
			complaints[i].Assignee = users[*complaints[i].AssignedTo].Ref()
		}
	}
	return nil
}
