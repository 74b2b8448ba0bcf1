package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/storage"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

const (
	attachmentsField = "attachments"
	cleanupTimeout   = 10 * time.Second
)

// ComplaintsHandler serves the complaint lifecycle endpoints.
type ComplaintsHandler struct {
	service     *service.ComplaintService
	store       storage.AttachmentStore
	maxFileSize int64
	logger      *zap.Logger
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService, store storage.AttachmentStore, maxFileSize int64, logger *zap.Logger) *ComplaintsHandler {
	return &ComplaintsHandler{
		service:     complaintService,
		store:       store,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Create POST /api/complaints. Accepts JSON or multipart with up to five attachments.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.ComplaintCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	}
	if err := input.Validate(); err != nil {
		return err
	}

	var files []*multipart.FileHeader
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return apperrors.NewValidationError("invalid multipart form", nil)
		}
		files = form.File[attachmentsField]
	}
	if err := storage.CheckUploads(files, h.maxFileSize); err != nil {
		return err
	}

	attachments, err := h.upload(c.UserContext(), files)
	if err != nil {
		return err
	}

	complaint, err := h.service.Create(c.UserContext(), principal, input, attachments)
	if err != nil {
		h.cleanup(attachments)
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// List GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	filter, page, pageSize := parseComplaintQuery(c)
	complaints, err := h.service.List(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	items := dto.NewComplaintResponses(complaints)
	return c.JSON(fiber.Map{
		"data": items,
		"meta": dto.ComplaintListMeta{Page: page, PageSize: pageSize, Count: len(items)},
	})
}

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	complaint, err := h.service.Get(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Update PUT /api/complaints/:id.
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.Update(c.UserContext(), principal, c.Params("id"), service.ComplaintUpdateInput{
		Status:     req.Status,
		Feedback:   req.Feedback,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UpdateComplaintResponse{
		ComplaintResponse: dto.NewComplaintResponse(result.Complaint),
		IgnoredFields:     result.IgnoredFields,
	}})
}

// Delete DELETE /api/complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "complaint removed"}})
}

func (h *ComplaintsHandler) upload(ctx context.Context, files []*multipart.FileHeader) ([]domain.Attachment, error) {
	attachments := make([]domain.Attachment, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.cleanup(attachments)
			return nil, apperrors.NewValidationError("unreadable attachment", map[string]any{"filename": fh.Filename})
		}
		att, err := h.store.Upload(ctx, fh.Filename, fh.Header.Get(fiber.HeaderContentType), f)
		_ = f.Close()
		if err != nil {
			h.cleanup(attachments)
			return nil, err
		}
		attachments = append(attachments, att)
	}
	return attachments, nil
}

// cleanup removes objects uploaded for a request that did not produce a complaint.
func (h *ComplaintsHandler) cleanup(attachments []domain.Attachment) {
	if len(attachments) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	for _, att := range attachments {
		if err := h.store.Delete(ctx, att.StorageID); err != nil {
			h.logger.Warn("attachment cleanup failed", zap.String("storage_id", att.StorageID), zap.Error(err))
		}
	}
}

func parseComplaintQuery(c *fiber.Ctx) (service.ComplaintListFilter, int, int) {
	filter := service.ComplaintListFilter{}
	for _, part := range splitQuery(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.ComplaintStatus(part))
	}
	for _, part := range splitQuery(c.Query("category")) {
		filter.Categories = append(filter.Categories, domain.ComplaintCategory(part))
	}
	for _, part := range splitQuery(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, domain.ComplaintPriority(part))
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 0)
	if pageSize > 0 {
		filter.Limit = pageSize
		filter.Offset = (page - 1) * pageSize
	}
	return filter, page, pageSize
}

func splitQuery(val string) []string {
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
