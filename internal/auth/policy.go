package auth

import (
	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// Principal represents the authenticated caller.
type Principal struct {
	ID   string
	Role domain.Role
	User *domain.User
}

// Action names an operation guarded by Authorize.
type Action string

const (
	ActionCreateComplaint Action = "complaint:create"
	ActionListComplaints  Action = "complaint:list"
	ActionViewComplaint   Action = "complaint:view"
	ActionUpdateComplaint Action = "complaint:update"
	ActionDeleteComplaint Action = "complaint:delete"
	ActionSetPriority     Action = "complaint:set_priority"
	ActionAssign          Action = "complaint:assign"
	ActionViewReports     Action = "reports:view"
	ActionManageUsers     Action = "users:manage"
)

// Allowed evaluates the access rules for principal performing action on complaint.
// A nil complaint evaluates the role-level rule only.
func Allowed(p Principal, action Action, complaint *domain.Complaint) bool {
	switch action {
	case ActionCreateComplaint:
		return p.Role == domain.RoleStudent
	case ActionListComplaints:
		return p.Role.Valid()
	case ActionViewComplaint:
		switch p.Role {
		case domain.RoleAdmin:
			return true
		case domain.RoleStudent:
			return complaint == nil || complaint.StudentID == p.ID
		case domain.RoleStaff:
			return complaint == nil || complaint.IsAssignedTo(p.ID)
		}
		return false
	case ActionUpdateComplaint:
		switch p.Role {
		case domain.RoleAdmin:
			return true
		case domain.RoleStaff:
			return complaint == nil || complaint.IsAssignedTo(p.ID)
		}
		return false
	case ActionDeleteComplaint, ActionSetPriority, ActionAssign, ActionViewReports, ActionManageUsers:
		return p.Role == domain.RoleAdmin
	}
	return false
}

// Authorize returns a forbidden error when Allowed denies the action.
func Authorize(p Principal, action Action, complaint *domain.Complaint) error {
	if Allowed(p, action, complaint) {
		return nil
	}
	return apperrors.NewForbidden("not authorized")
}
