package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

func TestAllowed(t *testing.T) {
	staffB := "staff-b"
	owned := &domain.Complaint{ID: "c1", StudentID: "student-a", AssignedTo: &staffB}
	unassigned := &domain.Complaint{ID: "c2", StudentID: "student-a"}

	studentA := Principal{ID: "student-a", Role: domain.RoleStudent}
	studentC := Principal{ID: "student-c", Role: domain.RoleStudent}
	staff := Principal{ID: staffB, Role: domain.RoleStaff}
	otherStaff := Principal{ID: "staff-x", Role: domain.RoleStaff}
	admin := Principal{ID: "admin", Role: domain.RoleAdmin}

	tests := []struct {
		name      string
		principal Principal
		action    Action
		complaint *domain.Complaint
		want      bool
	}{
		{"student creates", studentA, ActionCreateComplaint, nil, true},
		{"staff cannot create", staff, ActionCreateComplaint, nil, false},
		{"admin cannot create", admin, ActionCreateComplaint, nil, false},
		{"owner views", studentA, ActionViewComplaint, owned, true},
		{"other student cannot view", studentC, ActionViewComplaint, owned, false},
		{"assignee views", staff, ActionViewComplaint, owned, true},
		{"other staff cannot view", otherStaff, ActionViewComplaint, owned, false},
		{"staff cannot view unassigned", staff, ActionViewComplaint, unassigned, false},
		{"admin views anything", admin, ActionViewComplaint, unassigned, true},
		{"student cannot update own", studentA, ActionUpdateComplaint, owned, false},
		{"assignee updates", staff, ActionUpdateComplaint, owned, true},
		{"staff cannot update unassigned", staff, ActionUpdateComplaint, unassigned, false},
		{"staff passes role-level update", staff, ActionUpdateComplaint, nil, true},
		{"admin updates", admin, ActionUpdateComplaint, unassigned, true},
		{"staff cannot set priority", staff, ActionSetPriority, owned, false},
		{"staff cannot assign", staff, ActionAssign, owned, false},
		{"admin assigns", admin, ActionAssign, owned, true},
		{"only admin deletes", staff, ActionDeleteComplaint, owned, false},
		{"admin deletes", admin, ActionDeleteComplaint, owned, true},
		{"student lists", studentA, ActionListComplaints, nil, true},
		{"unknown role lists nothing", Principal{ID: "x", Role: "guest"}, ActionListComplaints, nil, false},
		{"admin reports", admin, ActionViewReports, nil, true},
		{"staff no reports", staff, ActionViewReports, nil, false},
		{"unknown action", admin, Action("complaint:archive"), owned, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.principal, tt.action, tt.complaint))
		})
	}
}

func TestAuthorizeReturnsForbidden(t *testing.T) {
	err := Authorize(Principal{ID: "s", Role: domain.RoleStudent}, ActionDeleteComplaint, nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	assert.NoError(t, Authorize(Principal{ID: "a", Role: domain.RoleAdmin}, ActionDeleteComplaint, nil))
}
