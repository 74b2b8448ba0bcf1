package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

func TestKeyAllowList(t *testing.T) {
	gate := NewKeyAllowList([]string{"admin-key"}, []string{"staff-key", "staff-key-2"})

	assert.NoError(t, gate.Check(domain.RoleStudent, ""))
	assert.NoError(t, gate.Check(domain.RoleAdmin, "admin-key"))
	assert.NoError(t, gate.Check(domain.RoleStaff, "staff-key-2"))

	assert.True(t, apperrors.HasCode(gate.Check(domain.RoleAdmin, "staff-key"), apperrors.CodeForbidden))
	assert.True(t, apperrors.HasCode(gate.Check(domain.RoleStaff, ""), apperrors.CodeForbidden))
	assert.True(t, apperrors.HasCode(gate.Check(domain.Role("root"), "x"), apperrors.CodeValidation))
}

func TestKeyAllowListClosedWhenEmpty(t *testing.T) {
	gate := NewKeyAllowList(nil, nil)

	assert.Error(t, gate.Check(domain.RoleAdmin, ""))
	assert.Error(t, gate.Check(domain.RoleStaff, "anything"))
}
