package auth

import (
	"crypto/subtle"
	"fmt"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// RegistrationGate decides whether a self-registration may claim a role.
type RegistrationGate interface {
	Check(role domain.Role, key string) error
}

// KeyAllowList admits privileged roles holding one of the configured keys.
// Students register freely; a role with no keys cannot self-register.
type KeyAllowList struct {
	keys map[domain.Role][]string
}

// NewKeyAllowList builds a gate from per-role key lists.
func NewKeyAllowList(adminKeys, staffKeys []string) *KeyAllowList {
	return &KeyAllowList{keys: map[domain.Role][]string{
		domain.RoleAdmin: adminKeys,
		domain.RoleStaff: staffKeys,
	}}
}

// Check implements RegistrationGate.
func (g *KeyAllowList) Check(role domain.Role, key string) error {
	switch role {
	case domain.RoleStudent:
		return nil
	case domain.RoleAdmin, domain.RoleStaff:
	default:
		return apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	if key != "" {
		for _, allowed := range g.keys[role] {
			if subtle.ConstantTimeCompare([]byte(allowed), []byte(key)) == 1 {
				return nil
			}
		}
	}
	return apperrors.NewForbidden(fmt.Sprintf("invalid %s registration key. Contact administrator for the correct key.", role))
}
