package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

func newIdentityService(users *repotest.Users) *IdentityService {
	return NewIdentityService(IdentityDependencies{
		UserRepo:   users,
		Tokens:     auth.NewTokenManager("test-secret", 60),
		Gate:       auth.NewKeyAllowList([]string{"admin-key"}, []string{"staff-key"}),
		BcryptCost: bcrypt.MinCost,
	})
}

func TestRegisterStudent(t *testing.T) {
	users := repotest.NewUsers()
	svc := newIdentityService(users)

	res, err := svc.Register(context.Background(), RegisterInput{
		Name:      "Ada",
		Email:     " Ada@Campus.edu ",
		Password:  "secret1",
		StudentID: "S-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, res.User.Role)
	assert.Equal(t, "ada@campus.edu", res.User.Email)
	assert.True(t, res.User.Active)
	require.NotNil(t, res.User.StudentID)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)

	claims, err := svc.TokenManager().ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)
	assert.Equal(t, domain.RoleStudent, claims.Role)
}

func TestRegisterValidationAndConflicts(t *testing.T) {
	users := repotest.NewUsers()
	svc := newIdentityService(users)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@campus.edu", Password: "secret1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "student id required")

	_, err = svc.Register(ctx, RegisterInput{Name: "Ada", Email: "not-an-email", Password: "secret1", StudentID: "S-1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@campus.edu", Password: "123", StudentID: "S-1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@campus.edu", Password: "secret1", StudentID: "S-1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Ada2", Email: "ADA@campus.edu", Password: "secret1", StudentID: "S-2"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict), "duplicate email")

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "other@campus.edu", Password: "secret1", StudentID: "S-1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict), "duplicate student id")
}

func TestRegisterPrivilegedRolesNeedKey(t *testing.T) {
	svc := newIdentityService(repotest.NewUsers())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Bea", Email: "bea@campus.edu", Password: "secret1", Role: domain.RoleStaff})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = svc.Register(ctx, RegisterInput{Name: "Bea", Email: "bea@campus.edu", Password: "secret1", Role: domain.RoleStaff, RegistrationKey: "admin-key"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	res, err := svc.Register(ctx, RegisterInput{Name: "Bea", Email: "bea@campus.edu", Password: "secret1", Role: domain.RoleStaff, RegistrationKey: "staff-key", StudentID: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, res.User.Role)
	assert.Nil(t, res.User.StudentID)

	_, err = svc.Register(ctx, RegisterInput{Name: "Root", Email: "root@campus.edu", Password: "secret1", Role: domain.RoleAdmin, RegistrationKey: "admin-key"})
	assert.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "X", Email: "x@campus.edu", Password: "secret1", Role: "janitor"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestLogin(t *testing.T) {
	users := repotest.NewUsers()
	svc := newIdentityService(users)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@campus.edu", Password: "secret1", StudentID: "S-1"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "ADA@campus.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, "ada@campus.edu", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	assert.Equal(t, "invalid credentials", err.Error())

	_, err = svc.Login(ctx, "ghost@campus.edu", "secret1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	require.NoError(t, users.SetActive(ctx, reg.User.ID, false))
	_, err = svc.Login(ctx, "ada@campus.edu", "secret1")
	require.Error(t, err)
	assert.Equal(t, "account is deactivated", err.Error())
}

func TestUserAdministration(t *testing.T) {
	users := repotest.NewUsers(
		&domain.User{ID: "admin-1", Name: "Root", Email: "root@campus.edu", Role: domain.RoleAdmin, Active: true},
		&domain.User{ID: "staff-1", Name: "Bea", Email: "bea@campus.edu", Role: domain.RoleStaff, Active: true},
	)
	svc := newIdentityService(users)
	ctx := context.Background()
	admin := auth.Principal{ID: "admin-1", Role: domain.RoleAdmin}
	staff := auth.Principal{ID: "staff-1", Role: domain.RoleStaff}

	_, err := svc.ListUsers(ctx, staff, nil, 0, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	role := domain.RoleStaff
	list, err := svc.ListUsers(ctx, admin, &role, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "staff-1", list[0].ID)

	updated, err := svc.SetActive(ctx, admin, "staff-1", false)
	require.NoError(t, err)
	assert.False(t, updated.Active)

	_, err = svc.SetActive(ctx, admin, "admin-1", false)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.SetActive(ctx, admin, "missing", true)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	me, err := svc.Me(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, "Bea", me.Name)
}

func TestCreateAdminSkipsRegistrationKey(t *testing.T) {
	users := repotest.NewUsers()
	svc := newIdentityService(users)

	admin, err := svc.CreateAdmin(context.Background(), "Root", "root@campus.edu", "changeme")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Nil(t, admin.StudentID)

	_, err = svc.CreateAdmin(context.Background(), "Root", "root@campus.edu", "changeme")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}
