package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(id, active).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByStudentID(ctx context.Context, studentID string) (*domain.User, error) {
	args := m.Called(studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	args := m.Called(ids)
	return args.Get(0).(map[string]*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	args := m.Called(filter)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	args := m.Called(role)
	return args.Get(0).(int64), args.Error(1)
}

func newProtectedApp(mw *AuthMiddleware, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"message": de.Message})
		},
	})
	handlers := append([]fiber.Handler{mw.Handle}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(p.ID + ":" + string(p.Role))
	})
	app.Get("/me", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tokens := NewTokenManager("secret", 10)
	users := new(mockUserRepo)
	users.On("GetByID", "active-user").Return(&domain.User{ID: "active-user", Role: domain.RoleStaff, Active: true}, nil)
	users.On("GetByID", "inactive-user").Return(&domain.User{ID: "inactive-user", Role: domain.RoleStudent, Active: false}, nil)
	users.On("GetByID", "ghost").Return(nil, repository.ErrNotFound)

	app := newProtectedApp(NewAuthMiddleware(tokens, users))

	tokenFor := func(id string) string {
		tok, _, err := tokens.GenerateToken(id, domain.RoleStaff)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"unknown user", tokenFor("ghost"), http.StatusUnauthorized},
		{"inactive user", tokenFor("inactive-user"), http.StatusUnauthorized},
		{"active user", tokenFor("active-user"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := NewTokenManager("secret", 10)
	users := new(mockUserRepo)
	users.On("GetByID", "student-1").Return(&domain.User{ID: "student-1", Role: domain.RoleStudent, Active: true}, nil)
	users.On("GetByID", "admin-1").Return(&domain.User{ID: "admin-1", Role: domain.RoleAdmin, Active: true}, nil)

	app := newProtectedApp(NewAuthMiddleware(tokens, users), RequireRole(domain.RoleStaff, domain.RoleAdmin))

	for id, status := range map[string]int{"student-1": http.StatusForbidden, "admin-1": http.StatusOK} {
		tok, _, err := tokens.GenerateToken(id, domain.RoleStudent)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, id)
	}
}
