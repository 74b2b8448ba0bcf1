package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// IdentityService coordinates registration, login and account administration.
type IdentityService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	gate       auth.RegistrationGate
	bcryptCost int
	logger     *zap.Logger
}

// IdentityDependencies encapsulates requirements for the identity service.
type IdentityDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Gate       auth.RegistrationGate
	BcryptCost int
	Logger     *zap.Logger
}

// RegisterInput is a self-registration request.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	Role            domain.Role
	StudentID       string
	Department      string
	Phone           string
	RegistrationKey string
}

// AuthResult pairs an account with a freshly issued token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewIdentityService builds the service.
func NewIdentityService(deps IdentityDependencies) *IdentityService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		gate:       deps.Gate,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
	}
}

// Register creates an account. Staff and admin roles need a registration key.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if err := s.gate.Check(role, input.RegistrationKey); err != nil {
		s.logger.Warn("registration rejected", zap.String("role", string(role)), zap.String("email", input.Email))
		return nil, err
	}

	user, err := s.createUser(ctx, input, role)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateAdmin provisions an admin account without a registration key. Operator use only.
func (s *IdentityService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.createUser(ctx, RegisterInput{Name: name, Email: email, Password: password}, domain.RoleAdmin)
}

func (s *IdentityService) createUser(ctx context.Context, input RegisterInput, role domain.Role) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	studentID := strings.TrimSpace(input.StudentID)

	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		details["email"] = "must be a valid email"
	}
	if err := auth.CheckPassword(input.Password); err != nil {
		details["password"] = err.Error()
	}
	if role == domain.RoleStudent && studentID == "" {
		details["studentId"] = "Student ID is required for student registration"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid registration", details)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("user already exists", map[string]any{"email": email})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if role == domain.RoleStudent {
		if _, err := s.users.GetByStudentID(ctx, studentID); err == nil {
			return nil, apperrors.NewConflict("student ID already registered", map[string]any{"studentId": studentID})
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(input.Department),
		Phone:        strings.TrimSpace(input.Phone),
		Active:       true,
	}
	if role == domain.RoleStudent {
		user.StudentID = &studentID
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("user already exists", map[string]any{"email": email})
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))

	return user, nil
}

// Login authenticates by email and password.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Error("stored password hash unusable", zap.String("user_id", user.ID), zap.Error(err))
		}
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("account is deactivated")
	}
	return s.issue(user)
}

// Me returns the caller's account.
func (s *IdentityService) Me(ctx context.Context, principal auth.Principal) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": principal.ID})
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns accounts, optionally narrowed to one role. Admin only.
func (s *IdentityService) ListUsers(ctx context.Context, principal auth.Principal, role *domain.Role, limit, offset int) ([]domain.User, error) {
	if err := auth.Authorize(principal, auth.ActionManageUsers, nil); err != nil {
		return nil, err
	}
	if role != nil && !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *role})
	}
	return s.users.List(ctx, repository.UserFilter{Role: role, Limit: limit, Offset: offset})
}

// SetActive enables or disables an account. Admin only; admins cannot disable themselves.
func (s *IdentityService) SetActive(ctx context.Context, principal auth.Principal, id string, active bool) (*domain.User, error) {
	if err := auth.Authorize(principal, auth.ActionManageUsers, nil); err != nil {
		return nil, err
	}
	if id == principal.ID && !active {
		return nil, apperrors.NewValidationError("cannot deactivate your own account", nil)
	}
	if err := s.users.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	s.logger.Info("user activation changed", zap.String("user_id", id), zap.Bool("active", active))
	return s.users.GetByID(ctx, id)
}

// TokenManager exposes the token manager for middleware wiring.
func (s *IdentityService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *IdentityService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
