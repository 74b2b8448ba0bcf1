// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

// NewUsers seeds the repository with users.
func NewUsers(users ...*domain.User) *Users {
	repo := &Users{users: map[string]*domain.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *Users) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *Users) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Active = active
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) GetByStudentID(_ context.Context, studentID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.StudentID != nil && *u.StudentID == studentID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) GetByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			copied := *u
			out[id] = &copied
		}
	}
	return out, nil
}

func (r *Users) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Users) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// Complaints is an in-memory repository.ComplaintRepository.
// CreatedAt advances one minute per insert so ordering is deterministic.
type Complaints struct {
	mu         sync.Mutex
	complaints map[string]*domain.Complaint
	seq        time.Time
}

// NewComplaints returns an empty repository.
func NewComplaints() *Complaints {
	return &Complaints{
		complaints: map[string]*domain.Complaint{},
		seq:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *Complaints) Create(_ context.Context, c *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq = r.seq.Add(time.Minute)
	c.ID = uuid.NewString()
	c.CreatedAt = r.seq
	c.UpdatedAt = r.seq
	copied := *c
	r.complaints[c.ID] = &copied
	return nil
}

func (r *Complaints) Update(_ context.Context, c *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.complaints[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Status = c.Status
	existing.Feedback = c.Feedback
	existing.Priority = c.Priority
	existing.AssignedTo = c.AssignedTo
	existing.ResolvedAt = c.ResolvedAt
	existing.UpdatedAt = time.Now()
	c.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *Complaints) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *Complaints) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Complaint{}
	for _, c := range r.complaints {
		if filter.StudentID != nil && c.StudentID != *filter.StudentID {
			continue
		}
		if filter.AssignedTo != nil && !c.IsAssignedTo(*filter.AssignedTo) {
			continue
		}
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, c.Status) {
			continue
		}
		if len(filter.Categories) > 0 && !contains(filter.Categories, c.Category) {
			continue
		}
		if len(filter.Priorities) > 0 && !contains(filter.Priorities, c.Priority) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []domain.Complaint{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *Complaints) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.complaints, id)
	return nil
}

// Count returns the number of stored complaints.
func (r *Complaints) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.complaints)
}

func contains[T comparable](list []T, s T) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

var (
	_ repository.UserRepository      = (*Users)(nil)
	_ repository.ComplaintRepository = (*Complaints)(nil)
)
