package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issuedesk/internal/cache"
	"issuedesk/internal/errors"
	"issuedesk/internal/model"
	"issuedesk/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user lookups for principal resolution and for the
// admin issue form's assignee picker.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListAssignees(ctx context.Context) ([]repository.AssigneeLoad, error)
	SetRole(ctx context.Context, actor *model.User, id uuid.UUID, role model.Role) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// GetUser retrieves a user by ID with caching.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// ListUsers lists all users.
func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// ListAssignees lists active assignee-role users with their current
// loads, for the admin's manual-override picker.
func (s *userService) ListAssignees(ctx context.Context) ([]repository.AssigneeLoad, error) {
	return s.repo.ListAssigneeLoads(ctx)
}

// SetRole updates a user's role. Admin only; superusers always stay
// admin regardless of the requested role.
func (s *userService) SetRole(ctx context.Context, actor *model.User, id uuid.UUID, role model.Role) (*model.User, error) {
	if actor == nil || actor.Role != model.RoleAdmin {
		return nil, errors.ErrForbidden
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}
