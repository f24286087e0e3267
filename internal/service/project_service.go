package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issuedesk/internal/cache"
	"issuedesk/internal/errors"
	"issuedesk/internal/model"
	"issuedesk/internal/policy"
	"issuedesk/internal/repository"
)

const (
	projectListCacheKey = "projects:list"
	projectListCacheTTL = 30 * time.Second
)

// ProjectView bundles a project with its issues (comments nested).
type ProjectView struct {
	Project *model.Project
	Issues  []model.Issue
}

// ProjectService handles project operations.
type ProjectService interface {
	CreateProject(ctx context.Context, actor *model.User, name, description string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*ProjectView, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	issueRepo   repository.IssueRepository
	cache       *cache.Client
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo repository.ProjectRepository, issueRepo repository.IssueRepository, cache *cache.Client) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		issueRepo:   issueRepo,
		cache:       cache,
	}
}

// CreateProject persists a new project. Admin only.
func (s *projectService) CreateProject(ctx context.Context, actor *model.User, name, description string) (*model.Project, error) {
	if actor == nil || !policy.Allows(actor.Role, policy.ActionCreateProject) {
		return nil, errors.ErrForbidden
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.ErrEmptyName
	}

	project := &model.Project{
		Name:        strings.TrimSpace(name),
		Description: description,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	_ = s.cache.Delete(ctx, projectListCacheKey)
	return project, nil
}

// ListProjects returns all projects newest first, with a short-lived
// cache in front of the query.
func (s *projectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	if data, _ := s.cache.Get(ctx, projectListCacheKey); data != nil {
		var cached []model.Project
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(projects); err == nil {
		_ = s.cache.Set(ctx, projectListCacheKey, payload, projectListCacheTTL)
	}
	return projects, nil
}

// GetProject returns a project together with its issues and their
// nested comments.
func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*ProjectView, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	issues, err := s.issueRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	return &ProjectView{Project: project, Issues: issues}, nil
}
