package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issuedesk/internal/model"
)

// IssueRepository defines issue persistence operations.
type IssueRepository interface {
	Create(ctx context.Context, issue *model.Issue) error
	Update(ctx context.Context, issue *model.Issue) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Issue, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Issue, error)
	List(ctx context.Context) ([]model.Issue, error)
}

type issueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new issue repository.
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepository{db: db}
}

// Create creates a new issue record.
func (r *issueRepository) Create(ctx context.Context, issue *model.Issue) error {
	return r.db.WithContext(ctx).Create(issue).Error
}

// Update saves an existing issue, refreshing its updated_at timestamp.
func (r *issueRepository) Update(ctx context.Context, issue *model.Issue) error {
	return r.db.WithContext(ctx).Save(issue).Error
}

// FindByID finds an issue by ID with author and assignee resolved.
func (r *issueRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Issue, error) {
	var issue model.Issue
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Assignee").
		Where("id = ?", id).First(&issue).Error
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListByProject returns a project's issues with authors, assignees and
// nested comments resolved.
func (r *issueRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Issue, error) {
	var issues []model.Issue
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Assignee").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Author").
		Where("project_id = ?", projectID).
		Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}

// List returns all issues across projects, newest first.
func (r *issueRepository) List(ctx context.Context) ([]model.Issue, error) {
	var issues []model.Issue
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Assignee").
		Order("created_at DESC").
		Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}
