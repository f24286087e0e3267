package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issuedesk/internal/model"
)

// CommentRepository defines comment persistence operations. Comments are
// append-only: there is no update or delete path.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByIssue(ctx context.Context, issueID uuid.UUID) ([]model.Comment, error)
	CountByIssue(ctx context.Context, issueID uuid.UUID) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create creates a new comment record.
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByIssue returns an issue's comments with authors resolved, oldest first.
func (r *commentRepository) ListByIssue(ctx context.Context, issueID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("issue_id = ?", issueID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByIssue returns the current number of comments on an issue.
func (r *commentRepository) CountByIssue(ctx context.Context, issueID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("issue_id = ?", issueID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
