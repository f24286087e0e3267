package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"issuedesk/internal/errors"
	"issuedesk/internal/model"
	"issuedesk/internal/policy"
	"issuedesk/internal/repository"
)

// CreateIssueInput carries the user-supplied fields of a new issue.
// AssigneeID is only honored for admin actors (manual override).
type CreateIssueInput struct {
	Title       string
	Description string
	AssigneeID  *uuid.UUID
}

// IssueView bundles an issue with its comments and a flag telling the
// transport whether the viewing actor may comment.
type IssueView struct {
	Issue      *model.Issue
	Comments   []model.Comment
	CanComment bool
}

// IssueService orchestrates the issue lifecycle: creation with
// auto-assignment, role-gated status changes, and role-gated comments.
// Every operation takes the acting principal explicitly; nothing is read
// from ambient state.
type IssueService interface {
	CreateIssue(ctx context.Context, projectID uuid.UUID, actor *model.User, in CreateIssueInput) (*model.Issue, error)
	ChangeStatus(ctx context.Context, issueID uuid.UUID, actor *model.User, newStatus model.Status) (*model.Issue, error)
	AddComment(ctx context.Context, issueID uuid.UUID, actor *model.User, text string) (*model.Comment, int64, error)
	GetIssue(ctx context.Context, id uuid.UUID, actor *model.User) (*IssueView, error)
	ListProjectIssues(ctx context.Context, projectID uuid.UUID) ([]model.Issue, error)
	ListIssues(ctx context.Context) ([]model.Issue, error)
}

type issueService struct {
	issueRepo   repository.IssueRepository
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
	selector    AssignmentSelector
}

// NewIssueService creates a new issue service.
func NewIssueService(
	issueRepo repository.IssueRepository,
	projectRepo repository.ProjectRepository,
	commentRepo repository.CommentRepository,
	selector AssignmentSelector,
) IssueService {
	return &issueService{
		issueRepo:   issueRepo,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		selector:    selector,
	}
}

func actorRole(actor *model.User) model.Role {
	if actor == nil {
		return model.RoleNone
	}
	return actor.Role
}

// CreateIssue persists a new issue in the project with status "todo",
// the actor as author, and an assignee chosen by the selector.
func (s *issueService) CreateIssue(ctx context.Context, projectID uuid.UUID, actor *model.User, in CreateIssueInput) (*model.Issue, error) {
	if !policy.Allows(actorRole(actor), policy.ActionCreateIssue) {
		return nil, errors.ErrForbidden
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.ErrEmptyTitle
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	assigneeID, err := s.selector.Select(ctx, actor, in.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("select assignee: %w", err)
	}

	authorID := actor.ID
	issue := &model.Issue{
		ProjectID:   project.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      model.StatusTodo,
		AssigneeID:  assigneeID,
		AuthorID:    &authorID,
	}
	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	return issue, nil
}

// ChangeStatus overwrites the issue's status when newStatus is one of
// the three workflow states. Out-of-range values are a silent no-op
// returning the unchanged issue: the endpoint accepts them but nothing
// is persisted and no error is surfaced.
func (s *issueService) ChangeStatus(ctx context.Context, issueID uuid.UUID, actor *model.User, newStatus model.Status) (*model.Issue, error) {
	if !policy.Allows(actorRole(actor), policy.ActionChangeStatus) {
		return nil, errors.ErrForbidden
	}

	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrIssueNotFound
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}

	if !newStatus.Valid() {
		return issue, nil
	}

	issue.Status = newStatus
	if err := s.issueRepo.Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("update issue: %w", err)
	}
	return issue, nil
}

// AddComment appends a comment to the issue and returns it with the
// fresh total comment count. Whitespace-only text is a no-op: a nil
// comment with a nil error, letting the transport answer "no content"
// instead of rendering anything.
func (s *issueService) AddComment(ctx context.Context, issueID uuid.UUID, actor *model.User, text string) (*model.Comment, int64, error) {
	if !policy.Allows(actorRole(actor), policy.ActionAddComment) {
		return nil, 0, errors.ErrForbidden
	}

	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, errors.ErrIssueNotFound
		}
		return nil, 0, fmt.Errorf("find issue: %w", err)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, 0, nil
	}

	comment := &model.Comment{
		IssueID:  issue.ID,
		AuthorID: actor.ID,
		Text:     trimmed,
		Author:   *actor,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, 0, fmt.Errorf("create comment: %w", err)
	}

	count, err := s.commentRepo.CountByIssue(ctx, issue.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}
	return comment, count, nil
}

// GetIssue returns the issue with its comments and whether actor may
// comment on it.
func (s *issueService) GetIssue(ctx context.Context, id uuid.UUID, actor *model.User) (*IssueView, error) {
	issue, err := s.issueRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrIssueNotFound
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}

	comments, err := s.commentRepo.ListByIssue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &IssueView{
		Issue:      issue,
		Comments:   comments,
		CanComment: policy.CanComment(actorRole(actor)),
	}, nil
}

// ListProjectIssues returns a project's issues for the list fragment.
func (s *issueService) ListProjectIssues(ctx context.Context, projectID uuid.UUID) ([]model.Issue, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return s.issueRepo.ListByProject(ctx, projectID)
}

// ListIssues returns every issue across all projects, newest first.
func (s *issueService) ListIssues(ctx context.Context) ([]model.Issue, error) {
	return s.issueRepo.List(ctx)
}
