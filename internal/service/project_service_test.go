package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"issuedesk/internal/errors"
	"issuedesk/internal/model"
)

func newProjectServiceWithMocks() (ProjectService, *MockProjectRepository, *MockIssueRepository) {
	projectRepo := new(MockProjectRepository)
	issueRepo := new(MockIssueRepository)
	// nil cache client is fail-safe: every call degrades to a miss.
	svc := NewProjectService(projectRepo, issueRepo, nil)
	return svc, projectRepo, issueRepo
}

func TestCreateProjectAsAdmin(t *testing.T) {
	svc, projectRepo, _ := newProjectServiceWithMocks()
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	projectRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Project")).Return(nil)

	project, err := svc.CreateProject(context.Background(), admin, "Infra", "cluster work")

	assert.NoError(t, err)
	assert.Equal(t, "Infra", project.Name)
	projectRepo.AssertExpectations(t)
}

func TestCreateProjectDeniedForNonAdmins(t *testing.T) {
	tests := []struct {
		name  string
		actor *model.User
	}{
		{"reporter", &model.User{ID: uuid.New(), Role: model.RoleReporter}},
		{"assignee", &model.User{ID: uuid.New(), Role: model.RoleAssignee}},
		{"anonymous", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, projectRepo, _ := newProjectServiceWithMocks()

			_, err := svc.CreateProject(context.Background(), tt.actor, "Infra", "")

			assert.ErrorIs(t, err, errors.ErrForbidden)
			projectRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateProjectBlankName(t *testing.T) {
	svc, projectRepo, _ := newProjectServiceWithMocks()
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	_, err := svc.CreateProject(context.Background(), admin, "  ", "")

	assert.ErrorIs(t, err, errors.ErrEmptyName)
	projectRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListProjectsNewestFirst(t *testing.T) {
	svc, projectRepo, _ := newProjectServiceWithMocks()
	now := time.Now()
	projectRepo.On("List", mock.Anything).Return([]model.Project{
		{ID: uuid.New(), Name: "newer", CreatedAt: now},
		{ID: uuid.New(), Name: "older", CreatedAt: now.Add(-time.Hour)},
	}, nil)

	projects, err := svc.ListProjects(context.Background())

	assert.NoError(t, err)
	assert.Len(t, projects, 2)
	assert.Equal(t, "newer", projects[0].Name)
}

func TestGetProjectWithIssues(t *testing.T) {
	svc, projectRepo, issueRepo := newProjectServiceWithMocks()
	projectID := uuid.New()

	projectRepo.On("FindByID", mock.Anything, projectID).Return(&model.Project{ID: projectID, Name: "Acme"}, nil)
	issueRepo.On("ListByProject", mock.Anything, projectID).Return([]model.Issue{}, nil)

	view, err := svc.GetProject(context.Background(), projectID)

	assert.NoError(t, err)
	assert.Equal(t, "Acme", view.Project.Name)
	assert.Empty(t, view.Issues)
}

func TestGetProjectNotFound(t *testing.T) {
	svc, projectRepo, _ := newProjectServiceWithMocks()
	projectID := uuid.New()
	projectRepo.On("FindByID", mock.Anything, projectID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetProject(context.Background(), projectID)

	assert.ErrorIs(t, err, errors.ErrProjectNotFound)
}
