package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"issuedesk/internal/auth"
	"issuedesk/internal/model"
	"issuedesk/internal/repository"
	"issuedesk/internal/service"
)

type MockIssueService struct {
	mock.Mock
}

func (m *MockIssueService) CreateIssue(ctx context.Context, projectID uuid.UUID, actor *model.User, in service.CreateIssueInput) (*model.Issue, error) {
	args := m.Called(ctx, projectID, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

func (m *MockIssueService) ChangeStatus(ctx context.Context, issueID uuid.UUID, actor *model.User, newStatus model.Status) (*model.Issue, error) {
	args := m.Called(ctx, issueID, actor, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

func (m *MockIssueService) AddComment(ctx context.Context, issueID uuid.UUID, actor *model.User, text string) (*model.Comment, int64, error) {
	args := m.Called(ctx, issueID, actor, text)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*model.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockIssueService) GetIssue(ctx context.Context, id uuid.UUID, actor *model.User) (*service.IssueView, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IssueView), args.Error(1)
}

func (m *MockIssueService) ListProjectIssues(ctx context.Context, projectID uuid.UUID) ([]model.Issue, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Issue), args.Error(1)
}

func (m *MockIssueService) ListIssues(ctx context.Context) ([]model.Issue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Issue), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) ListAssignees(ctx context.Context) ([]repository.AssigneeLoad, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AssigneeLoad), args.Error(1)
}

func (m *MockUserService) SetRole(ctx context.Context, actor *model.User, id uuid.UUID, role model.Role) (*model.User, error) {
	args := m.Called(ctx, actor, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newIssueHandlerWithMocks() (*IssueHandler, *MockIssueService, *MockUserService) {
	issueSvc := new(MockIssueService)
	userSvc := new(MockUserService)
	h := NewIssueHandler(issueSvc, userSvc, NewPrincipal(userSvc))
	return h, issueSvc, userSvc
}

// commentContext builds a form-encoded comment post as a logged-in
// assignee, with or without the HTMX request header.
func commentContext(t *testing.T, e *echo.Echo, userSvc *MockUserService, issueID uuid.UUID, body string, htmx bool) (echo.Context, *httptest.ResponseRecorder, *model.User) {
	t.Helper()

	actor := &model.User{ID: uuid.New(), Username: "bob", Role: model.RoleAssignee, Active: true}
	userSvc.On("GetUser", mock.Anything, actor.ID).Return(actor, nil)

	req := httptest.NewRequest(http.MethodPost, "/issues/"+issueID.String()+"/comments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/issues/:id/comments")
	c.SetParamNames("id")
	c.SetParamValues(issueID.String())
	c.Set("user", &jwt.Token{Claims: &auth.Claims{UserID: actor.ID.String()}})
	return c, rec, actor
}

func TestAddCommentBlankFormPostRedirectsToIssue(t *testing.T) {
	e := echo.New()
	h, issueSvc, userSvc := newIssueHandlerWithMocks()
	issueID := uuid.New()

	c, rec, actor := commentContext(t, e, userSvc, issueID, "content=++", false)
	issueSvc.On("AddComment", mock.Anything, issueID, actor, "  ").Return(nil, int64(0), nil)

	err := h.AddComment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/issues/"+issueID.String(), rec.Header().Get(echo.HeaderLocation))
}

func TestAddCommentBlankHTMXReturnsNoContent(t *testing.T) {
	e := echo.New()
	h, issueSvc, userSvc := newIssueHandlerWithMocks()
	issueID := uuid.New()

	c, rec, actor := commentContext(t, e, userSvc, issueID, "content=++", true)
	issueSvc.On("AddComment", mock.Anything, issueID, actor, "  ").Return(nil, int64(0), nil)

	err := h.AddComment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
}

func TestListIssuesRendersFragmentForHTMX(t *testing.T) {
	e := echo.New()
	h, issueSvc, _ := newIssueHandlerWithMocks()

	issueSvc.On("ListIssues", mock.Anything).Return([]model.Issue{
		{ID: uuid.New(), Title: "Newest", Status: model.StatusTodo},
		{ID: uuid.New(), Title: "Oldest", Status: model.StatusDone},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/issues", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListIssues(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Contains(t, rec.Body.String(), `hx-get="/issues"`)
	assert.Contains(t, rec.Body.String(), "Newest")
	assert.Contains(t, rec.Body.String(), "Oldest")
}

func TestListIssuesReturnsJSONWithoutHTMX(t *testing.T) {
	e := echo.New()
	h, issueSvc, _ := newIssueHandlerWithMocks()

	issueSvc.On("ListIssues", mock.Anything).Return([]model.Issue{
		{ID: uuid.New(), Title: "Only one", Status: model.StatusInProgress},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/issues", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListIssues(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
	assert.Contains(t, rec.Body.String(), "Only one")
}
