package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"issuedesk/internal/errors"
	"issuedesk/internal/model"
	"issuedesk/internal/service"
	"issuedesk/internal/view"
)

// IssueHandler handles the issue lifecycle endpoints.
type IssueHandler struct {
	issueService service.IssueService
	userService  service.UserService
	principal    *Principal
}

// NewIssueHandler creates a new issue handler.
func NewIssueHandler(issueService service.IssueService, userService service.UserService, principal *Principal) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
		userService:  userService,
		principal:    principal,
	}
}

// CreateIssueRequest represents an issue creation request. AssigneeID is
// the admin's manual-override pick; everyone else gets auto-assignment.
type CreateIssueRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	AssigneeID  string `json:"assignee_id,omitempty" form:"assignee_id"`
}

// ChangeStatusRequest represents a status change request.
type ChangeStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
}

// AddCommentRequest represents a comment creation request.
type AddCommentRequest struct {
	Content string `json:"content" form:"content"`
}

// issueFormData feeds the issue_form fragment.
type issueFormData struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	Error       string
	Assignees   interface{}
}

// GetIssue godoc
// @Summary Get an issue with comments and the viewer's comment flag
// @Tags issues
// @Produce json
// @Param id path string true "Issue ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /issues/{id} [get]
func (h *IssueHandler) GetIssue(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid issue id",
			Code:  "INVALID_UUID",
		})
	}

	actor, err := h.principal.Current(c)
	if err != nil {
		actor = nil // unresolved principal views as anonymous
	}

	iv, err := h.issueService.GetIssue(c.Request().Context(), id, actor)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"issue":       iv.Issue,
		"comments":    iv.Comments,
		"can_comment": iv.CanComment,
	})
}

// ListProjectIssues godoc
// @Summary List a project's issues (HTMX fragment or JSON)
// @Tags issues
// @Produce json
// @Produce html
// @Param id path string true "Project ID"
// @Success 200 {array} model.Issue
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id}/issues [get]
func (h *IssueHandler) ListProjectIssues(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid project id",
			Code:  "INVALID_UUID",
		})
	}

	issues, err := h.issueService.ListProjectIssues(c.Request().Context(), projectID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if isHTMX(c) {
		return h.renderFragment(c, http.StatusOK, "issue_list.html", map[string]interface{}{
			"RefreshURL": "/projects/" + projectID.String() + "/issues",
			"Issues":     issues,
		})
	}
	return c.JSON(http.StatusOK, issues)
}

// ListIssues godoc
// @Summary List all issues across projects, newest first (HTMX fragment or JSON)
// @Tags issues
// @Produce json
// @Produce html
// @Success 200 {array} model.Issue
// @Router /issues [get]
func (h *IssueHandler) ListIssues(c echo.Context) error {
	issues, err := h.issueService.ListIssues(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if isHTMX(c) {
		return h.renderFragment(c, http.StatusOK, "issue_list.html", map[string]interface{}{
			"RefreshURL": "/issues",
			"Issues":     issues,
		})
	}
	return c.JSON(http.StatusOK, issues)
}

// CreateIssue godoc
// @Summary Create an issue in a project
// @Tags issues
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Produce html
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body CreateIssueRequest true "Issue data"
// @Success 201 {object} model.Issue
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /projects/{id}/issues [post]
func (h *IssueHandler) CreateIssue(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid project id",
			Code:  "INVALID_UUID",
		})
	}

	var req CreateIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actor, err := h.principal.Current(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	in := service.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.AssigneeID != "" {
		if aid, err := uuid.Parse(req.AssigneeID); err == nil {
			in.AssigneeID = &aid
		}
	}

	issue, err := h.issueService.CreateIssue(c.Request().Context(), projectID, actor, in)
	if err != nil {
		if err == errors.ErrEmptyTitle && isHTMX(c) {
			// Redisplay the form with a field-level error marker; the
			// submission is not persisted.
			return h.renderIssueForm(c, http.StatusOK, projectID, actor, issueFormData{
				Title:       req.Title,
				Description: req.Description,
				Error:       err.Error(),
			})
		}
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if isHTMX(c) {
		// A clean form comes back; the issue list refreshes itself via
		// the issueCreated trigger, decoupled from this response.
		c.Response().Header().Set("HX-Trigger", "issueCreated")
		return h.renderIssueForm(c, http.StatusOK, projectID, actor, issueFormData{})
	}
	if c.Request().Header.Get(echo.HeaderContentType) == echo.MIMEApplicationForm {
		return c.Redirect(http.StatusSeeOther, "/projects/"+projectID.String())
	}
	return c.JSON(http.StatusCreated, issue)
}

// ChangeStatus godoc
// @Summary Change an issue's status (admin or assignee)
// @Tags issues
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Produce html
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Param request body ChangeStatusRequest true "New status"
// @Success 200 {object} model.Issue
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /issues/{id}/status [post]
func (h *IssueHandler) ChangeStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid issue id",
			Code:  "INVALID_UUID",
		})
	}

	var req ChangeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actor, err := h.principal.Current(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	issue, err := h.issueService.ChangeStatus(c.Request().Context(), id, actor, model.Status(req.Status))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if isHTMX(c) {
		return h.renderFragment(c, http.StatusOK, "status_badge.html", issue)
	}
	if c.Request().Header.Get(echo.HeaderContentType) == echo.MIMEApplicationForm {
		return c.Redirect(http.StatusSeeOther, "/issues/"+id.String())
	}
	return c.JSON(http.StatusOK, issue)
}

// AddComment godoc
// @Summary Add a comment to an issue (admin or assignee)
// @Tags issues
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Produce html
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Param request body AddCommentRequest true "Comment text"
// @Success 201 {object} model.Comment
// @Success 204 "blank text, nothing created"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /issues/{id}/comments [post]
func (h *IssueHandler) AddComment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid issue id",
			Code:  "INVALID_UUID",
		})
	}

	var req AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actor, err := h.principal.Current(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	comment, count, err := h.issueService.AddComment(c.Request().Context(), id, actor, req.Content)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	// Blank text: nothing happened. HTMX and API callers get 204; a
	// plain form post falls back to the redirect below.
	if comment == nil {
		if c.Request().Header.Get(echo.HeaderContentType) == echo.MIMEApplicationForm && !isHTMX(c) {
			return c.Redirect(http.StatusSeeOther, "/issues/"+id.String())
		}
		return c.NoContent(http.StatusNoContent)
	}

	if isHTMX(c) {
		return h.renderFragment(c, http.StatusOK, "comment_item.html", map[string]interface{}{
			"Comment": comment,
			"Count":   count,
		})
	}
	if c.Request().Header.Get(echo.HeaderContentType) == echo.MIMEApplicationForm {
		return c.Redirect(http.StatusSeeOther, "/issues/"+id.String())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"comment":       comment,
		"comment_count": count,
	})
}

// renderIssueForm renders the issue-creation form fragment, with the
// assignee picker when the actor is an admin.
func (h *IssueHandler) renderIssueForm(c echo.Context, code int, projectID uuid.UUID, actor *model.User, data issueFormData) error {
	data.ProjectID = projectID
	if actor != nil && actor.Role == model.RoleAdmin {
		if assignees, err := h.userService.ListAssignees(c.Request().Context()); err == nil {
			data.Assignees = assignees
		}
	}
	return h.renderFragment(c, code, "issue_form.html", data)
}

func (h *IssueHandler) renderFragment(c echo.Context, code int, name string, data interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return view.Render(c.Response(), name, data)
}
