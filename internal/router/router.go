package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"issuedesk/internal/auth"
	"issuedesk/internal/config"
	"issuedesk/internal/handler"
)

// tokenLookup accepts the Authorization header for API clients and the
// access_token cookie for browser navigation.
const tokenLookup = "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:access_token"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	issueHandler *handler.IssueHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	claimsFunc := func(c echo.Context) jwt.Claims { return new(auth.Claims) }

	// Read routes: anonymous access is allowed, but a valid token is
	// still resolved so per-viewer flags (can_comment) come out right.
	optionalAuth := echojwt.WithConfig(echojwt.Config{
		SigningKey:             []byte(cfg.JWTSecret),
		TokenLookup:            tokenLookup,
		NewClaimsFunc:          claimsFunc,
		ContinueOnIgnoredError: true,
		ErrorHandler:           func(c echo.Context, err error) error { return nil },
	})

	e.GET("/projects", projectHandler.ListProjects, optionalAuth)
	e.GET("/projects/:id", projectHandler.GetProject, optionalAuth)
	e.GET("/projects/:id/issues", issueHandler.ListProjectIssues, optionalAuth)
	e.GET("/issues", issueHandler.ListIssues, optionalAuth)
	e.GET("/issues/:id", issueHandler.GetIssue, optionalAuth)

	// Secured routes: anonymous mutations are rejected before any
	// handler runs (the redirect-to-auth outcome for browsers).
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(cfg.JWTSecret),
		TokenLookup:   tokenLookup,
		NewClaimsFunc: claimsFunc,
	}))

	secured.POST("/projects", projectHandler.CreateProject)
	secured.POST("/projects/:id/issues", issueHandler.CreateIssue)
	secured.POST("/issues/:id/status", issueHandler.ChangeStatus)
	secured.POST("/issues/:id/comments", issueHandler.AddComment)

	// User administration
	secured.GET("/users", userHandler.ListUsers)
	secured.POST("/users/:id/role", userHandler.SetRole)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
