package handler

import (
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"issuedesk/internal/auth"
	"issuedesk/internal/model"
	"issuedesk/internal/service"
)

// Principal resolves the acting user from the request's JWT claims.
// Every service call takes the resolved *model.User explicitly; handlers
// never pass roles around outside of it.
type Principal struct {
	users service.UserService
}

// NewPrincipal creates a principal resolver.
func NewPrincipal(users service.UserService) *Principal {
	return &Principal{users: users}
}

// Current returns the authenticated user, or nil when the request
// carries no valid token (anonymous actor).
func (p *Principal) Current(c echo.Context) (*model.User, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, nil
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil
	}
	return p.users.GetUser(c.Request().Context(), id)
}

// isHTMX reports whether the request asked for a partial update.
func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
