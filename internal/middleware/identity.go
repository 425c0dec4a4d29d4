package middleware

// identity.go holds the context accessors shared by handlers and other
// middleware for the authenticated user.

import (
	"github.com/labstack/echo/v4"

	"github.com/iqx/iqx-backend/internal/model"
)

const userKey = "user"

// CurrentUser returns the user stored by BearerAuth.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(userKey).(*model.User)
	return u, ok && u != nil
}

// userID returns the authenticated user's id for logs, or "guest".
func userID(c echo.Context) string {
	if u, ok := CurrentUser(c); ok {
		return u.ID.String()
	}
	return "guest"
}
