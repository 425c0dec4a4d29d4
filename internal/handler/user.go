package handler // handler defines the HTTP handlers of the API

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // echo context

	"github.com/iqx/iqx-backend/internal/middleware" // authenticated user lookup
)

// Me returns the user resolved by the bearer middleware.
func Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, newUserResp(u))
}
