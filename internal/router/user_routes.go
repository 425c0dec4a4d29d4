package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/iqx/iqx-backend/internal/handler"
	"github.com/iqx/iqx-backend/internal/middleware"
)

// RegisterUsers registers endpoints about the authenticated user.
func RegisterUsers(g *echo.Group, resolver middleware.UserResolver, log *slog.Logger) {
	users := g.Group("/users", middleware.BearerAuth(resolver, log))
	users.GET("/me", handler.Me)
}
