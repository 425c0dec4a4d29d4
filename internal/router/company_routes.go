package router // router defines how HTTP routes are registered for the API

import (
	"log/slog" // logger for the bearer middleware

	"github.com/labstack/echo/v4"

	"github.com/iqx/iqx-backend/internal/handler"    // company handlers
	"github.com/iqx/iqx-backend/internal/middleware" // bearer auth for mutations
)

// RegisterCompanies registers the company catalogue.  Reads are public;
// create, update and delete require a bearer token.
func RegisterCompanies(g *echo.Group, h *handler.CompanyHandler, resolver middleware.UserResolver, log *slog.Logger) {
	companies := g.Group("/companies")

	// ---- Reads ----
	companies.GET("", h.List)
	companies.GET("/symbol/:symbol", h.GetBySymbol)
	companies.GET("/:id", h.Get)

	// ---- Mutations ----
	auth := middleware.BearerAuth(resolver, log)
	companies.POST("", h.Create, auth)
	companies.PUT("/:id", h.Update, auth)
	companies.DELETE("/:id", h.Delete, auth)
}
