package router // package router defines how HTTP routes are registered for the API

import (
	"log/slog" // logger handed to handlers and the access log

	"github.com/labstack/echo/v4"                             // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"           // stock Echo middleware (CORS, recover)
	"github.com/prometheus/client_golang/prometheus/promhttp" // /metrics exposition
	"gorm.io/gorm"                                            // database handle for the health check

	"github.com/iqx/iqx-backend/internal/handler"    // HTTP handlers
	"github.com/iqx/iqx-backend/internal/middleware" // bearer auth, access log, metrics
	"github.com/iqx/iqx-backend/internal/service"    // use cases behind the handlers
)

// APIPrefix is the mount point of every versioned endpoint.
const APIPrefix = "/api/v1"

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	DB          *gorm.DB
	Auth        *service.AuthService
	Companies   *service.CompanyService
	Log         *slog.Logger
	CORSOrigins []string
}

// New builds the Echo instance with middleware and every route mounted.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	// Recover sits inside the logger so panics are logged as 500s.
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.Recover())
	e.Use(middleware.Metrics())
	// CORS is only enabled when origins are configured.
	if len(d.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     d.CORSOrigins,
			AllowCredentials: true,
			AllowMethods:     []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE, echo.OPTIONS},
			AllowHeaders:     []string{"*"},
		}))
	}

	RegisterRoutes(e, d.DB)
	api := e.Group(APIPrefix)
	RegisterAuth(api, handler.NewAuthHandler(d.Auth, d.Log))
	RegisterUsers(api, d.Auth, d.Log)
	RegisterCompanies(api, handler.NewCompanyHandler(d.Companies, d.Log), d.Auth, d.Log)
	return e
}

// RegisterRoutes registers routes that do not require authentication and
// live outside the versioned API: the health check and Prometheus metrics.
func RegisterRoutes(e *echo.Echo, db *gorm.DB) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the session endpoints.  None of them require an
// existing session: register, login and refresh-token.
func RegisterAuth(g *echo.Group, a *handler.AuthHandler) {
	auth := g.Group("/auth")
	auth.POST("/register", a.Register)
	auth.POST("/login", a.Login)
	auth.POST("/refresh-token", a.RefreshToken)
}
