package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"  // user lookups are bounded
	"errors"   // classification of resolver failures
	"log/slog" // logging of unexpected resolver failures
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming
	"time"     // lookup timeout

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iqx/iqx-backend/internal/model"   // authenticated user type
	"github.com/iqx/iqx-backend/internal/service" // not-found error kind
	"github.com/iqx/iqx-backend/internal/utils"   // token failures
)

// UserResolver turns a raw access token into the user it was issued to.
type UserResolver interface {
	ResolveUser(ctx context.Context, accessToken string) (*model.User, error)
}

// BearerAuth returns an Echo middleware that requires an
// "Authorization: Bearer <access token>" header.  A missing, malformed,
// invalid or expired token is answered with 403; a valid token whose user
// no longer exists with 404.  On success the user is stored in the
// context for CurrentUser.  Any other resolver failure is logged and
// answered with a generic 500.
func BearerAuth(resolver UserResolver, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// The scheme is matched case-insensitively, as HTTP auth schemes are.
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, found := strings.Cut(auth, " ")
			raw = strings.TrimSpace(raw)
			if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "not authenticated"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := resolver.ResolveUser(ctx, raw)
			switch {
			case err == nil:
			case errors.Is(err, utils.ErrInvalidToken), errors.Is(err, utils.ErrExpiredToken):
				return c.JSON(http.StatusForbidden, echo.Map{"error": "could not validate credentials"})
			case errors.Is(err, service.ErrUserNotFound):
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			default:
				log.Error("resolve bearer user", slog.String("path", c.Path()), slog.Any("error", err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
			}

			c.Set(userKey, u)
			return next(c)
		}
	}
}
