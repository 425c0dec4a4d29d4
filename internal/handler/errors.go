package handler // handler defines the HTTP handlers of the API

import (
	"errors"   // errors.Is / errors.As classification
	"log/slog" // logging of unexpected failures
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // echo context for writing responses

	"github.com/iqx/iqx-backend/internal/pagination" // invalid paging parameters
	"github.com/iqx/iqx-backend/internal/service"    // service error kinds
	"github.com/iqx/iqx-backend/internal/utils"      // token failures
)

// writeError maps err onto a status code and a JSON body of the form
// {"error": message}.  Anything unrecognised is logged and answered with
// a generic 500.
func writeError(c echo.Context, log *slog.Logger, err error) error {
	var vf *validationFailure
	var se *service.Error
	switch {
	case errors.As(err, &vf):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": vf.Error()})
	case errors.Is(err, pagination.ErrInvalidPage), errors.Is(err, pagination.ErrInvalidPageSize):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrInactiveAccount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": service.ErrInactiveAccount.Error()})
	case errors.Is(err, utils.ErrInvalidToken), errors.Is(err, utils.ErrExpiredToken):
		// Same message for both so clients cannot probe token state.
		return c.JSON(http.StatusForbidden, echo.Map{"error": "could not validate credentials"})
	case errors.As(err, &se) && errors.Is(se.Kind, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": se.Msg})
	case errors.As(err, &se) && (errors.Is(se.Kind, service.ErrDuplicate) || errors.Is(se.Kind, service.ErrValidation)):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": se.Msg})
	}

	log.Error("request failed",
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
