package handler // handler defines the HTTP handlers of the API

import (
	"context"  // provides context with cancellation for service calls
	"log/slog" // structured logging
	"net/http" // HTTP status codes
	"strconv"  // path id parsing
	"time"     // timeouts for service calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iqx/iqx-backend/internal/pagination" // page parameters and envelope
	"github.com/iqx/iqx-backend/internal/service"    // company use cases
)

// CompanyHandler serves the company catalogue.
type CompanyHandler struct {
	Companies *service.CompanyService
	Log       *slog.Logger
}

func NewCompanyHandler(companies *service.CompanyService, log *slog.Logger) *CompanyHandler {
	return &CompanyHandler{Companies: companies, Log: log.With(slog.String("op", "handler.CompanyHandler"))}
}

// List returns one page of companies.  Query: page, page_size, search.
func (h *CompanyHandler) List(c echo.Context) error {
	p, err := pagination.FromQuery(c.QueryParam("page"), c.QueryParam("page_size"), c.QueryParam("search"))
	if err != nil {
		return writeError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	page, err := h.Companies.List(ctx, p)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, pagination.Map(page, newCompanyResp))
}

// GetBySymbol looks a company up by its exact ticker symbol.
func (h *CompanyHandler) GetBySymbol(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co, err := h.Companies.GetBySymbol(ctx, c.Param("symbol"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newCompanyResp(*co))
}

// Get returns a company by id.
func (h *CompanyHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co, err := h.Companies.Get(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newCompanyResp(*co))
}

// Create stores a new company and answers 201.
func (h *CompanyHandler) Create(c echo.Context) error {
	var req companyCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co, err := h.Companies.Create(ctx, req.toModel())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, newCompanyResp(*co))
}

// Update applies the fields present in the body and leaves the rest.
func (h *CompanyHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req companyUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co, err := h.Companies.Update(ctx, id, req.toPatch())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newCompanyResp(*co))
}

// Delete removes a company and returns the deleted record.
func (h *CompanyHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co, err := h.Companies.Delete(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, newCompanyResp(*co))
}

// parseID reads the :id path parameter as a positive integer.
func parseID(c echo.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
