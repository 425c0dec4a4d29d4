package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iqx/iqx-backend/internal/model"
	"github.com/iqx/iqx-backend/internal/pagination"
	"github.com/iqx/iqx-backend/internal/repository"
)

// CompanyStore is the persistence behind CompanyService.
type CompanyStore interface {
	Create(ctx context.Context, c *model.Company) error
	GetByID(ctx context.Context, id uint) (*model.Company, error)
	GetBySymbol(ctx context.Context, symbol string) (*model.Company, error)
	GetByOrganCode(ctx context.Context, organCode string) (*model.Company, error)
	Update(ctx context.Context, c *model.Company, p model.CompanyPatch) (*model.Company, error)
	Delete(ctx context.Context, id uint) (*model.Company, error)
	List(ctx context.Context, offset, limit int, search string) ([]model.Company, int64, error)
}

// CompanyService holds the company use cases.
type CompanyService struct {
	companies CompanyStore
}

func NewCompanyService(companies CompanyStore) *CompanyService {
	return &CompanyService{companies: companies}
}

// List returns one page of companies, optionally filtered by search.
func (s *CompanyService) List(ctx context.Context, p pagination.Params) (pagination.Page[model.Company], error) {
	items, total, err := s.companies.List(ctx, p.Offset(), p.Limit(), p.Search)
	if err != nil {
		return pagination.Page[model.Company]{}, fmt.Errorf("service.CompanyService.List: %w", err)
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *CompanyService) Get(ctx context.Context, id uint) (*model.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.CompanyService.Get: %w", err)
	}
	if c == nil {
		return nil, ErrCompanyNotFound
	}
	return c, nil
}

// GetBySymbol looks a company up by its exact symbol.
func (s *CompanyService) GetBySymbol(ctx context.Context, symbol string) (*model.Company, error) {
	c, err := s.companies.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("service.CompanyService.GetBySymbol: %w", err)
	}
	if c == nil {
		return nil, ErrCompanyNotFound
	}
	return c, nil
}

// Create stores a new company.  Symbol and organ code are checked up front
// for a precise message; the unique indexes catch whatever races past.
func (s *CompanyService) Create(ctx context.Context, c *model.Company) (*model.Company, error) {
	const op = "service.CompanyService.Create"

	c.Symbol = strings.TrimSpace(c.Symbol)
	c.OrganCode = strings.TrimSpace(c.OrganCode)
	if c.Symbol == "" || c.OrganCode == "" || strings.TrimSpace(c.OrganShortName) == "" || strings.TrimSpace(c.OrganName) == "" {
		return nil, validationError("symbol, organ_code, organ_short_name and organ_name are required")
	}

	if err := s.ensureSymbolFree(ctx, c.Symbol); err != nil {
		return nil, err
	}
	if err := s.ensureOrganCodeFree(ctx, c.OrganCode); err != nil {
		return nil, err
	}

	if err := s.companies.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateCompany
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Update applies a partial update.  Uniqueness is only re-checked for a
// symbol or organ code that actually changes.
func (s *CompanyService) Update(ctx context.Context, id uint, p model.CompanyPatch) (*model.Company, error) {
	const op = "service.CompanyService.Update"

	if err := validatePatch(&p); err != nil {
		return nil, err
	}

	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if c == nil {
		return nil, ErrCompanyNotFound
	}

	if p.Symbol != nil && *p.Symbol != c.Symbol {
		if err := s.ensureSymbolFree(ctx, *p.Symbol); err != nil {
			return nil, err
		}
	}
	if p.OrganCode != nil && *p.OrganCode != c.OrganCode {
		if err := s.ensureOrganCodeFree(ctx, *p.OrganCode); err != nil {
			return nil, err
		}
	}

	updated, err := s.companies.Update(ctx, c, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateCompany
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete removes a company and returns what was removed.
func (s *CompanyService) Delete(ctx context.Context, id uint) (*model.Company, error) {
	c, err := s.companies.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.CompanyService.Delete: %w", err)
	}
	if c == nil {
		return nil, ErrCompanyNotFound
	}
	return c, nil
}

func (s *CompanyService) ensureSymbolFree(ctx context.Context, symbol string) error {
	existing, err := s.companies.GetBySymbol(ctx, symbol)
	if err != nil {
		return fmt.Errorf("service.CompanyService: lookup symbol: %w", err)
	}
	if existing != nil {
		return ErrDuplicateSymbol
	}
	return nil
}

func (s *CompanyService) ensureOrganCodeFree(ctx context.Context, organCode string) error {
	existing, err := s.companies.GetByOrganCode(ctx, organCode)
	if err != nil {
		return fmt.Errorf("service.CompanyService: lookup organ_code: %w", err)
	}
	if existing != nil {
		return ErrDuplicateOrganCode
	}
	return nil
}

// validatePatch trims the required fields of p and rejects blanking them.
func validatePatch(p *model.CompanyPatch) error {
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"symbol", p.Symbol},
		{"organ_code", p.OrganCode},
		{"organ_short_name", p.OrganShortName},
		{"organ_name", p.OrganName},
	} {
		if f.v == nil {
			continue
		}
		*f.v = strings.TrimSpace(*f.v)
		if *f.v == "" {
			return validationError(f.name + " must not be empty")
		}
	}
	return nil
}
