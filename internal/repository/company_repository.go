package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iqx/iqx-backend/internal/model"
)

// CompanyRepo encapsulates all database queries related to companies.
type CompanyRepo struct {
	db *gorm.DB
}

// NewCompanyRepo constructs a CompanyRepo with the provided DB handle.
func NewCompanyRepo(db *gorm.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create inserts c and populates its ID and timestamps.  A colliding
// symbol, organ_code or isin_code yields ErrDuplicateKey.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) error {
	c.NormalizeOptional()
	return classify(r.db.WithContext(ctx).Create(c).Error)
}

// GetByID fetches a company by its ID, or nil when absent.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint) (*model.Company, error) {
	return r.first(ctx, "id = ?", id)
}

// GetBySymbol fetches a company by its exact symbol, or nil when absent.
func (r *CompanyRepo) GetBySymbol(ctx context.Context, symbol string) (*model.Company, error) {
	return r.first(ctx, "symbol = ?", symbol)
}

// GetByOrganCode fetches a company by its exact organ code, or nil when absent.
func (r *CompanyRepo) GetByOrganCode(ctx context.Context, organCode string) (*model.Company, error) {
	return r.first(ctx, "organ_code = ?", organCode)
}

// Update applies the supplied fields of p to c and writes only the changed
// columns.  Nothing is written when every supplied value equals the
// current one.
func (r *CompanyRepo) Update(ctx context.Context, c *model.Company, p model.CompanyPatch) (*model.Company, error) {
	cols := p.Apply(c)
	if len(cols) == 0 {
		return c, nil
	}
	c.UpdateDate = time.Now().UTC()
	cols = append(cols, "update_date")
	if err := r.db.WithContext(ctx).Model(c).Select(cols).Updates(c).Error; err != nil {
		return nil, classify(err)
	}
	return c, nil
}

// Delete removes a company and returns the deleted snapshot.  A missing id
// returns (nil, nil); the read and the delete share one transaction.
func (r *CompanyRepo) Delete(ctx context.Context, id uint) (*model.Company, error) {
	var deleted *model.Company
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Company
		if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&c).Error; err != nil {
			return err
		}
		deleted = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// List returns one window of companies ordered by id plus the size of the
// whole filtered set.  search matches symbol, organ code, short name or
// full name as a case-insensitive substring.  The count and the window
// use the same predicate so total never disagrees with the items.
func (r *CompanyRepo) List(ctx context.Context, offset, limit int, search string) ([]model.Company, int64, error) {
	filter := searchScope(search)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Company{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]model.Company, 0, limit)
	if err := r.db.WithContext(ctx).
		Scopes(filter).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// searchScope builds the LOWER(...) LIKE filter.  LOWER keeps the match
// case-insensitive on every supported driver, unlike ILIKE.
func searchScope(search string) func(*gorm.DB) *gorm.DB {
	term := strings.ToLower(strings.TrimSpace(search))
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		like := "%" + term + "%"
		return db.Where(
			"LOWER(symbol) LIKE ? OR LOWER(organ_code) LIKE ? OR LOWER(organ_short_name) LIKE ? OR LOWER(organ_name) LIKE ?",
			like, like, like, like,
		)
	}
}

func (r *CompanyRepo) first(ctx context.Context, query string, args ...any) (*model.Company, error) {
	var c model.Company
	if err := r.db.WithContext(ctx).Where(query, args...).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
