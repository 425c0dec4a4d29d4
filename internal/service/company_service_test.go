package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqx/iqx-backend/internal/database/dbtest"
	"github.com/iqx/iqx-backend/internal/model"
	"github.com/iqx/iqx-backend/internal/pagination"
	"github.com/iqx/iqx-backend/internal/repository"
)

func newCompanyService(t *testing.T) *CompanyService {
	t.Helper()
	return NewCompanyService(repository.NewCompanyRepo(dbtest.New(t)))
}

func strPtr(s string) *string { return &s }

func newCompany(symbol, organCode, name string) *model.Company {
	return &model.Company{
		Symbol:         symbol,
		OrganCode:      organCode,
		OrganShortName: name,
		OrganName:      name + " Joint Stock Company",
	}
}

func TestCreateCompanyAssignsIdentity(t *testing.T) {
	svc := newCompanyService(t)
	c, err := svc.Create(context.Background(), newCompany("FPT", "FPTCORP", "FPT Corp"))
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.False(t, c.CreateDate.IsZero())

	got, err := svc.GetBySymbol(context.Background(), "FPT")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestCreateCompanyRejectsDuplicates(t *testing.T) {
	svc := newCompanyService(t)
	_, err := svc.Create(context.Background(), newCompany("VNM", "VINAMILK", "Vinamilk"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), newCompany("VNM", "OTHER", "Other"))
	assert.ErrorIs(t, err, ErrDuplicateSymbol)

	_, err = svc.Create(context.Background(), newCompany("VNX", "VINAMILK", "Other"))
	assert.ErrorIs(t, err, ErrDuplicateOrganCode)
}

func TestCreateCompanyDuplicateIsinCaughtByIndex(t *testing.T) {
	svc := newCompanyService(t)
	a := newCompany("AAA", "AAACODE", "A")
	a.IsinCode = strPtr("VN000000AAA1")
	_, err := svc.Create(context.Background(), a)
	require.NoError(t, err)

	b := newCompany("BBB", "BBBCODE", "B")
	b.IsinCode = strPtr("VN000000AAA1")
	_, err = svc.Create(context.Background(), b)
	assert.ErrorIs(t, err, ErrDuplicateCompany)
}

func TestCreateCompanyValidatesRequiredFields(t *testing.T) {
	svc := newCompanyService(t)
	_, err := svc.Create(context.Background(), newCompany(" ", "CODE", "Name"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetCompanyNotFound(t *testing.T) {
	svc := newCompanyService(t)
	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
	_, err = svc.GetBySymbol(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCompanyPartial(t *testing.T) {
	svc := newCompanyService(t)
	c := newCompany("HPG", "HOAPHAT", "Hoa Phat")
	c.IcbCode = strPtr("1757")
	c, err := svc.Create(context.Background(), c)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), c.ID, model.CompanyPatch{
		OrganShortName: strPtr("Hoa Phat Group"),
		IcbCode:        strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hoa Phat Group", updated.OrganShortName)
	assert.Nil(t, updated.IcbCode)
	assert.Equal(t, "HPG", updated.Symbol)

	got, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hoa Phat Group", got.OrganShortName)
	assert.Nil(t, got.IcbCode)
	assert.Equal(t, "Hoa Phat Joint Stock Company", got.OrganName)
}

func TestUpdateCompanyToOwnKeysSucceeds(t *testing.T) {
	svc := newCompanyService(t)
	c, err := svc.Create(context.Background(), newCompany("MWG", "MOBILEWORLD", "Mobile World"))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), c.ID, model.CompanyPatch{
		Symbol:    strPtr("MWG"),
		OrganCode: strPtr("MOBILEWORLD"),
	})
	assert.NoError(t, err)
}

func TestUpdateCompanyRejectsTakenKeys(t *testing.T) {
	svc := newCompanyService(t)
	_, err := svc.Create(context.Background(), newCompany("SSI", "SSICODE", "SSI"))
	require.NoError(t, err)
	c, err := svc.Create(context.Background(), newCompany("VND", "VNDCODE", "VNDirect"))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), c.ID, model.CompanyPatch{Symbol: strPtr("SSI")})
	assert.ErrorIs(t, err, ErrDuplicateSymbol)

	_, err = svc.Update(context.Background(), c.ID, model.CompanyPatch{OrganCode: strPtr("SSICODE")})
	assert.ErrorIs(t, err, ErrDuplicateOrganCode)

	_, err = svc.Update(context.Background(), c.ID, model.CompanyPatch{OrganName: strPtr("  ")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(context.Background(), 9999, model.CompanyPatch{OrganName: strPtr("x")})
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestDeleteCompanyReturnsSnapshot(t *testing.T) {
	svc := newCompanyService(t)
	c, err := svc.Create(context.Background(), newCompany("VIC", "VINGROUP", "Vingroup"))
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "VIC", deleted.Symbol)

	_, err = svc.Delete(context.Background(), c.ID)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
	_, err = svc.Get(context.Background(), c.ID)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestListCompaniesPages(t *testing.T) {
	svc := newCompanyService(t)
	for _, sym := range []string{"AAA", "BBB", "CCC", "DDD", "EEE"} {
		_, err := svc.Create(context.Background(), newCompany(sym, sym+"CODE", sym+" Bank"))
		require.NoError(t, err)
	}

	p, err := pagination.New(2, 2, "")
	require.NoError(t, err)
	page, err := svc.List(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "CCC", page.Items[0].Symbol)

	p, err = pagination.New(1, 10, "bbb")
	require.NoError(t, err)
	page, err = svc.List(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "BBB", page.Items[0].Symbol)
}
