package handler // handler defines the HTTP handlers of the API

import (
	"time" // time stamps in responses

	"github.com/iqx/iqx-backend/internal/model"   // persisted entities
	"github.com/iqx/iqx-backend/internal/service" // token pair produced by the auth service
)

// ----- requests -----

type registerReq struct {
	Email    string  `json:"email" form:"email" validate:"required,email,max=100"`
	FullName string  `json:"full_name" form:"full_name" validate:"required,max=100"`
	Phone    *string `json:"phone" form:"phone" validate:"omitempty,max=20"`
	Password string  `json:"password" form:"password" validate:"required,max=72"`
}

// loginReq follows the OAuth2 password form: the email travels as username.
type loginReq struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type companyCreateReq struct {
	Symbol               string  `json:"symbol" validate:"required,max=20"`
	OrganCode            string  `json:"organ_code" validate:"required,max=50"`
	IsinCode             *string `json:"isin_code" validate:"omitempty,max=50"`
	ComGroupCode         *string `json:"com_group_code" validate:"omitempty,max=50"`
	IcbCode              *string `json:"icb_code" validate:"omitempty,max=50"`
	OrganTypeCode        *string `json:"organ_type_code" validate:"omitempty,max=50"`
	ComTypeCode          *string `json:"com_type_code" validate:"omitempty,max=50"`
	OrganShortName       string  `json:"organ_short_name" validate:"required,max=100"`
	OrganName            string  `json:"organ_name" validate:"required,max=255"`
	BusinessDescriptions *string `json:"business_descriptions"`
}

func (r companyCreateReq) toModel() *model.Company {
	return &model.Company{
		Symbol:               r.Symbol,
		OrganCode:            r.OrganCode,
		IsinCode:             r.IsinCode,
		ComGroupCode:         r.ComGroupCode,
		IcbCode:              r.IcbCode,
		OrganTypeCode:        r.OrganTypeCode,
		ComTypeCode:          r.ComTypeCode,
		OrganShortName:       r.OrganShortName,
		OrganName:            r.OrganName,
		BusinessDescriptions: r.BusinessDescriptions,
	}
}

// companyUpdateReq is a partial update: absent fields stay nil and are
// left untouched.
type companyUpdateReq struct {
	Symbol               *string `json:"symbol" validate:"omitempty,max=20"`
	OrganCode            *string `json:"organ_code" validate:"omitempty,max=50"`
	IsinCode             *string `json:"isin_code" validate:"omitempty,max=50"`
	ComGroupCode         *string `json:"com_group_code" validate:"omitempty,max=50"`
	IcbCode              *string `json:"icb_code" validate:"omitempty,max=50"`
	OrganTypeCode        *string `json:"organ_type_code" validate:"omitempty,max=50"`
	ComTypeCode          *string `json:"com_type_code" validate:"omitempty,max=50"`
	OrganShortName       *string `json:"organ_short_name" validate:"omitempty,max=100"`
	OrganName            *string `json:"organ_name" validate:"omitempty,max=255"`
	BusinessDescriptions *string `json:"business_descriptions"`
}

func (r companyUpdateReq) toPatch() model.CompanyPatch {
	return model.CompanyPatch{
		Symbol:               r.Symbol,
		OrganCode:            r.OrganCode,
		IsinCode:             r.IsinCode,
		ComGroupCode:         r.ComGroupCode,
		IcbCode:              r.IcbCode,
		OrganTypeCode:        r.OrganTypeCode,
		ComTypeCode:          r.ComTypeCode,
		OrganShortName:       r.OrganShortName,
		OrganName:            r.OrganName,
		BusinessDescriptions: r.BusinessDescriptions,
	}
}

// ----- responses -----

type userResp struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FullName   string     `json:"full_name"`
	Phone      *string    `json:"phone"`
	Role       model.Role `json:"role"`
	Verified   bool       `json:"verified"`
	IsActive   bool       `json:"is_active"`
	CreateDate time.Time  `json:"create_date"`
	UpdateDate *time.Time `json:"update_date"`
}

// newUserResp never copies the password hash.
func newUserResp(u *model.User) userResp {
	return userResp{
		ID:         u.ID.String(),
		Email:      u.Email,
		FullName:   u.FullName,
		Phone:      u.Phone,
		Role:       u.Role,
		Verified:   u.Verified,
		IsActive:   u.IsActive,
		CreateDate: u.CreateDate,
		UpdateDate: u.UpdateDate,
	}
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func newTokenResp(p service.TokenPair) tokenResp {
	return tokenResp{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, TokenType: "bearer"}
}

type companyResp struct {
	ID                   uint      `json:"id"`
	Symbol               string    `json:"symbol"`
	OrganCode            string    `json:"organ_code"`
	IsinCode             *string   `json:"isin_code"`
	ComGroupCode         *string   `json:"com_group_code"`
	IcbCode              *string   `json:"icb_code"`
	OrganTypeCode        *string   `json:"organ_type_code"`
	ComTypeCode          *string   `json:"com_type_code"`
	OrganShortName       string    `json:"organ_short_name"`
	OrganName            string    `json:"organ_name"`
	BusinessDescriptions *string   `json:"business_descriptions"`
	CreateDate           time.Time `json:"create_date"`
	UpdateDate           time.Time `json:"update_date"`
}

func newCompanyResp(c model.Company) companyResp {
	return companyResp{
		ID:                   c.ID,
		Symbol:               c.Symbol,
		OrganCode:            c.OrganCode,
		IsinCode:             c.IsinCode,
		ComGroupCode:         c.ComGroupCode,
		IcbCode:              c.IcbCode,
		OrganTypeCode:        c.OrganTypeCode,
		ComTypeCode:          c.ComTypeCode,
		OrganShortName:       c.OrganShortName,
		OrganName:            c.OrganName,
		BusinessDescriptions: c.BusinessDescriptions,
		CreateDate:           c.CreateDate,
		UpdateDate:           c.UpdateDate,
	}
}
