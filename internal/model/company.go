package model

import "time"

// Company represents a listed organisation as stored in the `companies`
// table.  Symbol, OrganCode and IsinCode carry unique indexes so the
// storage layer rejects duplicates even when two requests race past the
// application-level checks.  Optional columns are pointers; nil is NULL.
type Company struct {
	ID                   uint      `gorm:"primaryKey"`
	Symbol               string    `gorm:"size:20;uniqueIndex;not null"`
	OrganCode            string    `gorm:"size:50;uniqueIndex;not null"`
	IsinCode             *string   `gorm:"size:50;uniqueIndex"`
	ComGroupCode         *string   `gorm:"size:50;index"`
	IcbCode              *string   `gorm:"size:50;index"`
	OrganTypeCode        *string   `gorm:"size:50;index"`
	ComTypeCode          *string   `gorm:"size:50;index"`
	OrganShortName       string    `gorm:"size:100;index;not null"`
	OrganName            string    `gorm:"size:255;index;not null"`
	BusinessDescriptions *string   `gorm:"type:text"`
	CreateDate           time.Time `gorm:"autoCreateTime;not null"`
	UpdateDate           time.Time `gorm:"autoUpdateTime;not null"`
}

// TableName pins the table name independently of GORM's naming strategy.
func (Company) TableName() string { return "companies" }

// CompanyPatch is a sparse update of a company.  A nil field is left
// unchanged.  For nullable columns an empty string clears the value.
type CompanyPatch struct {
	Symbol               *string
	OrganCode            *string
	IsinCode             *string
	ComGroupCode         *string
	IcbCode              *string
	OrganTypeCode        *string
	ComTypeCode          *string
	OrganShortName       *string
	OrganName            *string
	BusinessDescriptions *string
}

// Apply copies the supplied fields onto c and returns the columns whose
// value actually changed.  A field set to its current value is not
// reported, so callers never re-check uniqueness of an unchanged key.
func (p CompanyPatch) Apply(c *Company) []string {
	var cols []string
	setRequired := func(col string, dst *string, v *string) {
		if v != nil && *v != *dst {
			*dst = *v
			cols = append(cols, col)
		}
	}
	setOptional := func(col string, dst **string, v *string) {
		if v == nil {
			return
		}
		next := emptyToNil(*v)
		if !sameString(*dst, next) {
			*dst = next
			cols = append(cols, col)
		}
	}

	setRequired("symbol", &c.Symbol, p.Symbol)
	setRequired("organ_code", &c.OrganCode, p.OrganCode)
	setOptional("isin_code", &c.IsinCode, p.IsinCode)
	setOptional("com_group_code", &c.ComGroupCode, p.ComGroupCode)
	setOptional("icb_code", &c.IcbCode, p.IcbCode)
	setOptional("organ_type_code", &c.OrganTypeCode, p.OrganTypeCode)
	setOptional("com_type_code", &c.ComTypeCode, p.ComTypeCode)
	setRequired("organ_short_name", &c.OrganShortName, p.OrganShortName)
	setRequired("organ_name", &c.OrganName, p.OrganName)
	setOptional("business_descriptions", &c.BusinessDescriptions, p.BusinessDescriptions)
	return cols
}

// NormalizeOptional turns empty optional strings into NULLs so that a blank
// ISIN never collides with another blank ISIN on the unique index.
func (c *Company) NormalizeOptional() {
	for _, f := range []**string{&c.IsinCode, &c.ComGroupCode, &c.IcbCode, &c.OrganTypeCode, &c.ComTypeCode, &c.BusinessDescriptions} {
		if *f != nil {
			*f = emptyToNil(**f)
		}
	}
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
