package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the enumerated authorisation level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// User represents an application user record as stored in the `users`
// table.  There are no json tags: handlers define their own response
// types so the password hash can never leak into a response.
//
// Fields:
//
//	ID             – random UUID, not sequential, so ids cannot be enumerated.
//	Email          – unique, stored trimmed and lower-cased.
//	FullName       – display name.
//	Phone          – optional phone number.
//	HashedPassword – bcrypt digest; the plaintext is never stored.
//	Role           – USER or ADMIN.
//	Verified       – whether the email has been verified.
//	IsActive       – inactive accounts cannot log in.
//	CreateDate     – set by the server on insert.
//	UpdateDate     – set on every mutation, nil until the first one.
type User struct {
	ID             uuid.UUID  `gorm:"type:char(36);primaryKey"`
	Email          string     `gorm:"size:100;uniqueIndex;not null"`
	FullName       string     `gorm:"size:100;not null"`
	Phone          *string    `gorm:"size:20"`
	HashedPassword string     `gorm:"size:255;not null"`
	Role           Role       `gorm:"type:varchar(16);not null"`
	Verified       bool       `gorm:"not null"`
	IsActive       bool       `gorm:"not null"`
	CreateDate     time.Time  `gorm:"autoCreateTime;not null"`
	UpdateDate     *time.Time
}

// TableName pins the table name independently of GORM's naming strategy.
func (User) TableName() string { return "users" }

// UserPatch is a sparse update of a user.  A nil field is left unchanged.
type UserPatch struct {
	FullName *string
	Phone    *string
	Role     *Role
	Verified *bool
	IsActive *bool
}

// Apply copies the supplied fields onto u and returns the columns whose
// value actually changed.
func (p UserPatch) Apply(u *User) []string {
	var cols []string
	if p.FullName != nil && *p.FullName != u.FullName {
		u.FullName = *p.FullName
		cols = append(cols, "full_name")
	}
	if p.Phone != nil {
		next := emptyToNil(*p.Phone)
		if !sameString(u.Phone, next) {
			u.Phone = next
			cols = append(cols, "phone")
		}
	}
	if p.Role != nil && *p.Role != u.Role {
		u.Role = *p.Role
		cols = append(cols, "role")
	}
	if p.Verified != nil && *p.Verified != u.Verified {
		u.Verified = *p.Verified
		cols = append(cols, "verified")
	}
	if p.IsActive != nil && *p.IsActive != u.IsActive {
		u.IsActive = *p.IsActive
		cols = append(cols, "is_active")
	}
	return cols
}
