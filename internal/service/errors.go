// Package service implements the use cases behind the HTTP handlers:
// registration, login and token refresh, and company management.
package service

import "errors"

// Error kinds.  Specific errors wrap one of these so the HTTP boundary can
// map them with errors.Is without knowing every case.
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate resource")
	ErrValidation = errors.New("validation failed")
)

// Error is a client-safe message tagged with one of the kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike, so the response never reveals which accounts exist.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInactiveAccount is returned after the password has been verified.
	ErrInactiveAccount = errors.New("inactive user")

	ErrUserNotFound    = &Error{Kind: ErrNotFound, Msg: "user not found"}
	ErrCompanyNotFound = &Error{Kind: ErrNotFound, Msg: "company not found"}

	ErrDuplicateEmail     = &Error{Kind: ErrDuplicate, Msg: "the user with this email already exists in the system"}
	ErrDuplicateSymbol    = &Error{Kind: ErrDuplicate, Msg: "a company with this symbol already exists"}
	ErrDuplicateOrganCode = &Error{Kind: ErrDuplicate, Msg: "a company with this organ_code already exists"}
	ErrDuplicateCompany   = &Error{Kind: ErrDuplicate, Msg: "a company with this symbol, organ_code or isin_code already exists"}
)

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Msg: msg}
}
