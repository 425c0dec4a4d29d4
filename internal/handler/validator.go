package handler // handler defines the HTTP handlers of the API

import (
	"errors"  // errors.As for validator failures
	"fmt"     // message formatting
	"reflect" // struct field inspection for tag names
	"strings" // joining field messages

	"github.com/go-playground/validator/v10" // struct tag validation
)

// Validator adapts go-playground/validator to echo.Validator.  Field
// names in messages are the json names clients send.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return &Validator{v: v}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &validationFailure{msg: strings.Join(msgs, "; ")}
}

// validationFailure marks errors produced by Validate so the error mapper
// can answer 400 with the message.
type validationFailure struct{ msg string }

func (e *validationFailure) Error() string { return e.msg }

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
