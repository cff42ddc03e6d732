// Package validation runs the client-side form checks that precede every
// auth request. A failed check never reaches the network.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is wrapped by every error returned from Struct.
var ErrValidation = errors.New("validation failed")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v against its `validate` tags and returns a user-facing
// error listing every failed field, or nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, message(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "Please enter a valid email"
	case "MobileNumber":
		return "Please enter a valid mobile number"
	case "Password":
		return "Password must be at least 6 characters"
	case "Name":
		return "Name must be at least 2 characters"
	case "OTPCode":
		return "OTP must be 6 digits"
	case "Username":
		return "Username is required"
	}
	return fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag())
}
