// Package validation wraps go-playground/validator for request payloads
// and hosts the password policy checks.
package validation

import (
	goerrors "errors"
	"fmt"
	"strings"

	"digipehchan/internal/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates a tagged request struct and converts failures into a
// field-level DomainError.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !goerrors.As(err, &verrs) {
		return errors.ErrValidationFailed
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return errors.ErrValidationFailed.WithDetail("%s", strings.Join(msgs, "; "))
}
