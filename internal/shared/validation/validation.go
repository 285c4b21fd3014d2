// Package validation wraps a single shared validator instance.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validator.Validate caches struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Var validates a single value against tag and reports failures as "<field> is invalid: <tag>".
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return describe(field, err)
	}
	return nil
}

func describe(field string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	tags := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			tags = append(tags, fe.Tag()+"="+fe.Param())
		} else {
			tags = append(tags, fe.Tag())
		}
	}
	return fmt.Errorf("%s is invalid: %s", field, strings.Join(tags, ","))
}
