package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"taskflow/internal/apierror"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names so messages match the request payload.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validateInput runs the struct tags of input and folds every failure into
// one BadRequest.
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierror.BadRequest(err.Error())
	}

	var missing, invalid []string
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "oneof":
			invalid = append(invalid, fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
		default:
			invalid = append(invalid, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	if len(missing) > 0 {
		return apierror.BadRequest(strings.Join(missing, ", ") + " required")
	}
	return apierror.BadRequest(strings.Join(invalid, "; "))
}
