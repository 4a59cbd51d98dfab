package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field names as their json tags so messages match the wire shape.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate parses the JSON body into dst and validates it,
// returning a client-facing message on failure. Malformed shape and failed
// constraints both surface as 422 at the handler layer.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("request body is not valid JSON")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(fieldMessage(verrs[0]))
		}
		return errors.New("request body failed validation")
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%q must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%q must be exactly %s characters", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%q must be numeric", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
