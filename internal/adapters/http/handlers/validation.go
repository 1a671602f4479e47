package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"generator-backoffice/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// normalizer is implemented by request types that clean their fields before validation
type normalizer interface {
	Normalize()
}

// bindJSON parses the request body into dst and runs its validate tags
func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.Validation("Invalid request body.")
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return validateStruct(dst)
}

func validateStruct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return domain.Validation(fieldMessage(verrs[0]))
	}
	return domain.Validation("Invalid request body.")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
