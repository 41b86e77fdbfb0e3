package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate        = newValidator()
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct runs the validate tags of s and reports problems as a ValidationError.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, describe(fe))
	}
	if len(missing) > 0 {
		return missingFields(missing...)
	}
	return &ValidationError{Message: strings.Join(invalid, "; ")}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("Invalid %s. Must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "Invalid email format"
	case "username":
		return "Username must be 3-20 characters (letters, numbers, underscore only)"
	case "min":
		if fe.Field() == "password" {
			return "Password must be at least " + fe.Param() + " characters long"
		}
		return fmt.Sprintf("Invalid %s: must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("Invalid %s: must be at most %s", fe.Field(), fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return fmt.Sprintf("Invalid %s: must not be negative", fe.Field())
		}
		return fmt.Sprintf("Invalid %s: must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("Invalid %s: must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("Invalid %s: must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Invalid %s", fe.Field())
	}
}
