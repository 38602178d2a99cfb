package utils

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidator()

	seatPattern     = regexp.MustCompile(`^[1-9][0-9]{0,2}[A-K]$`)
	flightPattern   = regexp.MustCompile(`^[A-Z0-9]{2}[0-9]{1,4}$`)
	passportPattern = regexp.MustCompile(`^[A-Z0-9]{6,10}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)
)

func ValidPassport(s string) bool { return passportPattern.MatchString(s) }
func ValidPhone(s string) bool    { return phonePattern.MatchString(s) }
func ValidEmail(s string) bool    { return emailPattern.MatchString(s) }

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("seat", func(fl validator.FieldLevel) bool {
		return seatPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("flightno", func(fl validator.FieldLevel) bool {
		return flightPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("passport", func(fl validator.FieldLevel) bool {
		return ValidPassport(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return v
}

// ValidateStruct returns field -> message for every failed rule, or nil.
func ValidateStruct(data any) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			errors[err.Field()] = getErrorMessage(err)
		}
	}

	return errors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum is %s", err.Param())
	case "max":
		return fmt.Sprintf("Maximum is %s", err.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", err.Param())
	case "gtfield":
		return fmt.Sprintf("Must be after %s", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	case "uuid":
		return "Must be a valid UUID"
	case "seat":
		return "Seat must look like 12C"
	case "flightno":
		return "Flight number must look like SU100"
	case "passport":
		return "Passport must be 6 to 10 upper-case letters or digits"
	case "phone":
		return "Phone must be 10 to 15 digits with an optional leading +"
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}

// FormatValidationErrors joins the messages in a stable field order.
func FormatValidationErrors(errors map[string]string) string {
	fields := make([]string, 0, len(errors))
	for field := range errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, errors[field]))
	}
	return strings.Join(msgs, "; ")
}
