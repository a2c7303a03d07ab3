package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"intakeflow/internal/domain"
)

var validate *validator.Validate

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// reservedSlugs share a path segment with the public intake routes.
var reservedSlugs = map[string]struct{}{
	"sessions": {},
	"options":  {},
}

func init() {
	validate = validator.New()

	// Report json names so messages line up with request bodies.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("us_state", func(fl validator.FieldLevel) bool {
		return domain.IsKnown(domain.ParseState(fl.Field().String()))
	})
	_ = validate.RegisterValidation("lead_status", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseLeadStatus(fl.Field().String())
		return ok
	})
	_ = validate.RegisterValidation("contact_method", func(fl validator.FieldLevel) bool {
		return domain.IsKnown(domain.ParseContactMethod(fl.Field().String()))
	})
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		slug := fl.Field().String()
		if _, reserved := reservedSlugs[slug]; reserved {
			return false
		}
		return slugPattern.MatchString(slug)
	})
	_ = validate.RegisterValidation("best_time", func(fl validator.FieldLevel) bool {
		return domain.IsKnown(domain.ParseBestTime(fl.Field().String()))
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range verrs {
		errors[err.Field()] = err.Tag()
	}
	return errors
}

// Var validates a single value against a tag expression.
func Var(v interface{}, tag string) bool {
	return validate.Var(v, tag) == nil
}
