package ad

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const minFieldChars = 3

// usability checks StructuredData tags; built once and read-only afterwards.
var usability = newUsabilityValidator()

func newUsabilityValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	mustRegister(v, "usable", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= minFieldChars
	})
	mustRegister(v, "nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "single_paragraph", func(fl validator.FieldLevel) bool {
		return !strings.Contains(fl.Field().String(), "\n\n")
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// IsWeak reports whether d is too incomplete to generate an ad from: any
// string field shorter than three characters after trimming, no benefits
// or a blank benefit, or a blank line inside productName or callToAction.
func IsWeak(d StructuredData) bool {
	return usability.Struct(d) != nil
}

// WeakFields lists the JSON names of the fields that make d weak.
func WeakFields(d StructuredData) []string {
	err := usability.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	seen := make(map[string]struct{}, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if idx := strings.IndexByte(name, '['); idx > 0 {
			name = name[:idx]
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		fields = append(fields, name)
	}
	return fields
}
