package models

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	dbtypes "github.com/Varun984/Sparkathon-by-Walmart/pkg/db/types"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.Split(fld.Tag.Get("json"), ",")[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
			tod, ok := fl.Field().Interface().(dbtypes.TimeOfDay)
			return ok && tod.IsValid()
		})
	})
	return validate
}

// Validate checks a record against its struct tags and names every
// offending JSON field in the returned error.
func Validate(record any) error {
	err := recordValidator().Struct(record)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
}

// ValidateValue checks a single attribute value against a validate tag.
func ValidateValue(name string, value any, tag string) error {
	if err := recordValidator().Var(value, tag); err != nil {
		return fmt.Errorf("validation failed: %s must satisfy %s", name, tag)
	}
	return nil
}
