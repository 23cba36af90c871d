package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

// ValidationErrors maps form field names to a message, mirroring the form's error slots.
type ValidationErrors map[string]string

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(ve))
	for f := range ve {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, ve[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var messages = map[string]string{
	"title":    "Title is required",
	"price":    "Valid price is required",
	"category": "Category is required",
	"stock":    "Valid stock quantity is required",
}

// Validator checks product form input.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator keyed on json field names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate returns ValidationErrors when input is not acceptable.
func (v *Validator) Validate(input model.ProductInput) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate product: %w", err)
	}
	out := make(ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("failed %s", fe.Tag())
		}
		out[fe.Field()] = msg
	}
	return out
}
