package services

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"hotel-receipt/pkg/models"
)

const (
	MsgRequired    = "Este campo es obligatorio"
	MsgPhoneLength = "El celular debe tener al menos 10 dígitos"
)

// ValidationError is returned when a submission fails one or more field rules
type ValidationError struct {
	Errors models.ErrorMap
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// Report failures under the form field ids rather than the Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a form snapshot and returns the failing fields. An empty
// map means the form may be submitted.
//
// Every field is required. The phone must also be at least 10 characters
// long, counted on the raw value; an empty phone only reports as missing.
func Validate(form models.ReceiptForm) models.ErrorMap {
	out := models.ErrorMap{}

	err := validate.Struct(form)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable on a programming error such as a bad tag
		panic(err)
	}
	for _, fe := range verrs {
		field := models.Field(fe.Field())
		switch fe.Tag() {
		case "min":
			out[field] = MsgPhoneLength
		default:
			out[field] = MsgRequired
		}
	}
	return out
}
