package apperror

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldViolation is one failed binding rule, reported under error.details.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Init makes gin's validator report json tag names instead of Go field names.
// Call it once before serving.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// fieldLabel turns a json field name into a label: approved_quantity -> Approved Quantity.
func fieldLabel(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// MapValidationError turns a bind error into a 400. The message describes the
// first violation; details list all of them.
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	violations := make([]FieldViolation, 0, len(errs))
	for _, fe := range errs {
		violations = append(violations, FieldViolation{Field: fe.Field(), Rule: fe.Tag()})
	}

	first := errs[0]
	label := fieldLabel(first.Field())
	var appErr *AppError
	switch first.Tag() {
	case "required":
		appErr = RequiredField(label)
	case "oneof":
		appErr = New(CodeInvalidInput,
			label+" must be one of "+strings.Join(strings.Fields(first.Param()), ", "),
			http.StatusBadRequest)
	case "gt":
		appErr = New(CodeInvalidInput, label+" must be greater than "+first.Param(), http.StatusBadRequest)
	case "gte", "min":
		appErr = New(CodeInvalidInput, label+" must be at least "+first.Param(), http.StatusBadRequest)
	case "lte", "max":
		appErr = New(CodeInvalidInput, label+" must be at most "+first.Param(), http.StatusBadRequest)
	default:
		appErr = InvalidField(label)
	}
	return appErr.WithDetails(violations)
}
