package validators

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeFormBody binds an urlencoded form into dest using `form` struct
// tags, then runs struct validation. dest must be a pointer to a struct
// with string, int or bool fields.
func DecodeFormBody(r *http.Request, dest any) error {
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}

	if err := bindForm(r.PostForm.Get, dest); err != nil {
		return err
	}

	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func bindForm(get func(string) string, dest any) error {
	value := reflect.ValueOf(dest)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return pkgerrors.New(pkgerrors.CodeInternal, "form destination must be a struct pointer")
	}

	elem := value.Elem()
	structType := elem.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if tag == "" || tag == "-" {
			continue
		}

		raw := strings.TrimSpace(get(tag))
		if raw == "" {
			continue
		}

		target := elem.Field(i)
		switch target.Kind() {
		case reflect.String:
			target.SetString(raw)
		case reflect.Int, reflect.Int64:
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "form field must be numeric").
					WithDetails(map[string]any{"field": tag})
			}
			target.SetInt(parsed)
		case reflect.Bool:
			target.SetBool(truthy(raw))
		default:
			return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unsupported form field kind %s", target.Kind()))
		}
	}
	return nil
}

// truthy mirrors HTML form conventions where checkboxes submit "on".
func truthy(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
