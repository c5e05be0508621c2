package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"berrypay/internal/apperror"

	"github.com/go-playground/validator/v10"
)

// requestValidator adapts validator/v10 to echo.Validator. Field names are
// reported by their json (or query) tag.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})
	return &requestValidator{validate: v}
}

func (v *requestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate request: %w", err)
	}
	fe := fieldErrs[0]
	return apperror.Validation(fe.Field(), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório"
	case "email":
		return "E-mail inválido"
	case "oneof":
		return fmt.Sprintf("Valor deve ser um de: %s", fe.Param())
	case "hexcolor":
		return "Cor inválida"
	case "gt":
		return fmt.Sprintf("Deve ser maior que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Deve ser no mínimo %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Deve ser no máximo %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Deve ter pelo menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Deve ter pelo menos %s itens", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Deve ter no máximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Deve ter no máximo %s itens", fe.Param())
	default:
		return "Valor inválido"
	}
}
