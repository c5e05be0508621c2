package handler

import (
	"berrypay/internal/apperror"

	"github.com/labstack/echo/v4"
)

// bindAndValidate decodes the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.Validation("", "Requisição inválida")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
