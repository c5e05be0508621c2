package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"berrypay/internal/apperror"
	"berrypay/internal/dto"

	"github.com/labstack/echo/v4"
)

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   dto.ErrorResponse
	}{
		{"validation", apperror.Validation("price", "Deve ser maior que 0"), http.StatusBadRequest, dto.ErrorResponse{Message: "Deve ser maior que 0", Field: "price"}},
		{"wrapped not found", fmt.Errorf("get: %w", apperror.NotFound("Produto não encontrado")), http.StatusNotFound, dto.ErrorResponse{Message: "Produto não encontrado"}},
		{"unauthorized", apperror.Unauthorized("Não autenticado"), http.StatusUnauthorized, dto.ErrorResponse{Message: "Não autenticado"}},
		{"echo route miss", echo.ErrNotFound, http.StatusNotFound, dto.ErrorResponse{Message: "Not Found"}},
		{"echo method", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, dto.ErrorResponse{Message: "Method Not Allowed"}},
		{"internal", errors.New("db is on fire"), http.StatusInternalServerError, dto.ErrorResponse{Message: msgInternal}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := errorResponse(tc.err)
			if status != tc.status || body != tc.body {
				t.Fatalf("got %d %+v, want %d %+v", status, body, tc.status, tc.body)
			}
		})
	}
}

func TestValidatorReportsJSONFieldName(t *testing.T) {
	type request struct {
		Email  string `json:"customerEmail" validate:"required,email"`
		Status string `query:"status" validate:"omitempty,oneof=pending paid"`
	}
	v := newRequestValidator()

	var ve *apperror.ValidationError
	if err := v.Validate(&request{Email: "nope"}); !errors.As(err, &ve) || ve.Field != "customerEmail" {
		t.Fatalf("expected customerEmail validation error, got %v", err)
	}
	if err := v.Validate(&request{Email: "a@b.co", Status: "lost"}); !errors.As(err, &ve) || ve.Field != "status" {
		t.Fatalf("expected status validation error, got %v", err)
	}
	if err := v.Validate(&request{Email: "a@b.co"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}
