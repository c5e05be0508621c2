package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"berrypay/internal/apperror"
	"berrypay/internal/dto"

	"github.com/labstack/echo/v4"
)

const msgInternal = "Internal server error"

// errorHandler renders every error returned by a handler as {message, field}.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status == http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"err", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("write error response", "err", err)
		}
	}
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var ve *apperror.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, dto.ErrorResponse{Message: ve.Message, Field: ve.Field}
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return http.StatusNotFound, dto.ErrorResponse{Message: apperror.Message(err, "Não encontrado")}
	}
	if errors.Is(err, apperror.ErrUnauthorized) {
		return http.StatusUnauthorized, dto.ErrorResponse{Message: apperror.Message(err, "Não autenticado")}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		if he.Code >= http.StatusInternalServerError {
			msg = msgInternal
		}
		return he.Code, dto.ErrorResponse{Message: msg}
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, dto.ErrorResponse{Message: "Requisição muito grande"}
	}

	return http.StatusInternalServerError, dto.ErrorResponse{Message: msgInternal}
}
