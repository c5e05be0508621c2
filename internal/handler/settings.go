package handler

import (
	"net/http"

	"berrypay/internal/dto"
	"berrypay/internal/middleware"
	"berrypay/internal/service"

	"github.com/labstack/echo/v4"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

func (h *SettingsHandler) Get(c echo.Context) error {
	settings, err := h.settingsService.Get(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) Save(c echo.Context) error {
	var req dto.SettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	settings, err := h.settingsService.Save(c.Request().Context(), middleware.UserID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}
