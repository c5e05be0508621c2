package handler

import (
	"net/http"

	"berrypay/internal/dto"
	"berrypay/internal/middleware"
	"berrypay/internal/model"
	"berrypay/internal/service"

	"github.com/labstack/echo/v4"
)

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
	}
}

func (h *SaleHandler) List(c echo.Context) error {
	var query dto.SaleListQuery
	if err := bindAndValidate(c, &query); err != nil {
		return err
	}

	resp, err := h.saleService.List(c.Request().Context(), middleware.UserID(c), &query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SaleHandler) UpdateStatus(c echo.Context) error {
	var req dto.UpdateSaleStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sale, err := h.saleService.UpdateStatus(c.Request().Context(), middleware.UserID(c), c.Param("id"), model.SaleStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sale)
}
