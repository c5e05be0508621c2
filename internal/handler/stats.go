package handler

import (
	"net/http"

	"berrypay/internal/dto"
	"berrypay/internal/middleware"
	"berrypay/internal/service"

	"github.com/labstack/echo/v4"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

func (h *StatsHandler) Get(c echo.Context) error {
	query := dto.StatsQuery{
		Period:    c.QueryParam("period"),
		ProductID: c.QueryParam("productId"),
	}

	stats, err := h.statsService.Get(c.Request().Context(), middleware.UserID(c), &query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
