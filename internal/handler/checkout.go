package handler

import (
	"fmt"
	"net/http"
	"time"

	"berrypay/internal/dto"
	"berrypay/internal/middleware"
	"berrypay/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	saleService     service.SaleService
	countdownTick   time.Duration
}

// NewCheckoutHandler builds the handler. countdownTick is the interval of the
// editor preview countdown stream and defaults to one second.
func NewCheckoutHandler(checkoutService service.CheckoutService, saleService service.SaleService, countdownTick time.Duration) *CheckoutHandler {
	if countdownTick <= 0 {
		countdownTick = time.Second
	}
	return &CheckoutHandler{
		checkoutService: checkoutService,
		saleService:     saleService,
		countdownTick:   countdownTick,
	}
}

func (h *CheckoutHandler) List(c echo.Context) error {
	checkouts, err := h.checkoutService.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkouts)
}

func (h *CheckoutHandler) Create(c echo.Context) error {
	var req dto.CreateCheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	checkout, err := h.checkoutService.Create(c.Request().Context(), middleware.UserID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, checkout)
}

func (h *CheckoutHandler) Get(c echo.Context) error {
	checkout, err := h.checkoutService.Get(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkout)
}

func (h *CheckoutHandler) Update(c echo.Context) error {
	var req dto.UpdateCheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	checkout, err := h.checkoutService.Update(c.Request().Context(), middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkout)
}

func (h *CheckoutHandler) ApplyEditor(c echo.Context) error {
	var req dto.EditorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.checkoutService.ApplyEditor(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.Actions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Countdown streams the editor preview timer as server-sent events, one
// "data: <seconds>" event per tick, until it reaches zero or the client leaves.
func (h *CheckoutHandler) Countdown(c echo.Context) error {
	ctx := c.Request().Context()

	state, err := h.checkoutService.EditorState(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		return err
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.WriteHeader(http.StatusOK)

	send := func(remaining int) {
		fmt.Fprintf(w, "data: %d\n\n", remaining)
		w.Flush()
	}
	send(state.RemainingSeconds())
	if state.RemainingSeconds() > 0 {
		state.RunCountdown(ctx, h.countdownTick, send)
	}
	return nil
}

// PublicView serves the buyer-facing page data. Each call counts as a view.
func (h *CheckoutHandler) PublicView(c echo.Context) error {
	view, err := h.checkoutService.PublicView(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CheckoutHandler) Purchase(c echo.Context) error {
	var req dto.PurchaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.saleService.Purchase(c.Request().Context(), c.Param("slug"), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}
