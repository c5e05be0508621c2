package handler

import (
	"net/http"

	"berrypay/internal/apperror"
	"berrypay/internal/dto"
	"berrypay/internal/model"
	"berrypay/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	saleService    service.SaleService
	paymentService service.PaymentService
}

func NewPaymentHandler(saleService service.SaleService, paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		saleService:    saleService,
		paymentService: paymentService,
	}
}

// CreatePaypalOrder is a purchase with the payment method fixed to PayPal.
func (h *PaymentHandler) CreatePaypalOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreatePaypalOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("", "Requisição inválida")
	}
	req.PaymentMethod = string(model.PaymentMethodPaypal)
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.saleService.Purchase(ctx, req.Slug, &req.PurchaseRequest)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *PaymentHandler) CapturePaypalOrder(c echo.Context) error {
	resp, err := h.paymentService.CaptureOrder(c.Request().Context(), model.PaymentMethodPaypal, c.Param("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) ConfirmPix(c echo.Context) error {
	resp, err := h.paymentService.CaptureOrder(c.Request().Context(), model.PaymentMethodPix, c.Param("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
