package handler

import (
	"errors"
	"fmt"
	"net/http"

	"berrypay/internal/apperror"
	"berrypay/internal/service"

	"github.com/labstack/echo/v4"
)

type UploadHandler struct {
	uploadService service.UploadService
	maxBytes      int64
}

func NewUploadHandler(uploadService service.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
	}
}

func (h *UploadHandler) Upload(c echo.Context) error {
	// room for multipart framing on top of the file itself
	limit := h.maxBytes + 1<<20
	if c.Request().ContentLength > limit {
		return h.tooLarge()
	}
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, limit)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return h.tooLarge()
		}
		return apperror.Validation("file", "Envie um arquivo no campo file")
	}
	if fh.Size > h.maxBytes {
		return h.tooLarge()
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	resp, err := h.uploadService.Save(c.Request().Context(), src)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *UploadHandler) tooLarge() error {
	return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("Arquivo maior que %d MB", h.maxBytes/(1<<20)))
}
