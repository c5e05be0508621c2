package handler

import (
	"net/http"
	"time"

	"berrypay/internal/dto"
	"berrypay/internal/middleware"
	"berrypay/internal/model"
	"berrypay/internal/service"

	"github.com/labstack/echo/v4"
)

type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type UserHandler struct {
	userService service.UserService
	cookie      CookieConfig
}

func NewUserHandler(userService service.UserService, cookie CookieConfig) *UserHandler {
	return &UserHandler{
		userService: userService,
		cookie:      cookie,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AuthRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.userService.Register(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, h.cookie.TTL)
	return c.JSON(http.StatusCreated, userResponse(user))
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AuthRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.userService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, h.cookie.TTL)
	return c.JSON(http.StatusOK, userResponse(user))
}

func (h *UserHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.userService.Logout(ctx, middleware.SessionToken(c, h.cookie.Name)); err != nil {
		return err
	}

	h.setSessionCookie(c, "", -1)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) CurrentUser(c echo.Context) error {
	return c.JSON(http.StatusOK, userResponse(middleware.CurrentUser(c)))
}

func (h *UserHandler) setSessionCookie(c echo.Context, value string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = time.Now().Add(ttl)
		cookie.MaxAge = int(ttl.Seconds())
	}
	c.SetCookie(cookie)
}

func userResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
	}
}
