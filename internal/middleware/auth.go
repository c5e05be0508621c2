package middleware

import (
	"strings"

	"berrypay/internal/model"
	"berrypay/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	userIDKey = "user_id"
	userKey   = "user"
)

// AuthMiddleware resolves the session token from the cookie (or a Bearer
// header for API clients) and rejects the request when it is not valid.
func AuthMiddleware(users service.UserService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := users.Authenticate(c.Request().Context(), SessionToken(c, cookieName))
			if err != nil {
				return err
			}

			c.Set(userIDKey, user.ID)
			c.Set(userKey, user)
			return next(c)
		}
	}
}

func SessionToken(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// UserID returns the authenticated seller id, or "" outside AuthMiddleware.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userKey).(*model.User)
	return user
}
