package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SessionCookie carries the admin session token for browser clients.
const SessionCookie = "HERBAL_SESSION"

// TokenVerifier resolves a session token to the admin email.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAdmin looks for a session token in the Authorization header, then in
// the session cookie. Without a valid one the request gets 401. On success the
// admin email is stored under "admin".
func RequireAdmin(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
			if token == "" {
				if ck, err := c.Cookie(SessionCookie); err == nil {
					token = ck.Value
				}
			}
			if token == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "admin session required"})
			}
			email, err := v.Verify(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			c.Set("admin", email)
			return next(c)
		}
	}
}
