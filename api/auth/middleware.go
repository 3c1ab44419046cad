package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const identityContextKey = "gymdesk.identity"

// Middleware returns an echo middleware that requires a valid bearer token and
// stores the resolved Identity on the request context.
func Middleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			ident, err := ParseToken(strings.TrimPrefix(header, prefix), secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
			c.Set(identityContextKey, ident)
			return next(c)
		}
	}
}

// GetIdentity returns the Identity stored by Middleware, or the zero Identity
// when the route was not authenticated.
func GetIdentity(c echo.Context) Identity {
	ident, _ := c.Get(identityContextKey).(Identity)
	return ident
}
