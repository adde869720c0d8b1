package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CORSMiddleware answers browser cross-origin requests against a configured
// allow-list. The response always names a concrete allowed origin: the
// request's own origin when allow-listed, otherwise the first configured one.
// Preflights are answered directly and cached for 300 seconds.
func CORSMiddleware(allowedOrigins []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)

			allowed := "*"
			if len(allowedOrigins) > 0 {
				allowed = allowedOrigins[0]
			}
			for _, candidate := range allowedOrigins {
				if candidate == origin {
					allowed = origin
					break
				}
			}

			header := c.Response().Header()
			header.Set(echo.HeaderAccessControlAllowOrigin, allowed)
			header.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
			header.Set(echo.HeaderAccessControlAllowHeaders, "*")
			header.Set(echo.HeaderAccessControlMaxAge, "300")

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}
