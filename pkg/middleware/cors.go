package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CORSConfig returns the CORS configuration for the dashboard origins.
// main.go and tests share it.
func CORSConfig(origins []string) middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowOrigins: append([]string(nil), origins...),
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			echo.HeaderXRequestID,
		},
		ExposeHeaders: []string{
			"Content-Disposition",
			echo.HeaderXRequestID,
		},
	}
}
