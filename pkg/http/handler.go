package http

import "github.com/labstack/echo/v4"

// Handler mounts a group of API routes on the server's echo instance.
// NewServer calls RegisterRoutes once, after the shared middleware is in place.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
