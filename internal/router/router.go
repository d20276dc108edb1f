// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/bazario/marketplace-api/internal/handler"
	"github.com/bazario/marketplace-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// New builds the Echo router with global middleware, the error handler
// and all route groups registered.
func New(middlewares *middleware.Middlewares, handlers *handler.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: request id first so the context enhancer can put it
	// in the request logger, then the logging and safety nets.
	e.Use(middleware.RequestID())
	e.Use(middlewares.ContextEnhancer.EnhanceContext())
	e.Use(middlewares.Global.CORS())
	e.Use(middlewares.Global.RequestLogger())
	e.Use(middlewares.Global.Recover())
	e.Use(middlewares.Global.Secure())

	registerSystemRoutes(e, handlers)
	registerProductRoutes(e, middlewares, handlers)

	return e
}
