package middleware

import (
	"github.com/bazario/marketplace-api/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server,
// so routing code receives one wired object instead of many.
type Middlewares struct {
	// Global holds middleware applied across the whole API: CORS, request
	// logging, recovery, secure headers, and the global error handler.
	Global *GlobalMiddlewares

	// Auth verifies the x-auth-token JWT and attaches user identity.
	Auth *AuthMiddleware

	// ContextEnhancer enriches each request with a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// RateLimit enforces a fixed-window per-IP limit backed by Redis.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components from the
// application container.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
