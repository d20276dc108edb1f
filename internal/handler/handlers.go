package handler

import (
	"github.com/bazario/marketplace-api/internal/server"
	"github.com/bazario/marketplace-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router
// setup receives one object instead of many.
type Handlers struct {
	Health  *HealthHandler
	Product *ProductHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		Product: NewProductHandler(s, services),
	}
}
