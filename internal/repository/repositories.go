package repository

import (
	"github.com/bazario/marketplace-api/internal/server"
)

// Repositories is the container for all repository instances.
type Repositories struct {
	Products *ProductRepository
}

// NewRepositories constructs the repository container from the
// application container.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Products: NewProductRepository(s),
	}
}
