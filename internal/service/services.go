package service

import (
	"github.com/bazario/marketplace-api/internal/lib/job"
	"github.com/bazario/marketplace-api/internal/repository"
	"github.com/bazario/marketplace-api/internal/server"
)

// Services is the container for all business-logic services.
type Services struct {
	Products *ProductService
	Job      *job.JobService
}

// NewService constructs the service container from the application
// container and the repositories.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	productService := NewProductService(repos.Products, s.Cache, s.Job, s.Logger)

	return &Services{
		Products: productService,
		Job:      s.Job,
	}, nil
}
