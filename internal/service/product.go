package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bazario/marketplace-api/internal/errs"
	"github.com/bazario/marketplace-api/internal/lib/cache"
	"github.com/bazario/marketplace-api/internal/lib/job"
	"github.com/bazario/marketplace-api/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Listing kinds, used as cache key segments.
const (
	ListingSelling  = "selling"
	ListingExchange = "exchange"
)

// ProductStore is the persistence surface ProductService needs.
// Implemented by repository.ProductRepository; faked in tests.
type ProductStore interface {
	Create(ctx context.Context, input repository.ProductInput) (*repository.Product, error)
	Update(ctx context.Context, productID string, input repository.ProductInput) (*repository.Product, error)
	Delete(ctx context.Context, productID string) error
	GetByID(ctx context.Context, productID string) (*repository.Product, error)
	List(ctx context.Context, forExchange bool, limit, skip int) ([]repository.Product, error)
	ToggleLike(ctx context.Context, productID, userID string) (bool, error)
	CountLikes(ctx context.Context, productID string) (int, error)
	AddToCart(ctx context.Context, userID, productID string) error
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	ProductID string `json:"productId"`
	Liked     bool   `json:"liked"`
	Likes     int    `json:"likes"`
}

// ProductService implements the product business logic.
type ProductService struct {
	store  ProductStore
	cache  *cache.Cache
	jobs   *job.JobService
	logger *zerolog.Logger
}

// NewProductService constructs a ProductService. jobs may be nil (tests,
// degraded mode); enqueues are then skipped.
func NewProductService(store ProductStore, c *cache.Cache, jobs *job.JobService, logger *zerolog.Logger) *ProductService {
	return &ProductService{
		store:  store,
		cache:  c,
		jobs:   jobs,
		logger: logger,
	}
}

var errProductNotFound = errs.NewNotFoundError("Product not found", true, nil)

// checkProductID rejects ids that cannot be a product id before they
// reach the database, where a malformed uuid would raise a type error.
func checkProductID(productID string) error {
	if _, err := uuid.Parse(productID); err != nil {
		return errProductNotFound
	}
	return nil
}

// Create persists a new product and schedules a listing cache flush.
func (s *ProductService) Create(ctx context.Context, input repository.ProductInput) (*repository.Product, error) {
	product, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.invalidateListings("product created")
	return product, nil
}

// Update edits a product after verifying the caller owns it.
func (s *ProductService) Update(ctx context.Context, userID, productID string, input repository.ProductInput) (*repository.Product, error) {
	existing, err := s.getOwned(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	input.UserID = existing.UserID
	product, err := s.store.Update(ctx, productID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errProductNotFound
		}
		return nil, err
	}

	s.invalidateListings("product updated")
	return product, nil
}

// Delete removes a product after verifying the caller owns it.
func (s *ProductService) Delete(ctx context.Context, userID, productID string) error {
	if _, err := s.getOwned(ctx, userID, productID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errProductNotFound
		}
		return err
	}

	s.invalidateListings("product deleted")
	return nil
}

// Get fetches one product by id.
func (s *ProductService) Get(ctx context.Context, productID string) (*repository.Product, error) {
	if err := checkProductID(productID); err != nil {
		return nil, err
	}

	product, err := s.store.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListSelling returns a page of products offered for sale.
func (s *ProductService) ListSelling(ctx context.Context, limit, skip int) ([]repository.Product, error) {
	return s.list(ctx, ListingSelling, false, limit, skip)
}

// ListExchange returns a page of products offered for exchange.
func (s *ProductService) ListExchange(ctx context.Context, limit, skip int) ([]repository.Product, error) {
	return s.list(ctx, ListingExchange, true, limit, skip)
}

func (s *ProductService) list(ctx context.Context, kind string, forExchange bool, limit, skip int) ([]repository.Product, error) {
	key := cache.ListingKey(kind, limit, skip)

	if s.cache != nil {
		if payload, ok := s.cache.GetListing(ctx, key); ok {
			var products []repository.Product
			if err := json.Unmarshal(payload, &products); err == nil {
				return products, nil
			}
			s.logger.Warn().Str("key", key).Msg("dropping undecodable listing cache entry")
		}
	}

	products, err := s.store.List(ctx, forExchange, limit, skip)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []repository.Product{}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(products); err == nil {
			s.cache.SetListing(ctx, key, payload)
		}
	}

	return products, nil
}

// Like toggles a like for the caller and reports the resulting state.
// The denormalized like count is synced by a background job.
func (s *ProductService) Like(ctx context.Context, userID, productID string) (*LikeResult, error) {
	if err := checkProductID(productID); err != nil {
		return nil, err
	}

	liked, err := s.store.ToggleLike(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	likes, err := s.store.CountLikes(ctx, productID)
	if err != nil {
		return nil, err
	}

	if s.jobs != nil {
		if err := s.jobs.EnqueueLikeSync(productID); err != nil {
			s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to enqueue like sync")
		}
	}

	return &LikeResult{
		ProductID: productID,
		Liked:     liked,
		Likes:     likes,
	}, nil
}

// AddToCart puts a product in the caller's cart. Adding the same
// product twice is rejected via the unique constraint on cart entries.
func (s *ProductService) AddToCart(ctx context.Context, userID, productID string) error {
	if err := checkProductID(productID); err != nil {
		return err
	}

	return s.store.AddToCart(ctx, userID, productID)
}

// getOwned fetches a product and verifies ownership.
func (s *ProductService) getOwned(ctx context.Context, userID, productID string) (*repository.Product, error) {
	if err := checkProductID(productID); err != nil {
		return nil, err
	}

	product, err := s.store.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errProductNotFound
		}
		return nil, err
	}

	if product.UserID != userID {
		return nil, errs.NewForbiddenError("You are not allowed to modify this product", true)
	}

	return product, nil
}

func (s *ProductService) invalidateListings(reason string) {
	if s.jobs == nil {
		return
	}
	if err := s.jobs.EnqueueListingInvalidate(reason); err != nil {
		s.logger.Error().Err(err).Str("reason", reason).Msg("failed to enqueue listing invalidation")
	}
}
