package handler

import (
	"strconv"
	"strings"

	"github.com/bazario/marketplace-api/internal/errs"
	"github.com/bazario/marketplace-api/internal/middleware"
	"github.com/bazario/marketplace-api/internal/repository"
	"github.com/bazario/marketplace-api/internal/server"
	"github.com/bazario/marketplace-api/internal/service"
	"github.com/bazario/marketplace-api/internal/validation"
	"github.com/labstack/echo/v4"
)

const (
	// minProductImages is the minimum image count for create and edit.
	minProductImages = 3

	msgImagesMin         = "Each product should have at least 3 images"
	msgProductIDRequired = "Product id is required"
)

// Pagination bounds for the listing endpoints.
const (
	defaultListLimit = 10
	maxListLimit     = 50
)

// ProductHandler serves the /Api/Product endpoints.
type ProductHandler struct {
	Handler
	services *service.Services
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(s *server.Server, services *service.Services) *ProductHandler {
	return &ProductHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// --- Request payloads --------------------------------------------------------

// AddProductRequest is the AddProduct body. price and forExchange are
// string-typed on the wire; the service parses them after validation.
type AddProductRequest struct {
	ProductName string   `json:"productName" validate:"required"`
	Price       string   `json:"price" validate:"required,numeric"`
	ForExchange string   `json:"forExchange" validate:"required,boolean"`
	Description string   `json:"description" validate:"required"`
	CategoryID  string   `json:"categoryId" validate:"required"`
	CityID      string   `json:"cityId" validate:"required"`
	ConditionID string   `json:"conditionId" validate:"required"`
	Images      []string `json:"images"`
}

func (r *AddProductRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if len(r.Images) < minProductImages {
		return validation.CustomValidationErrors{
			{Field: "images", Message: msgImagesMin},
		}
	}
	return nil
}

// EditProductRequest is the EditProduct body: productId plus the full
// AddProduct field set.
type EditProductRequest struct {
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName" validate:"required"`
	Price       string   `json:"price" validate:"required,numeric"`
	ForExchange string   `json:"forExchange" validate:"required,boolean"`
	Description string   `json:"description" validate:"required"`
	CategoryID  string   `json:"categoryId" validate:"required"`
	CityID      string   `json:"cityId" validate:"required"`
	ConditionID string   `json:"conditionId" validate:"required"`
	Images      []string `json:"images"`
}

func (r *EditProductRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var custom validation.CustomValidationErrors
	if strings.TrimSpace(r.ProductID) == "" {
		custom = append(custom, validation.CustomValidationError{
			Field: "productId", Message: msgProductIDRequired,
		})
	}
	if len(r.Images) < minProductImages {
		custom = append(custom, validation.CustomValidationError{
			Field: "images", Message: msgImagesMin,
		})
	}
	if custom != nil {
		return custom
	}
	return nil
}

// ProductIDRequest is the body for LikeProduct, AddProductToCart and
// DeleteProduct.
type ProductIDRequest struct {
	ProductID string `json:"productId"`
}

func (r *ProductIDRequest) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return validation.CustomValidationErrors{
			{Field: "productId", Message: msgProductIDRequired},
		}
	}
	return nil
}

// GetProductRequest carries the GetProductById query parameter. The
// handler checks presence itself, so Validate has nothing to do.
type GetProductRequest struct {
	ProductID string `query:"productId" json:"productId"`
}

func (r *GetProductRequest) Validate() error {
	return nil
}

// ListProductsRequest carries optional pagination query parameters.
// Values are defensively parsed with defaults by the handler.
type ListProductsRequest struct {
	Limit string `query:"limit" json:"limit"`
	Skip  string `query:"skip" json:"skip"`
}

func (r *ListProductsRequest) Validate() error {
	return nil
}

// MessageResponse is a minimal confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Endpoints ---------------------------------------------------------------

// AddProduct creates a product owned by the authenticated user.
func (h *ProductHandler) AddProduct(c echo.Context, req *AddProductRequest) (*repository.Product, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return nil, errs.NewUnauthorizedError("Authentication required", false)
	}

	input, err := buildProductInput(userID, req.ProductName, req.Price, req.ForExchange,
		req.Description, req.CategoryID, req.CityID, req.ConditionID, req.Images)
	if err != nil {
		return nil, err
	}

	return h.services.Products.Create(c.Request().Context(), input)
}

// EditProduct updates a product owned by the authenticated user.
func (h *ProductHandler) EditProduct(c echo.Context, req *EditProductRequest) (*repository.Product, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return nil, errs.NewUnauthorizedError("Authentication required", false)
	}

	input, err := buildProductInput(userID, req.ProductName, req.Price, req.ForExchange,
		req.Description, req.CategoryID, req.CityID, req.ConditionID, req.Images)
	if err != nil {
		return nil, err
	}

	return h.services.Products.Update(c.Request().Context(), userID, req.ProductID, input)
}

// DeleteProduct removes a product owned by the authenticated user.
func (h *ProductHandler) DeleteProduct(c echo.Context, req *ProductIDRequest) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return errs.NewUnauthorizedError("Authentication required", false)
	}

	return h.services.Products.Delete(c.Request().Context(), userID, req.ProductID)
}

// LikeProduct toggles a like on a product for the authenticated user.
func (h *ProductHandler) LikeProduct(c echo.Context, req *ProductIDRequest) (*service.LikeResult, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return nil, errs.NewUnauthorizedError("Authentication required", false)
	}

	return h.services.Products.Like(c.Request().Context(), userID, req.ProductID)
}

// AddProductToCart puts a product in the authenticated user's cart.
func (h *ProductHandler) AddProductToCart(c echo.Context, req *ProductIDRequest) (*MessageResponse, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return nil, errs.NewUnauthorizedError("Authentication required", false)
	}

	if err := h.services.Products.AddToCart(c.Request().Context(), userID, req.ProductID); err != nil {
		return nil, err
	}

	return &MessageResponse{Message: "Product added to cart"}, nil
}

// GetProductById fetches one product by its id query parameter.
func (h *ProductHandler) GetProductById(c echo.Context, req *GetProductRequest) (*repository.Product, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return nil, errs.NewBadRequestError("Validation failed", true, nil,
			[]errs.FieldError{{Field: "productId", Error: msgProductIDRequired}}, nil)
	}

	return h.services.Products.Get(c.Request().Context(), req.ProductID)
}

// GetSellingProducts lists products offered for sale.
func (h *ProductHandler) GetSellingProducts(c echo.Context, req *ListProductsRequest) ([]repository.Product, error) {
	limit, skip := parsePagination(req.Limit, req.Skip)
	return h.services.Products.ListSelling(c.Request().Context(), limit, skip)
}

// GetExchangeProducts lists products offered for exchange.
func (h *ProductHandler) GetExchangeProducts(c echo.Context, req *ListProductsRequest) ([]repository.Product, error) {
	limit, skip := parsePagination(req.Limit, req.Skip)
	return h.services.Products.ListExchange(c.Request().Context(), limit, skip)
}

// buildProductInput parses the validated wire fields into a repository
// input. Parse failures here are unreachable after tag validation but
// are still reported as validation errors rather than a panic.
func buildProductInput(userID, name, price, forExchange, description, categoryID, cityID, conditionID string, images []string) (repository.ProductInput, error) {
	exchange, err := strconv.ParseBool(forExchange)
	if err != nil {
		return repository.ProductInput{}, errs.NewBadRequestError("Validation failed", true, nil,
			[]errs.FieldError{{Field: "forExchange", Error: "must be a boolean"}}, nil)
	}

	return repository.ProductInput{
		UserID:      userID,
		ProductName: name,
		Price:       price,
		ForExchange: exchange,
		Description: description,
		CategoryID:  categoryID,
		CityID:      cityID,
		ConditionID: conditionID,
		Images:      images,
	}, nil
}

// parsePagination applies defaults and bounds to the optional limit and
// skip query parameters. Unparseable values fall back to defaults.
func parsePagination(limitStr, skipStr string) (limit, skip int) {
	limit = defaultListLimit
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		limit = n
		if limit > maxListLimit {
			limit = maxListLimit
		}
	}

	if n, err := strconv.Atoi(skipStr); err == nil && n > 0 {
		skip = n
	}
	return limit, skip
}
