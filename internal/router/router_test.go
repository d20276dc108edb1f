package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bazario/marketplace-api/internal/config"
	"github.com/bazario/marketplace-api/internal/handler"
	"github.com/bazario/marketplace-api/internal/middleware"
	"github.com/bazario/marketplace-api/internal/repository"
	"github.com/bazario/marketplace-api/internal/server"
	"github.com/bazario/marketplace-api/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "router-test-secret"
	testUserID    = "user-1"
	testProductID = "c5a1ae4e-0c55-4bb0-9b2c-91f0f1f1a111"
)

// stubStore records calls and serves one canned product.
type stubStore struct {
	product     *repository.Product
	createCalls int
}

func (s *stubStore) Create(ctx context.Context, input repository.ProductInput) (*repository.Product, error) {
	s.createCalls++
	return &repository.Product{
		ID:          testProductID,
		UserID:      input.UserID,
		ProductName: input.ProductName,
		Price:       input.Price,
		ForExchange: input.ForExchange,
		Images:      input.Images,
	}, nil
}

func (s *stubStore) Update(ctx context.Context, id string, input repository.ProductInput) (*repository.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, pgx.ErrNoRows
	}
	return s.product, nil
}

func (s *stubStore) Delete(ctx context.Context, id string) error {
	if s.product == nil || s.product.ID != id {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *stubStore) GetByID(ctx context.Context, id string) (*repository.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, pgx.ErrNoRows
	}
	return s.product, nil
}

func (s *stubStore) List(ctx context.Context, forExchange bool, limit, skip int) ([]repository.Product, error) {
	if s.product == nil || s.product.ForExchange != forExchange {
		return nil, nil
	}
	return []repository.Product{*s.product}, nil
}

func (s *stubStore) ToggleLike(ctx context.Context, id, userID string) (bool, error) {
	return true, nil
}

func (s *stubStore) CountLikes(ctx context.Context, id string) (int, error) {
	return 1, nil
}

func (s *stubStore) AddToCart(ctx context.Context, userID, id string) error {
	return nil
}

func newTestRouter(store *stubStore) *echo.Echo {
	logger := zerolog.Nop()
	srv := &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
			},
			Auth: config.AuthConfig{SecretKey: testSecret},
		},
		Logger: &logger,
	}

	services := &service.Services{
		Products: service.NewProductService(store, nil, nil, &logger),
	}

	middlewares := middleware.NewMiddlewares(srv)
	handlers := handler.NewHandlers(srv, services)

	return New(middlewares, handlers)
}

func signTestToken(t *testing.T, subject string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Errors  []struct {
		Field string `json:"field"`
		Error string `json:"error"`
	} `json:"errors"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const validAddProductBody = `{
	"productName": "Mountain bike",
	"price": "250",
	"forExchange": "false",
	"description": "Hardtail, barely used",
	"categoryId": "cat-1",
	"cityId": "city-1",
	"conditionId": "cond-1",
	"images": ["a.jpg", "b.jpg", "c.jpg"]
}`

func TestProductRoutes_RequireAuth(t *testing.T) {
	e := newTestRouter(&stubStore{})

	routes := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/Api/Product/AddProduct"},
		{http.MethodPatch, "/Api/Product/LikeProduct"},
		{http.MethodPatch, "/Api/Product/AddProductToCart"},
		{http.MethodPut, "/Api/Product/EditProduct"},
		{http.MethodDelete, "/Api/Product/DeleteProduct"},
		{http.MethodGet, "/Api/Product/GetProductById"},
		{http.MethodGet, "/Api/Product/GetSellingProducts"},
		{http.MethodGet, "/Api/Product/GetExchangeProducts"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.target, func(t *testing.T) {
			rec := doRequest(e, r.method, r.target, "", "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, "Authentication token is required", body.Message)
		})
	}
}

func TestAddProduct(t *testing.T) {
	t.Run("creates product", func(t *testing.T) {
		store := &stubStore{}
		e := newTestRouter(store)
		token := signTestToken(t, testUserID)

		rec := doRequest(e, http.MethodPost, "/Api/Product/AddProduct", token, validAddProductBody)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, 1, store.createCalls)

		var product repository.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
		assert.Equal(t, testProductID, product.ID)
		assert.Equal(t, testUserID, product.UserID)
		assert.Equal(t, "250", product.Price)
	})

	t.Run("too few images", func(t *testing.T) {
		store := &stubStore{}
		e := newTestRouter(store)
		token := signTestToken(t, testUserID)

		body := strings.Replace(validAddProductBody,
			`["a.jpg", "b.jpg", "c.jpg"]`, `["a.jpg", "b.jpg"]`, 1)

		rec := doRequest(e, http.MethodPost, "/Api/Product/AddProduct", token, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, store.createCalls)

		errBody := decodeError(t, rec)
		require.Len(t, errBody.Errors, 1)
		assert.Equal(t, "images", errBody.Errors[0].Field)
		assert.Equal(t, "Each product should have at least 3 images", errBody.Errors[0].Error)
	})

	t.Run("invalid price and forExchange", func(t *testing.T) {
		e := newTestRouter(&stubStore{})
		token := signTestToken(t, testUserID)

		body := strings.NewReplacer(
			`"250"`, `"abc"`,
			`"false"`, `"notabool"`,
		).Replace(validAddProductBody)

		rec := doRequest(e, http.MethodPost, "/Api/Product/AddProduct", token, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		errBody := decodeError(t, rec)
		msgs := map[string]string{}
		for _, fe := range errBody.Errors {
			msgs[fe.Field] = fe.Error
		}
		assert.Equal(t, "must be a number", msgs["price"])
		assert.Equal(t, "must be a boolean", msgs["forExchange"])
	})
}

func TestGetProductById(t *testing.T) {
	store := &stubStore{product: &repository.Product{
		ID:     testProductID,
		UserID: testUserID,
		Price:  "250",
	}}
	e := newTestRouter(store)
	token := signTestToken(t, testUserID)

	t.Run("found", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet,
			"/Api/Product/GetProductById?productId="+testProductID, token, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var product repository.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
		assert.Equal(t, testProductID, product.ID)
	})

	t.Run("missing product id", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/Api/Product/GetProductById", token, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		errBody := decodeError(t, rec)
		require.Len(t, errBody.Errors, 1)
		assert.Equal(t, "Product id is required", errBody.Errors[0].Error)
	})

	t.Run("unknown product id", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet,
			"/Api/Product/GetProductById?productId=11111111-2222-3333-4444-555555555555", token, "")
		require.Equal(t, http.StatusNotFound, rec.Code)

		errBody := decodeError(t, rec)
		assert.Equal(t, "Product not found", errBody.Message)
	})
}

func TestLikeProduct(t *testing.T) {
	store := &stubStore{product: &repository.Product{ID: testProductID, UserID: testUserID}}
	e := newTestRouter(store)
	token := signTestToken(t, "someone-else")

	rec := doRequest(e, http.MethodPatch, "/Api/Product/LikeProduct", token,
		`{"productId":"`+testProductID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result service.LikeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.Likes)
}

func TestDeleteProduct(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		store := &stubStore{product: &repository.Product{ID: testProductID, UserID: testUserID}}
		e := newTestRouter(store)
		token := signTestToken(t, testUserID)

		rec := doRequest(e, http.MethodDelete, "/Api/Product/DeleteProduct", token,
			`{"productId":"`+testProductID+`"}`)
		assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		store := &stubStore{product: &repository.Product{ID: testProductID, UserID: testUserID}}
		e := newTestRouter(store)
		token := signTestToken(t, "someone-else")

		rec := doRequest(e, http.MethodDelete, "/Api/Product/DeleteProduct", token,
			`{"productId":"`+testProductID+`"}`)
		require.Equal(t, http.StatusForbidden, rec.Code)

		errBody := decodeError(t, rec)
		assert.Equal(t, "You are not allowed to modify this product", errBody.Message)
	})

	t.Run("missing product id", func(t *testing.T) {
		e := newTestRouter(&stubStore{})
		token := signTestToken(t, testUserID)

		rec := doRequest(e, http.MethodDelete, "/Api/Product/DeleteProduct", token, `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		errBody := decodeError(t, rec)
		require.Len(t, errBody.Errors, 1)
		assert.Equal(t, "Product id is required", errBody.Errors[0].Error)
	})
}

func TestListingRoutes(t *testing.T) {
	store := &stubStore{product: &repository.Product{
		ID: testProductID, UserID: testUserID, ForExchange: true,
	}}
	e := newTestRouter(store)
	token := signTestToken(t, testUserID)

	t.Run("exchange listing", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/Api/Product/GetExchangeProducts", token, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var products []repository.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
		require.Len(t, products, 1)
		assert.True(t, products[0].ForExchange)
	})

	t.Run("selling listing is empty but not null", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/Api/Product/GetSellingProducts", token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestUnknownRoute(t *testing.T) {
	e := newTestRouter(&stubStore{})

	rec := doRequest(e, http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	errBody := decodeError(t, rec)
	assert.Equal(t, "Route not found", errBody.Message)
}
