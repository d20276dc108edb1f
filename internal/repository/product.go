package repository

import (
	"context"
	"time"

	"github.com/bazario/marketplace-api/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Product is a marketplace listing with its image set.
// Price is kept as a decimal string end to end; the database column is
// NUMERIC and arithmetic on it never happens in Go.
type Product struct {
	ID          string    `json:"productId"`
	UserID      string    `json:"userId"`
	ProductName string    `json:"productName"`
	Price       string    `json:"price"`
	ForExchange bool      `json:"forExchange"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	CityID      string    `json:"cityId"`
	ConditionID string    `json:"conditionId"`
	Images      []string  `json:"images"`
	LikeCount   int       `json:"likes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductInput carries the validated, parsed fields for create/update.
type ProductInput struct {
	UserID      string
	ProductName string
	Price       string
	ForExchange bool
	Description string
	CategoryID  string
	CityID      string
	ConditionID string
	Images      []string
}

// ProductRepository performs product persistence against PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
	log  *zerolog.Logger
}

// NewProductRepository constructs a ProductRepository from the app
// container.
func NewProductRepository(s *server.Server) *ProductRepository {
	return &ProductRepository{
		pool: s.DB.Pool,
		log:  s.Logger,
	}
}

const productColumns = `id, user_id, product_name, price::text, for_exchange,
	description, category_id, city_id, condition_id, like_count, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.UserID, &p.ProductName, &p.Price, &p.ForExchange,
		&p.Description, &p.CategoryID, &p.CityID, &p.ConditionID,
		&p.LikeCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product and its images in one transaction.
func (r *ProductRepository) Create(ctx context.Context, input ProductInput) (*Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO products (user_id, product_name, price, for_exchange,
			description, category_id, city_id, condition_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		input.UserID, input.ProductName, input.Price, input.ForExchange,
		input.Description, input.CategoryID, input.CityID, input.ConditionID,
	)
	product, err := scanProduct(row)
	if err != nil {
		return nil, err
	}

	if err := insertImages(ctx, tx, product.ID, input.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	product.Images = input.Images
	return product, nil
}

// Update rewrites a product's fields and replaces its image set.
// Returns pgx.ErrNoRows when the product does not exist.
func (r *ProductRepository) Update(ctx context.Context, productID string, input ProductInput) (*Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE products
		SET product_name = $2, price = $3, for_exchange = $4, description = $5,
			category_id = $6, city_id = $7, condition_id = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		productID, input.ProductName, input.Price, input.ForExchange,
		input.Description, input.CategoryID, input.CityID, input.ConditionID,
	)
	product, err := scanProduct(row)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return nil, err
	}
	if err := insertImages(ctx, tx, productID, input.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	product.Images = input.Images
	return product, nil
}

func insertImages(ctx context.Context, tx pgx.Tx, productID string, images []string) error {
	for i, url := range images {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_images (product_id, url, position)
			VALUES ($1, $2, $3)`,
			productID, url, i,
		); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a product; images, likes and cart entries cascade.
// Returns pgx.ErrNoRows when the product does not exist.
func (r *ProductRepository) Delete(ctx context.Context, productID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetByID fetches one product with its ordered image set.
// Returns pgx.ErrNoRows when the product does not exist.
func (r *ProductRepository) GetByID(ctx context.Context, productID string) (*Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1`,
		productID,
	)
	product, err := scanProduct(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT url FROM product_images
		WHERE product_id = $1
		ORDER BY position`,
		productID,
	)
	if err != nil {
		return nil, err
	}
	product.Images, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	return product, nil
}

// List returns a page of products filtered by the forExchange flag,
// newest first, images included.
func (r *ProductRepository) List(ctx context.Context, forExchange bool, limit, skip int) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.user_id, p.product_name, p.price::text, p.for_exchange,
			p.description, p.category_id, p.city_id, p.condition_id,
			p.like_count, p.created_at, p.updated_at,
			coalesce(array_agg(i.url ORDER BY i.position) FILTER (WHERE i.url IS NOT NULL), '{}') AS images
		FROM products p
		LEFT JOIN product_images i ON i.product_id = p.id
		WHERE p.for_exchange = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`,
		forExchange, limit, skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.ProductName, &p.Price, &p.ForExchange,
			&p.Description, &p.CategoryID, &p.CityID, &p.ConditionID,
			&p.LikeCount, &p.CreatedAt, &p.UpdatedAt, &p.Images,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ToggleLike likes a product for userID, or removes the like when it
// already exists. Reports whether the product is liked afterwards.
func (r *ProductRepository) ToggleLike(ctx context.Context, productID, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM product_likes
		WHERE product_id = $1 AND user_id = $2`,
		productID, userID,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	// Not previously liked: insert. A foreign key violation here means
	// the product does not exist and is mapped by sqlerr.
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO product_likes (product_id, user_id)
		VALUES ($1, $2)`,
		productID, userID,
	); err != nil {
		return false, err
	}
	return true, nil
}

// CountLikes returns the current number of likes for a product.
func (r *ProductRepository) CountLikes(ctx context.Context, productID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM product_likes WHERE product_id = $1`,
		productID,
	).Scan(&count)
	return count, err
}

// AddToCart inserts a cart entry for (userID, productID). A duplicate
// insert surfaces as a unique violation mapped by sqlerr.
func (r *ProductRepository) AddToCart(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id)
		VALUES ($1, $2)`,
		userID, productID,
	)
	return err
}
