package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kentci/backoffice/internal/store"
	"github.com/kentci/backoffice/pkg/models"
)

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	name, err := marshalJSON(category.Name)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO categories (id, slug, name, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query, category.ID, category.Slug, name,
		category.IsDeleted, category.CreatedAt, category.UpdatedAt)
	return translateErr(err)
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	query := `
		SELECT id, slug, name, is_deleted, created_at, updated_at
		FROM categories WHERE id = $1 AND is_deleted = FALSE
	`
	return s.scanCategory(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) scanCategory(row *sql.Row) (*models.Category, error) {
	category := &models.Category{}
	var name []byte
	err := row.Scan(&category.ID, &category.Slug, &name, &category.IsDeleted,
		&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	if err := unmarshalJSON(name, &category.Name); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT id, slug, name, is_deleted, created_at, updated_at
		FROM categories WHERE is_deleted = FALSE ORDER BY slug
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		var name []byte
		err := rows.Scan(&category.ID, &category.Slug, &name, &category.IsDeleted,
			&category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if err := unmarshalJSON(name, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}
	if req.Name != nil {
		category.Name = req.Name
	}
	category.UpdatedAt = time.Now()

	name, err := marshalJSON(category.Name)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE categories SET slug = $2, name = $3, updated_at = $4 WHERE id = $1 AND is_deleted = FALSE`,
		id, category.Slug, name, category.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return category, nil
}

func (s *Store) SoftDeleteCategory(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET is_deleted = TRUE, updated_at = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, time.Now())
	if err != nil {
		return err
	}
	return requireAffected(result)
}

const productColumns = `id, category_id, sku, name, description, price, quantity,
	low_stock_threshold, tags, image_urls, video_urls, rating, review_count,
	is_active, is_deleted, created_at, updated_at`

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	name, err := marshalJSON(product.Name)
	if err != nil {
		return err
	}
	description, err := marshalJSON(product.Description)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = s.db.ExecContext(ctx, query, product.ID, product.CategoryID, product.SKU,
		name, description, product.Price, product.Quantity, product.LowStockThreshold,
		pq.Array(product.Tags), pq.Array(product.ImageURLs), pq.Array(product.VideoURLs),
		product.Rating, product.ReviewCount, product.IsActive, product.IsDeleted,
		product.CreatedAt, product.UpdatedAt)
	return translateErr(err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	var name, description []byte
	err := row.Scan(&product.ID, &product.CategoryID, &product.SKU, &name, &description,
		&product.Price, &product.Quantity, &product.LowStockThreshold,
		pq.Array(&product.Tags), pq.Array(&product.ImageURLs), pq.Array(&product.VideoURLs),
		&product.Rating, &product.ReviewCount, &product.IsActive, &product.IsDeleted,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	if err := unmarshalJSON(name, &product.Name); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(description, &product.Description); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_deleted = FALSE`
	return scanProduct(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	where := "is_deleted = FALSE"
	args := []interface{}{}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where += fmt.Sprintf(" AND $%d = ANY(tags)", len(args))
	}
	// Stock status is derived from quantity vs. threshold, so it has to be
	// part of the WHERE clause for the count and pagination to agree.
	switch filter.StockStatus {
	case "":
	case models.StockOutOfStock:
		where += " AND quantity <= 0"
	case models.StockLowStock:
		where += " AND quantity > 0 AND quantity <= low_stock_threshold"
	case models.StockInStock:
		where += " AND quantity > low_stock_threshold"
	default:
		where += " AND FALSE"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where + ` ORDER BY created_at DESC`
	if filter.Page > 0 && filter.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.PageSize, (filter.Page-1)*filter.PageSize)
	} else {
		query += " LIMIT 100"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	return products, total, rows.Err()
}

func (s *Store) UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		product.Name = req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.ImageURLs != nil {
		product.ImageURLs = req.ImageURLs
	}
	if req.VideoURLs != nil {
		product.VideoURLs = req.VideoURLs
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.UpdatedAt = time.Now()

	name, err := marshalJSON(product.Name)
	if err != nil {
		return nil, err
	}
	description, err := marshalJSON(product.Description)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE products SET category_id = $2, name = $3, description = $4, price = $5,
			low_stock_threshold = $6, tags = $7, image_urls = $8, video_urls = $9,
			is_active = $10, updated_at = $11
		WHERE id = $1 AND is_deleted = FALSE
	`
	_, err = s.db.ExecContext(ctx, query, id, product.CategoryID, name, description,
		product.Price, product.LowStockThreshold, pq.Array(product.Tags),
		pq.Array(product.ImageURLs), pq.Array(product.VideoURLs), product.IsActive,
		product.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return product, nil
}

func (s *Store) SoftDeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET is_deleted = TRUE, updated_at = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, time.Now())
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (s *Store) AdjustStock(ctx context.Context, productID string, delta int, reason string) (*store.StockAdjustment, error) {
	var quantityAfter int
	query := `
		UPDATE products SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1 AND is_deleted = FALSE AND quantity + $2 >= 0
		RETURNING quantity
	`
	err := s.db.QueryRowContext(ctx, query, productID, delta, time.Now()).Scan(&quantityAfter)
	if err == sql.ErrNoRows {
		// Distinguish a missing product from an underflow.
		if _, getErr := s.GetProduct(ctx, productID); getErr != nil {
			return nil, getErr
		}
		return nil, store.ErrInsufficientStock
	}
	if err != nil {
		return nil, err
	}
	return &store.StockAdjustment{
		ProductID:     productID,
		Delta:         delta,
		QuantityAfter: quantityAfter,
		Reason:        reason,
	}, nil
}

func (s *Store) UpdateProductRating(ctx context.Context, productID string, rating float64, reviewCount int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET rating = $2, review_count = $3, updated_at = $4 WHERE id = $1`,
		productID, rating, reviewCount, time.Now())
	if err != nil {
		return err
	}
	return requireAffected(result)
}
