package postgres

import (
	"context"
	"time"

	"github.com/kentci/backoffice/pkg/models"
)

func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, approved, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query, review.ID, review.ProductID, review.UserID,
		review.Rating, review.Comment, review.Approved, review.IsDeleted,
		review.CreatedAt, review.UpdatedAt)
	return translateErr(err)
}

func (s *Store) GetReview(ctx context.Context, id string) (*models.Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, comment, approved, is_deleted, created_at, updated_at
		FROM reviews WHERE id = $1 AND is_deleted = FALSE
	`
	review := &models.Review{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID, &review.ProductID, &review.UserID, &review.Rating, &review.Comment,
		&review.Approved, &review.IsDeleted, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return review, nil
}

func (s *Store) ListReviewsByProduct(ctx context.Context, productID string, includeUnapproved bool) ([]models.Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, comment, approved, is_deleted, created_at, updated_at
		FROM reviews WHERE product_id = $1 AND is_deleted = FALSE
	`
	if !includeUnapproved {
		query += ` AND approved = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		err := rows.Scan(&review.ID, &review.ProductID, &review.UserID, &review.Rating,
			&review.Comment, &review.Approved, &review.IsDeleted,
			&review.CreatedAt, &review.UpdatedAt)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (s *Store) ApproveReview(ctx context.Context, id string) (*models.Review, error) {
	review, err := s.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	review.Approved = true
	review.UpdatedAt = time.Now()
	_, err = s.db.ExecContext(ctx,
		`UPDATE reviews SET approved = TRUE, updated_at = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, review.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Store) SoftDeleteReview(ctx context.Context, id string) (*models.Review, error) {
	review, err := s.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	review.IsDeleted = true
	review.UpdatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`UPDATE reviews SET is_deleted = TRUE, updated_at = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, review.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(result); err != nil {
		return nil, err
	}
	return review, nil
}
