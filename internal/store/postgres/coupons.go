package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/kentci/backoffice/pkg/models"
)

func (s *Store) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, percent, valid_from, valid_until, is_active, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query, coupon.ID, coupon.Code, coupon.Percent,
		coupon.ValidFrom, coupon.ValidUntil, coupon.IsActive, coupon.IsDeleted,
		coupon.CreatedAt, coupon.UpdatedAt)
	return translateErr(err)
}

func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	query := `
		SELECT id, code, percent, valid_from, valid_until, is_active, is_deleted, created_at, updated_at
		FROM coupons WHERE code = $1 AND is_deleted = FALSE
	`
	coupon := &models.Coupon{}
	err := s.db.QueryRowContext(ctx, query, strings.ToUpper(code)).Scan(
		&coupon.ID, &coupon.Code, &coupon.Percent, &coupon.ValidFrom, &coupon.ValidUntil,
		&coupon.IsActive, &coupon.IsDeleted, &coupon.CreatedAt, &coupon.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return coupon, nil
}

func (s *Store) ListCoupons(ctx context.Context) ([]*models.Coupon, error) {
	query := `
		SELECT id, code, percent, valid_from, valid_until, is_active, is_deleted, created_at, updated_at
		FROM coupons WHERE is_deleted = FALSE ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []*models.Coupon
	for rows.Next() {
		coupon := &models.Coupon{}
		err := rows.Scan(&coupon.ID, &coupon.Code, &coupon.Percent, &coupon.ValidFrom,
			&coupon.ValidUntil, &coupon.IsActive, &coupon.IsDeleted,
			&coupon.CreatedAt, &coupon.UpdatedAt)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}
	return coupons, rows.Err()
}

func (s *Store) UpdateCoupon(ctx context.Context, code string, req *models.UpdateCouponRequest) (*models.Coupon, error) {
	coupon, err := s.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if req.Percent != nil {
		coupon.Percent = *req.Percent
	}
	if req.ValidFrom != nil {
		coupon.ValidFrom = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		coupon.ValidUntil = *req.ValidUntil
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	coupon.UpdatedAt = time.Now()

	query := `
		UPDATE coupons SET percent = $2, valid_from = $3, valid_until = $4, is_active = $5, updated_at = $6
		WHERE code = $1 AND is_deleted = FALSE
	`
	_, err = s.db.ExecContext(ctx, query, coupon.Code, coupon.Percent, coupon.ValidFrom,
		coupon.ValidUntil, coupon.IsActive, coupon.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *Store) SoftDeleteCoupon(ctx context.Context, code string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE coupons SET is_deleted = TRUE, updated_at = $2 WHERE code = $1 AND is_deleted = FALSE`,
		strings.ToUpper(code), time.Now())
	if err != nil {
		return err
	}
	return requireAffected(result)
}
