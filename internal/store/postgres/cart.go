package postgres

import (
	"context"
	"time"

	"github.com/kentci/backoffice/pkg/models"
)

func (s *Store) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	query := `
		SELECT user_id, product_id, quantity, added_at
		FROM cart_items WHERE user_id = $1 ORDER BY added_at
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) UpsertCartItem(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	item := &models.CartItem{UserID: userID, ProductID: productID}
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING quantity, added_at
	`
	err := s.db.QueryRowContext(ctx, query, userID, productID, quantity, time.Now()).
		Scan(&item.Quantity, &item.AddedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return item, nil
}

func (s *Store) RemoveCartItem(ctx context.Context, userID, productID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

func (s *Store) GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	query := `
		SELECT user_id, product_id, added_at
		FROM wishlist_items WHERE user_id = $1 ORDER BY added_at
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.WishlistItem
	for rows.Next() {
		var item models.WishlistItem
		if err := rows.Scan(&item.UserID, &item.ProductID, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) AddWishlistItem(ctx context.Context, userID, productID string) (*models.WishlistItem, error) {
	item := &models.WishlistItem{UserID: userID, ProductID: productID, AddedAt: time.Now()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO wishlist_items (user_id, product_id, added_at) VALUES ($1, $2, $3)`,
		item.UserID, item.ProductID, item.AddedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return item, nil
}

func (s *Store) RemoveWishlistItem(ctx context.Context, userID, productID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
