package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/kentci/backoffice/internal/store"
	"github.com/kentci/backoffice/pkg/models"
)

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) ([]store.StockAdjustment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, user_id, status, coupon_code, subtotal, discount, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, query, order.ID, order.UserID, order.Status,
		order.CouponCode, order.Subtotal, order.Discount, order.Total,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}

	var adjustments []store.StockAdjustment
	for _, item := range order.Items {
		itemQuery := `
			INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err = tx.ExecContext(ctx, itemQuery, order.ID, item.ProductID,
			item.ProductName, item.UnitPrice, item.Quantity)
		if err != nil {
			return nil, err
		}

		var quantityAfter int
		stockQuery := `
			UPDATE products SET quantity = quantity - $2, updated_at = $3
			WHERE id = $1 AND is_deleted = FALSE AND quantity >= $2
			RETURNING quantity
		`
		err = tx.QueryRowContext(ctx, stockQuery, item.ProductID, item.Quantity, time.Now()).Scan(&quantityAfter)
		if err == sql.ErrNoRows {
			return nil, store.ErrInsufficientStock
		}
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, store.StockAdjustment{
			ProductID:     item.ProductID,
			Delta:         -item.Quantity,
			QuantityAfter: quantityAfter,
			Reason:        "order " + order.ID,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return adjustments, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, user_id, status, coupon_code, subtotal, discount, total, created_at, updated_at
		FROM orders WHERE id = $1
	`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.Status, &order.CouponCode,
		&order.Subtotal, &order.Discount, &order.Total, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	if err := s.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Store) loadItems(ctx context.Context, order *models.Order) error {
	query := `
		SELECT product_id, product_name, unit_price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (s *Store) ListOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	query := `
		SELECT id, user_id, status, coupon_code, subtotal, discount, total, created_at, updated_at
		FROM orders ORDER BY created_at DESC
	`
	args := []interface{}{}
	if userID != "" {
		query = `
			SELECT id, user_id, status, coupon_code, subtotal, discount, total, created_at, updated_at
			FROM orders WHERE user_id = $1 ORDER BY created_at DESC
		`
		args = append(args, userID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.CouponCode,
			&order.Subtotal, &order.Discount, &order.Total, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := s.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *Store) CompleteOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanOrderTransition(order.Status, models.OrderCompleted) {
		return nil, store.ErrInvalidTransition
	}

	order.Status = models.OrderCompleted
	order.UpdatedAt = time.Now()
	_, err = s.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, order.Status, order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Store) CancelOrder(ctx context.Context, id string) (*models.Order, []store.StockAdjustment, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !models.CanOrderTransition(order.Status, models.OrderCancelled) {
		return nil, nil, store.ErrInvalidTransition
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	order.Status = models.OrderCancelled
	order.UpdatedAt = time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, order.Status, order.UpdatedAt)
	if err != nil {
		return nil, nil, err
	}

	var adjustments []store.StockAdjustment
	for _, item := range order.Items {
		var quantityAfter int
		query := `
			UPDATE products SET quantity = quantity + $2, updated_at = $3
			WHERE id = $1 RETURNING quantity
		`
		err = tx.QueryRowContext(ctx, query, item.ProductID, item.Quantity, time.Now()).Scan(&quantityAfter)
		if err != nil {
			return nil, nil, err
		}
		adjustments = append(adjustments, store.StockAdjustment{
			ProductID:     item.ProductID,
			Delta:         item.Quantity,
			QuantityAfter: quantityAfter,
			Reason:        "order " + order.ID + " cancelled",
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return order, adjustments, nil
}

func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, amount, method, status, provider, provider_ref, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query, payment.ID, payment.OrderID, payment.Amount,
		payment.Method, payment.Status, payment.Provider, payment.ProviderRef,
		payment.CreatedAt, payment.CompletedAt)
	return translateErr(err)
}

func (s *Store) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	query := `
		SELECT id, order_id, amount, method, status, provider, provider_ref, created_at, completed_at
		FROM payments WHERE id = $1
	`
	return s.scanPayment(ctx, query, id)
}

func (s *Store) GetPaymentByProviderRef(ctx context.Context, provider, ref string) (*models.Payment, error) {
	if ref == "" {
		return nil, store.ErrNotFound
	}
	query := `
		SELECT id, order_id, amount, method, status, provider, provider_ref, created_at, completed_at
		FROM payments WHERE provider = $1 AND provider_ref = $2
	`
	return s.scanPayment(ctx, query, provider, ref)
}

func (s *Store) scanPayment(ctx context.Context, query string, args ...interface{}) (*models.Payment, error) {
	payment := &models.Payment{}
	var completedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID, &payment.OrderID, &payment.Amount, &payment.Method,
		&payment.Status, &payment.Provider, &payment.ProviderRef, &payment.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	if completedAt.Valid {
		payment.CompletedAt = &completedAt.Time
	}
	return payment, nil
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id, status string) (*models.Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanPaymentTransition(payment.Status, status) {
		return nil, store.ErrInvalidTransition
	}

	payment.Status = status
	if status == models.PaymentCompleted {
		now := time.Now()
		payment.CompletedAt = &now
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE payments SET status = $2, completed_at = $3 WHERE id = $1`,
		id, payment.Status, payment.CompletedAt)
	if err != nil {
		return nil, err
	}
	return payment, nil
}
