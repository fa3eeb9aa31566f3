// Package reactor applies the post-write reactions: rating aggregation on
// review saves, order completion and loyalty points on payment completion,
// and stock-history bookkeeping on quantity changes.
package reactor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kentci/backoffice/internal/events"
	"github.com/kentci/backoffice/internal/store"
	"github.com/kentci/backoffice/pkg/models"
)

type Reactor struct {
	store  store.Store
	logger *logrus.Logger
}

var _ events.Handler = (*Reactor)(nil)

func New(s store.Store, logger *logrus.Logger) *Reactor {
	return &Reactor{store: s, logger: logger}
}

func (r *Reactor) HandleOrderCreated(ctx context.Context, event events.OrderCreatedEvent) error {
	r.logger.WithFields(logrus.Fields{
		"order_id": event.OrderID,
		"user_id":  event.UserID,
		"total":    event.Total,
	}).Info("Order created")
	return nil
}

// HandlePaymentCompleted flips the paid order to completed, awards loyalty
// points and records the transition in the audit log. Replays are no-ops.
func (r *Reactor) HandlePaymentCompleted(ctx context.Context, event events.PaymentCompletedEvent) error {
	order, err := r.store.GetOrder(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", event.OrderID, err)
	}

	switch order.Status {
	case models.OrderCompleted:
		r.logger.WithField("order_id", order.ID).Info("Order already completed, skipping")
		return nil
	case models.OrderCancelled:
		r.logger.WithFields(logrus.Fields{
			"order_id":   order.ID,
			"payment_id": event.PaymentID,
		}).Warn("Payment completed for a cancelled order")
		return nil
	}

	order, err = r.store.CompleteOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			// Lost the race with another consumer; the order is done.
			return nil
		}
		return fmt.Errorf("complete order %s: %w", order.ID, err)
	}

	points := order.LoyaltyPoints()
	if points > 0 {
		if err := r.store.AddLoyaltyPoints(ctx, order.UserID, points); err != nil {
			r.logger.WithError(err).WithField("user_id", order.UserID).Error("Failed to award loyalty points")
		}
	}

	entry := &models.AuditLog{
		Actor:      "reactor",
		Action:     "order.completed",
		EntityType: "order",
		EntityID:   order.ID,
		Detail:     fmt.Sprintf("payment %s completed, %d loyalty points awarded", event.PaymentID, points),
		CreatedAt:  time.Now(),
	}
	if err := r.store.AppendAuditLog(ctx, entry); err != nil {
		r.logger.WithError(err).Error("Failed to append audit log")
	}

	r.logger.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"payment_id":     event.PaymentID,
		"loyalty_points": points,
	}).Info("Order completed after payment")
	return nil
}

// HandleReviewSaved recomputes the product rating from approved reviews.
func (r *Reactor) HandleReviewSaved(ctx context.Context, event events.ReviewSavedEvent) error {
	reviews, err := r.store.ListReviewsByProduct(ctx, event.ProductID, true)
	if err != nil {
		return fmt.Errorf("list reviews for %s: %w", event.ProductID, err)
	}

	rating, approved := models.AverageRating(reviews)
	if err := r.store.UpdateProductRating(ctx, event.ProductID, rating, approved); err != nil {
		return fmt.Errorf("update rating for %s: %w", event.ProductID, err)
	}

	r.logger.WithFields(logrus.Fields{
		"product_id":   event.ProductID,
		"rating":       rating,
		"review_count": approved,
	}).Info("Product rating recomputed")
	return nil
}

// HandleStockAdjusted appends the stock-history row and warns when a product
// runs low.
func (r *Reactor) HandleStockAdjusted(ctx context.Context, event events.StockAdjustedEvent) error {
	entry := &models.StockHistory{
		ProductID:     event.ProductID,
		Delta:         event.Delta,
		QuantityAfter: event.QuantityAfter,
		Reason:        event.Reason,
		CreatedAt:     event.EventTime,
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := r.store.AppendStockHistory(ctx, entry); err != nil {
		return fmt.Errorf("append stock history for %s: %w", event.ProductID, err)
	}

	product, err := r.store.GetProduct(ctx, event.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if status := product.StockStatus(); status != models.StockInStock {
		r.logger.WithFields(logrus.Fields{
			"product_id": product.ID,
			"sku":        product.SKU,
			"quantity":   product.Quantity,
			"status":     status,
		}).Warn("Product stock is low")
	}
	return nil
}
