package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kentci/backoffice/internal/events"
	"github.com/kentci/backoffice/internal/store"
	"github.com/kentci/backoffice/pkg/models"
)

func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	lines := req.Items
	if req.FromCart {
		cart, err := s.store.GetCart(ctx, req.UserID)
		if err != nil {
			s.respondWithStoreError(w, err)
			return
		}
		if len(cart) == 0 {
			s.respondWithError(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		lines = lines[:0]
		for _, item := range cart {
			lines = append(lines, models.CreateOrderItemRequest{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
	}

	// Snapshot name and price per item so later catalog edits don't rewrite
	// order history.
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.store.GetProduct(ctx, line.ProductID)
		if err != nil {
			s.respondWithStoreError(w, err)
			return
		}
		if !product.IsActive {
			s.respondWithError(w, http.StatusConflict, "Product is not active: "+product.SKU)
			return
		}
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name.Get("en"),
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
		})
	}

	var coupon *models.Coupon
	if req.CouponCode != "" {
		var err error
		coupon, err = s.store.GetCouponByCode(ctx, req.CouponCode)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.respondWithStoreError(w, store.ErrCouponNotRedeemable)
				return
			}
			s.respondWithStoreError(w, err)
			return
		}
		if !coupon.Redeemable(time.Now()) {
			s.respondWithStoreError(w, store.ErrCouponNotRedeemable)
			return
		}
	}

	now := time.Now()
	order := &models.Order{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Items:     items,
		Status:    models.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.ComputeTotals(coupon)

	adjustments, err := s.store.CreateOrder(ctx, order)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	if req.FromCart {
		if err := s.store.ClearCart(ctx, req.UserID); err != nil {
			s.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to clear cart")
		}
	}

	if err := s.producer.PublishOrderCreated(events.OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	}); err != nil {
		s.logger.WithError(err).Error("Failed to publish order created event")
	}
	s.publishAdjustments(adjustments)

	s.logger.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"user_id":     order.UserID,
		"total":       order.Total,
		"items_count": len(order.Items),
	}).Info("Order created")

	s.recordAudit(ctx, r, "order.created", "order", order.ID, "")
	s.respondWithJSON(w, http.StatusCreated, order)
}

func (s *Server) publishAdjustments(adjustments []store.StockAdjustment) {
	for _, adj := range adjustments {
		if err := s.producer.PublishStockAdjusted(events.StockAdjustedEvent{
			ProductID:     adj.ProductID,
			Delta:         adj.Delta,
			QuantityAfter: adj.QuantityAfter,
			Reason:        adj.Reason,
		}); err != nil {
			s.logger.WithError(err).Error("Failed to publish stock adjusted event")
		}
	}
}

func (s *Server) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.ListOrders(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.store.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, order)
}

func (s *Server) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	order, adjustments, err := s.store.CancelOrder(r.Context(), id)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.publishAdjustments(adjustments)

	s.logger.WithField("order_id", order.ID).Info("Order cancelled")
	s.recordAudit(r.Context(), r, "order.cancelled", "order", order.ID, "")
	s.respondWithJSON(w, http.StatusOK, order)
}

func (s *Server) CreatePayment(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	var req models.CreatePaymentRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	if order.Status != models.OrderPending {
		s.respondWithStoreError(w, store.ErrInvalidTransition)
		return
	}
	if req.Amount != order.Total {
		s.respondWithError(w, http.StatusBadRequest, "Payment amount does not match order total")
		return
	}

	payment := &models.Payment{
		ID:          uuid.New().String(),
		OrderID:     order.ID,
		Amount:      req.Amount,
		Method:      req.Method,
		Status:      models.PaymentPending,
		Provider:    req.Provider,
		ProviderRef: req.ProviderRef,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(ctx, r, "payment.created", "payment", payment.ID, "order "+order.ID)
	s.respondWithJSON(w, http.StatusCreated, payment)
}

func (s *Server) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := s.store.GetPayment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, payment)
}

func (s *Server) CompletePayment(w http.ResponseWriter, r *http.Request) {
	s.settlePayment(w, r, models.PaymentCompleted)
}

func (s *Server) FailPayment(w http.ResponseWriter, r *http.Request) {
	s.settlePayment(w, r, models.PaymentFailed)
}

func (s *Server) settlePayment(w http.ResponseWriter, r *http.Request, status string) {
	id := mux.Vars(r)["id"]
	payment, err := s.store.UpdatePaymentStatus(r.Context(), id, status)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	if status == models.PaymentCompleted {
		event := events.PaymentCompletedEvent{
			PaymentID: payment.ID,
			OrderID:   payment.OrderID,
			Amount:    payment.Amount,
		}
		if payment.CompletedAt != nil {
			event.CompletedAt = *payment.CompletedAt
		}
		if err := s.producer.PublishPaymentCompleted(event); err != nil {
			s.logger.WithError(err).Error("Failed to publish payment completed event")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"order_id":   payment.OrderID,
		"status":     payment.Status,
	}).Info("Payment settled")

	s.recordAudit(r.Context(), r, "payment."+status, "payment", payment.ID, "")
	s.respondWithJSON(w, http.StatusOK, payment)
}
