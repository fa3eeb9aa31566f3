// Package api exposes the back-office as a JSON API over gorilla/mux.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kentci/backoffice/internal/events"
	"github.com/kentci/backoffice/internal/store"
	"github.com/kentci/backoffice/pkg/models"
)

// ActivityHub receives entity-change notifications for the live admin feed.
type ActivityHub interface {
	Broadcast(action, entityType, entityID, actor string, data interface{})
}

type Server struct {
	store    store.Store
	producer events.Producer
	logger   *logrus.Logger
	validate *validator.Validate
	hub      ActivityHub
}

func NewServer(s store.Store, producer events.Producer, logger *logrus.Logger) *Server {
	return &Server{
		store:    s,
		producer: producer,
		logger:   logger,
		validate: validator.New(),
	}
}

func (s *Server) SetActivityHub(hub ActivityHub) {
	s.hub = hub
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/users", s.CreateUser).Methods("POST")
	api.HandleFunc("/users", s.ListUsers).Methods("GET")
	api.HandleFunc("/users/{id}", s.GetUser).Methods("GET")
	api.HandleFunc("/users/{id}", s.UpdateUser).Methods("PUT")
	api.HandleFunc("/users/{id}", s.DeleteUser).Methods("DELETE")

	api.HandleFunc("/categories", s.CreateCategory).Methods("POST")
	api.HandleFunc("/categories", s.ListCategories).Methods("GET")
	api.HandleFunc("/categories/{id}", s.GetCategory).Methods("GET")
	api.HandleFunc("/categories/{id}", s.UpdateCategory).Methods("PUT")
	api.HandleFunc("/categories/{id}", s.DeleteCategory).Methods("DELETE")

	api.HandleFunc("/products", s.CreateProduct).Methods("POST")
	api.HandleFunc("/products", s.ListProducts).Methods("GET")
	api.HandleFunc("/products/{id}", s.GetProduct).Methods("GET")
	api.HandleFunc("/products/{id}", s.UpdateProduct).Methods("PUT")
	api.HandleFunc("/products/{id}", s.DeleteProduct).Methods("DELETE")
	api.HandleFunc("/products/{id}/stock", s.AdjustStock).Methods("POST")
	api.HandleFunc("/products/{id}/reviews", s.CreateReview).Methods("POST")
	api.HandleFunc("/products/{id}/reviews", s.ListReviews).Methods("GET")

	api.HandleFunc("/reviews/{id}/approve", s.ApproveReview).Methods("POST")
	api.HandleFunc("/reviews/{id}", s.DeleteReview).Methods("DELETE")

	api.HandleFunc("/users/{id}/cart", s.GetCart).Methods("GET")
	api.HandleFunc("/users/{id}/cart", s.AddCartItem).Methods("POST")
	api.HandleFunc("/users/{id}/cart/{productID}", s.RemoveCartItem).Methods("DELETE")
	api.HandleFunc("/users/{id}/wishlist", s.GetWishlist).Methods("GET")
	api.HandleFunc("/users/{id}/wishlist", s.AddWishlistItem).Methods("POST")
	api.HandleFunc("/users/{id}/wishlist/{productID}", s.RemoveWishlistItem).Methods("DELETE")

	api.HandleFunc("/orders", s.CreateOrder).Methods("POST")
	api.HandleFunc("/orders", s.ListOrders).Methods("GET")
	api.HandleFunc("/orders/{id}", s.GetOrder).Methods("GET")
	api.HandleFunc("/orders/{id}/cancel", s.CancelOrder).Methods("POST")
	api.HandleFunc("/orders/{id}/payments", s.CreatePayment).Methods("POST")

	api.HandleFunc("/payments/{id}", s.GetPayment).Methods("GET")
	api.HandleFunc("/payments/{id}/complete", s.CompletePayment).Methods("POST")
	api.HandleFunc("/payments/{id}/fail", s.FailPayment).Methods("POST")

	api.HandleFunc("/coupons", s.CreateCoupon).Methods("POST")
	api.HandleFunc("/coupons", s.ListCoupons).Methods("GET")
	api.HandleFunc("/coupons/{code}", s.GetCoupon).Methods("GET")
	api.HandleFunc("/coupons/{code}", s.UpdateCoupon).Methods("PUT")
	api.HandleFunc("/coupons/{code}", s.DeleteCoupon).Methods("DELETE")

	api.HandleFunc("/audit", s.ListAuditLog).Methods("GET")
	api.HandleFunc("/stock-history", s.ListStockHistory).Methods("GET")
	api.HandleFunc("/webhooks/log", s.ListWebhookLog).Methods("GET")

	// The /ws activity feed endpoint is registered by the main, which owns
	// the hub.
	router.HandleFunc("/webhooks/payments/{provider}", s.PaymentWebhook).Methods("POST")

	router.Use(loggingMiddleware(s.logger))
	return router
}

func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"service": "backoffice",
			"error":   "database connection failed",
		})
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "backoffice",
	})
}

// actor identifies the admin performing the request for audit and activity
// purposes. Authentication is handled upstream.
func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return "anonymous"
}

// recordAudit appends an audit row and mirrors it onto the activity feed.
func (s *Server) recordAudit(ctx context.Context, r *http.Request, action, entityType, entityID, detail string) {
	entry := &models.AuditLog{
		Actor:      actor(r),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now(),
	}
	if err := s.store.AppendAuditLog(ctx, entry); err != nil {
		s.logger.WithError(err).Error("Failed to append audit log")
	}
	if s.hub != nil {
		s.hub.Broadcast(action, entityType, entityID, entry.Actor, nil)
	}
}

func loggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			logger.WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"remote": r.RemoteAddr,
			}).Info("Request received")

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).Milliseconds(),
			}).Info("Request completed")
		})
	}
}
