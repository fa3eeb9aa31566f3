package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/kentci/backoffice/internal/events"
	"github.com/kentci/backoffice/internal/store/memory"
	"github.com/kentci/backoffice/pkg/models"
)

// fakeProducer records published events instead of touching Kafka.
type fakeProducer struct {
	mu            sync.Mutex
	ordersCreated []events.OrderCreatedEvent
	paymentsDone  []events.PaymentCompletedEvent
	reviewsSaved  []events.ReviewSavedEvent
	stockAdjusted []events.StockAdjustedEvent
}

func (p *fakeProducer) PublishOrderCreated(e events.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ordersCreated = append(p.ordersCreated, e)
	return nil
}

func (p *fakeProducer) PublishPaymentCompleted(e events.PaymentCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paymentsDone = append(p.paymentsDone, e)
	return nil
}

func (p *fakeProducer) PublishReviewSaved(e events.ReviewSavedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reviewsSaved = append(p.reviewsSaved, e)
	return nil
}

func (p *fakeProducer) PublishStockAdjusted(e events.StockAdjustedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stockAdjusted = append(p.stockAdjusted, e)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

type testEnv struct {
	server   *Server
	router   *mux.Router
	store    *memory.Store
	producer *fakeProducer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests

	s := memory.New()
	producer := &fakeProducer{}
	server := NewServer(s, producer, logger)
	return &testEnv{
		server:   server,
		router:   server.Router(),
		store:    s,
		producer: producer,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "test-admin")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func (e *testEnv) seedUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New().String(),
		Username:  "user-" + uuid.New().String()[:8],
		Email:     uuid.New().String()[:8] + "@example.com",
		Role:      models.RoleCustomer,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, e.store.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) seedCategory(t *testing.T) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:        uuid.New().String(),
		Slug:      "cat-" + uuid.New().String()[:8],
		Name:      models.LocalizedText{"en": "Electronics"},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, e.store.CreateCategory(context.Background(), category))
	return category
}

func (e *testEnv) seedProduct(t *testing.T, price float64, quantity int) *models.Product {
	t.Helper()
	category := e.seedCategory(t)
	product := &models.Product{
		ID:                uuid.New().String(),
		CategoryID:        category.ID,
		SKU:               "SKU-" + uuid.New().String()[:8],
		Name:              models.LocalizedText{"en": "Widget", "kk": "Виджет"},
		Price:             price,
		Quantity:          quantity,
		LowStockThreshold: 2,
		IsActive:          true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	require.NoError(t, e.store.CreateProduct(context.Background(), product))
	return product
}

func (e *testEnv) seedCoupon(t *testing.T, code string, percent float64) *models.Coupon {
	t.Helper()
	now := time.Now()
	coupon := &models.Coupon{
		ID:         uuid.New().String(),
		Code:       code,
		Percent:    percent,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, e.store.CreateCoupon(context.Background(), coupon))
	return coupon
}

func (e *testEnv) placeOrder(t *testing.T, user *models.User, product *models.Product, qty int) *models.Order {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/orders", models.CreateOrderRequest{
		UserID: user.ID,
		Items:  []models.CreateOrderItemRequest{{ProductID: product.ID, Quantity: qty}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order models.Order
	decodeBody(t, rec, &order)
	return &order
}
