package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentci/backoffice/pkg/models"
)

func TestCreateOrderSnapshotsAndDecrementsStock(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 25.00, 10)

	order := env.placeOrder(t, user, product, 3)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 75.00, order.Subtotal)
	assert.Equal(t, 75.00, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Widget", order.Items[0].ProductName)
	assert.Equal(t, 25.00, order.Items[0].UnitPrice)

	rec := env.do(t, http.MethodGet, "/api/v1/products/"+product.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Quantity    int    `json:"quantity"`
		StockStatus string `json:"stock_status"`
	}
	decodeBody(t, rec, &view)
	assert.Equal(t, 7, view.Quantity)

	// Events: one order.created plus one stock.adjusted per item.
	require.Len(t, env.producer.ordersCreated, 1)
	assert.Equal(t, order.ID, env.producer.ordersCreated[0].OrderID)
	require.Len(t, env.producer.stockAdjusted, 1)
	assert.Equal(t, -3, env.producer.stockAdjusted[0].Delta)
	assert.Equal(t, 7, env.producer.stockAdjusted[0].QuantityAfter)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 10.00, 2)

	rec := env.do(t, http.MethodPost, "/api/v1/orders", models.CreateOrderRequest{
		UserID: user.ID,
		Items:  []models.CreateOrderItemRequest{{ProductID: product.ID, Quantity: 5}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, env.producer.ordersCreated)
}

func TestCreateOrderAppliesCoupon(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 50.00, 10)
	env.seedCoupon(t, "SAVE20", 20)

	rec := env.do(t, http.MethodPost, "/api/v1/orders", models.CreateOrderRequest{
		UserID:     user.ID,
		CouponCode: "SAVE20",
		Items:      []models.CreateOrderItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order models.Order
	decodeBody(t, rec, &order)
	assert.Equal(t, 100.00, order.Subtotal)
	assert.Equal(t, 20.00, order.Discount)
	assert.Equal(t, 80.00, order.Total)
	assert.Equal(t, "SAVE20", order.CouponCode)
}

func TestCreateOrderExpiredCouponRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 50.00, 10)
	coupon := env.seedCoupon(t, "EXPIRED", 20)
	active := false
	_, err := env.store.UpdateCoupon(context.Background(), coupon.Code, &models.UpdateCouponRequest{IsActive: &active})
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/v1/orders", models.CreateOrderRequest{
		UserID:     user.ID,
		CouponCode: "EXPIRED",
		Items:      []models.CreateOrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateOrderFromCart(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 15.00, 10)

	rec := env.do(t, http.MethodPost, "/api/v1/users/"+user.ID+"/cart", models.AddCartItemRequest{
		ProductID: product.ID,
		Quantity:  2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Adding the same product again increments the quantity.
	rec = env.do(t, http.MethodPost, "/api/v1/users/"+user.ID+"/cart", models.AddCartItemRequest{
		ProductID: product.ID,
		Quantity:  1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", models.CreateOrderRequest{
		UserID:   user.ID,
		FromCart: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order models.Order
	decodeBody(t, rec, &order)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 45.00, order.Total)

	// The cart is cleared after checkout.
	rec = env.do(t, http.MethodGet, "/api/v1/users/"+user.ID+"/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &cart)
	assert.Equal(t, 0, cart.Count)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	rec := env.do(t, http.MethodPost, "/api/v1/orders", models.CreateOrderRequest{
		UserID:   user.ID,
		FromCart: true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelOrderRestocks(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 10.00, 5)
	order := env.placeOrder(t, user, product, 4)

	rec := env.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cancelled models.Order
	decodeBody(t, rec, &cancelled)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	got, err := env.store.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	// Cancelling again is a conflict: cancelled is terminal.
	rec = env.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPaymentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 30.00, 10)
	order := env.placeOrder(t, user, product, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/payments", models.CreatePaymentRequest{
		Amount: 30.00,
		Method: "card",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payment models.Payment
	decodeBody(t, rec, &payment)
	assert.Equal(t, models.PaymentPending, payment.Status)

	rec = env.do(t, http.MethodPost, "/api/v1/payments/"+payment.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var completed models.Payment
	decodeBody(t, rec, &completed)
	assert.Equal(t, models.PaymentCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	require.Len(t, env.producer.paymentsDone, 1)
	assert.Equal(t, order.ID, env.producer.paymentsDone[0].OrderID)

	// Completed is terminal: failing it afterwards is a conflict.
	rec = env.do(t, http.MethodPost, "/api/v1/payments/"+payment.ID+"/fail", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPaymentAmountMustMatchTotal(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 30.00, 10)
	order := env.placeOrder(t, user, product, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/payments", models.CreatePaymentRequest{
		Amount: 10.00,
		Method: "card",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFailedPaymentPublishesNothing(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 30.00, 10)
	order := env.placeOrder(t, user, product, 1)

	rec := env.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/payments", models.CreatePaymentRequest{
		Amount: 30.00,
		Method: "card",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var payment models.Payment
	decodeBody(t, rec, &payment)

	rec = env.do(t, http.MethodPost, "/api/v1/payments/"+payment.ID+"/fail", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.producer.paymentsDone)
}
