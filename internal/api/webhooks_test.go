package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentci/backoffice/pkg/models"
)

func (e *testEnv) createPayment(t *testing.T, order *models.Order) *models.Payment {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/payments", models.CreatePaymentRequest{
		Amount: order.Total,
		Method: "card",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var payment models.Payment
	decodeBody(t, rec, &payment)
	return &payment
}

func (e *testEnv) webhookEntries(t *testing.T) []*models.WebhookLog {
	t.Helper()
	entries, err := e.store.ListWebhookLog(context.Background(), 0)
	require.NoError(t, err)
	return entries
}

func TestWebhookSettlesPayment(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 40.00, 10)
	order := env.placeOrder(t, user, product, 1)
	payment := env.createPayment(t, order)

	rec := env.do(t, http.MethodPost, "/webhooks/payments/kaspi", map[string]string{
		"event_type": "payment.succeeded",
		"payment_id": payment.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	settled, err := env.store.GetPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, settled.Status)

	require.Len(t, env.producer.paymentsDone, 1)
	assert.Equal(t, order.ID, env.producer.paymentsDone[0].OrderID)

	entries := env.webhookEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "kaspi", entries[0].Provider)
	assert.Equal(t, models.WebhookProcessed, entries[0].Status)
}

func TestWebhookRetryOfSettledPaymentIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 40.00, 10)
	order := env.placeOrder(t, user, product, 1)
	payment := env.createPayment(t, order)

	body := map[string]string{
		"event_type": "payment.succeeded",
		"payment_id": payment.ID,
	}
	rec := env.do(t, http.MethodPost, "/webhooks/payments/kaspi", body)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/webhooks/payments/kaspi", body)
	require.Equal(t, http.StatusOK, rec.Code)

	// Only the first delivery publishes; the retry is logged as ignored.
	assert.Len(t, env.producer.paymentsDone, 1)
	entries := env.webhookEntries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, models.WebhookIgnored, entries[0].Status)
}

func TestWebhookMalformedPayloadLoggedAndAccepted(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments/kaspi", strings.NewReader("not json at all"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := env.webhookEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.WebhookInvalid, entries[0].Status)
}

func TestWebhookUnknownEventTypeIgnored(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/webhooks/payments/kaspi", map[string]string{
		"event_type": "payment.refunded",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	entries := env.webhookEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.WebhookIgnored, entries[0].Status)
	assert.Equal(t, "payment.refunded", entries[0].EventType)
}

func TestWebhookProviderRefScopedByProvider(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, 40.00, 10)

	// Two providers can hand out the same reference; settling one must not
	// touch the other's payment.
	orderA := env.placeOrder(t, user, product, 1)
	rec := env.do(t, http.MethodPost, "/api/v1/orders/"+orderA.ID+"/payments", models.CreatePaymentRequest{
		Amount:      orderA.Total,
		Method:      "card",
		Provider:    "kaspi",
		ProviderRef: "REF-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var paymentA models.Payment
	decodeBody(t, rec, &paymentA)

	orderB := env.placeOrder(t, user, product, 1)
	rec = env.do(t, http.MethodPost, "/api/v1/orders/"+orderB.ID+"/payments", models.CreatePaymentRequest{
		Amount:      orderB.Total,
		Method:      "card",
		Provider:    "halyk",
		ProviderRef: "REF-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var paymentB models.Payment
	decodeBody(t, rec, &paymentB)

	rec = env.do(t, http.MethodPost, "/webhooks/payments/halyk", map[string]string{
		"event_type":   "payment.succeeded",
		"provider_ref": "REF-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	settled, err := env.store.GetPayment(context.Background(), paymentB.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, settled.Status)

	untouched, err := env.store.GetPayment(context.Background(), paymentA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, untouched.Status)
}

func TestWebhookUnknownPaymentLoggedAsInvalid(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/webhooks/payments/kaspi", map[string]string{
		"event_type": "payment.succeeded",
		"payment_id": "no-such-payment",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	entries := env.webhookEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.WebhookInvalid, entries[0].Status)
}
