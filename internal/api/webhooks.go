package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kentci/backoffice/internal/events"
	"github.com/kentci/backoffice/internal/store"
	"github.com/kentci/backoffice/pkg/models"
)

// providerEvent is the subset of a payment-provider callback we act on.
type providerEvent struct {
	EventType   string `json:"event_type"`
	PaymentID   string `json:"payment_id"`
	ProviderRef string `json:"provider_ref"`
}

// PaymentWebhook ingests provider callbacks. Every payload is logged, valid
// or not, and the response is always 200 so providers stop retrying.
func (s *Server) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	entry := &models.WebhookLog{
		Provider:   provider,
		Payload:    body,
		Status:     models.WebhookInvalid,
		ReceivedAt: time.Now(),
	}

	var event providerEvent
	if jsonErr := json.Unmarshal(body, &event); jsonErr != nil || event.EventType == "" {
		s.logger.WithField("provider", provider).Warn("Malformed webhook payload")
		s.appendWebhookLog(ctx, entry)
		s.respondWithJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}
	entry.EventType = event.EventType

	switch event.EventType {
	case "payment.succeeded":
		entry.Status = s.settleFromWebhook(ctx, provider, event, models.PaymentCompleted)
	case "payment.failed":
		entry.Status = s.settleFromWebhook(ctx, provider, event, models.PaymentFailed)
	default:
		entry.Status = models.WebhookIgnored
	}

	s.appendWebhookLog(ctx, entry)
	s.respondWithJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (s *Server) settleFromWebhook(ctx context.Context, provider string, event providerEvent, status string) string {
	payment, err := s.lookupPayment(ctx, provider, event)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"provider":   provider,
			"event_type": event.EventType,
		}).Warn("Webhook references unknown payment")
		return models.WebhookInvalid
	}

	payment, err = s.store.UpdatePaymentStatus(ctx, payment.ID, status)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			// Provider retried a settled payment.
			return models.WebhookIgnored
		}
		s.logger.WithError(err).Error("Failed to settle payment from webhook")
		return models.WebhookInvalid
	}

	if status == models.PaymentCompleted {
		out := events.PaymentCompletedEvent{
			PaymentID: payment.ID,
			OrderID:   payment.OrderID,
			Amount:    payment.Amount,
		}
		if payment.CompletedAt != nil {
			out.CompletedAt = *payment.CompletedAt
		}
		if err := s.producer.PublishPaymentCompleted(out); err != nil {
			s.logger.WithError(err).Error("Failed to publish payment completed event")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"provider":   provider,
		"status":     status,
	}).Info("Payment settled from webhook")
	return models.WebhookProcessed
}

func (s *Server) lookupPayment(ctx context.Context, provider string, event providerEvent) (*models.Payment, error) {
	if event.PaymentID != "" {
		return s.store.GetPayment(ctx, event.PaymentID)
	}
	return s.store.GetPaymentByProviderRef(ctx, provider, event.ProviderRef)
}

func (s *Server) appendWebhookLog(ctx context.Context, entry *models.WebhookLog) {
	if err := s.store.AppendWebhookLog(ctx, entry); err != nil {
		s.logger.WithError(err).Error("Failed to append webhook log")
	}
}
