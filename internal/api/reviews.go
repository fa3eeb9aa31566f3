package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/kentci/backoffice/internal/events"
	"github.com/kentci/backoffice/pkg/models"
)

func (s *Server) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]
	var req models.CreateReviewRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	now := time.Now()
	review := &models.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Approved:  false, // reviews wait for moderation
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.publishReviewSaved(review)
	s.recordAudit(ctx, r, "review.created", "review", review.ID, "product "+productID)
	s.respondWithJSON(w, http.StatusCreated, review)
}

func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]
	includeUnapproved := r.URL.Query().Get("all") == "true"

	reviews, err := s.store.ListReviewsByProduct(r.Context(), productID, includeUnapproved)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

func (s *Server) ApproveReview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	review, err := s.store.ApproveReview(r.Context(), id)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.publishReviewSaved(review)
	s.recordAudit(r.Context(), r, "review.approved", "review", review.ID, "")
	s.respondWithJSON(w, http.StatusOK, review)
}

func (s *Server) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	review, err := s.store.SoftDeleteReview(r.Context(), id)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	// Deleting an approved review changes the aggregate too.
	s.publishReviewSaved(review)
	s.recordAudit(r.Context(), r, "review.deleted", "review", id, "")
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Review deleted",
	})
}

func (s *Server) publishReviewSaved(review *models.Review) {
	if err := s.producer.PublishReviewSaved(events.ReviewSavedEvent{
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		Rating:    review.Rating,
		Approved:  review.Approved,
	}); err != nil {
		s.logger.WithError(err).Error("Failed to publish review saved event")
	}
}
