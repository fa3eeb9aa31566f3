package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kentci/backoffice/internal/store"
)

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// respondWithStoreError maps store sentinel errors onto HTTP statuses.
func (s *Server) respondWithStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.respondWithError(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, store.ErrConflict):
		s.respondWithError(w, http.StatusConflict, "Record already exists")
	case errors.Is(err, store.ErrInvalidTransition):
		s.respondWithError(w, http.StatusConflict, "Invalid status transition")
	case errors.Is(err, store.ErrInsufficientStock):
		s.respondWithError(w, http.StatusConflict, "Insufficient stock")
	case errors.Is(err, store.ErrCouponNotRedeemable):
		s.respondWithError(w, http.StatusConflict, "Coupon not redeemable")
	default:
		s.logger.WithError(err).Error("Store operation failed")
		s.respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation, writing the error response itself on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.logger.WithError(err).Error("Failed to decode request body")
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			details := make([]map[string]string, 0, len(fieldErrors))
			for _, fieldErr := range fieldErrors {
				details = append(details, map[string]string{
					"field": fieldErr.Field(),
					"rule":  fieldErr.Tag(),
				})
			}
			s.respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"message": "Validation failed",
				"errors":  details,
			})
			return false
		}
		s.respondWithError(w, http.StatusBadRequest, "Validation failed")
		return false
	}
	return true
}
