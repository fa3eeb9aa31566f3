package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/kentci/backoffice/pkg/models"
)

func (s *Server) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCouponRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	now := time.Now()
	coupon := &models.Coupon{
		ID:         uuid.New().String(),
		Code:       strings.ToUpper(req.Code),
		Percent:    req.Percent,
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateCoupon(r.Context(), coupon); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(r.Context(), r, "coupon.created", "coupon", coupon.ID, coupon.Code)
	s.respondWithJSON(w, http.StatusCreated, coupon)
}

func (s *Server) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := s.store.ListCoupons(r.Context())
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"coupons": coupons,
		"count":   len(coupons),
	})
}

func (s *Server) GetCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := s.store.GetCouponByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, coupon)
}

func (s *Server) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req models.UpdateCouponRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	coupon, err := s.store.UpdateCoupon(r.Context(), code, &req)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(r.Context(), r, "coupon.updated", "coupon", coupon.ID, coupon.Code)
	s.respondWithJSON(w, http.StatusOK, coupon)
}

func (s *Server) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := s.store.SoftDeleteCoupon(r.Context(), code); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(r.Context(), r, "coupon.deleted", "coupon", strings.ToUpper(code), "")
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Coupon deleted",
	})
}
