package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kentci/backoffice/pkg/models"
)

func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	items, err := s.store.GetCart(r.Context(), userID)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

func (s *Server) AddCartItem(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	var req models.AddCartItemRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	if _, err := s.store.GetProduct(ctx, req.ProductID); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	item, err := s.store.UpsertCartItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, item)
}

func (s *Server) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.store.RemoveCartItem(r.Context(), vars["id"], vars["productID"]); err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item removed from cart",
	})
}

func (s *Server) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	items, err := s.store.GetWishlist(r.Context(), userID)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

func (s *Server) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	var req models.AddWishlistItemRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	if _, err := s.store.GetProduct(ctx, req.ProductID); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	item, err := s.store.AddWishlistItem(ctx, userID, req.ProductID)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusCreated, item)
}

func (s *Server) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.store.RemoveWishlistItem(r.Context(), vars["id"], vars["productID"]); err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item removed from wishlist",
	})
}
