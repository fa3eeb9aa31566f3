package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/kentci/backoffice/pkg/models"
)

func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("Failed to hash password")
		s.respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        req.Phone,
		Address:      req.Address,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("User created")

	s.recordAudit(r.Context(), r, "user.created", "user", user.ID, user.Username)
	s.respondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req models.UpdateUserRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := s.store.UpdateUser(r.Context(), id, &req)
	if err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(r.Context(), r, "user.updated", "user", user.ID, "")
	s.respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.SoftDeleteUser(r.Context(), id); err != nil {
		s.respondWithStoreError(w, err)
		return
	}

	s.recordAudit(r.Context(), r, "user.deleted", "user", id, "")
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted",
	})
}
