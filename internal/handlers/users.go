package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"splitledger/internal/models"
)

type userRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = "member"
	}
	user := models.User{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create user")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": user.ID})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var req userRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := h.users.Update(r.Context(), userID, req.Name, req.Email, req.Role); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": userID})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := h.users.Deactivate(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": userID})
}
