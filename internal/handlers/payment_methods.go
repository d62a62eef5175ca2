package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"splitledger/internal/models"
)

type paymentMethodRequest struct {
	Name string `json:"name" validate:"required"`
	Kind string `json:"kind" validate:"required"`
}

func (h *Handler) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if !decodeValid(w, r, &req) {
		return
	}
	method := models.PaymentMethod{
		ID:   uuid.NewString(),
		Name: req.Name,
		Kind: req.Kind,
	}
	if err := h.methods.Create(r.Context(), method); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create payment method")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": method.ID})
}

func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.methods.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load payment methods")
		return
	}
	respondJSON(w, http.StatusOK, methods)
}

func (h *Handler) UpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	methodID := chi.URLParam(r, "id")
	var req paymentMethodRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := h.methods.Update(r.Context(), methodID, req.Name, req.Kind); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update payment method")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": methodID})
}

func (h *Handler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	methodID := chi.URLParam(r, "id")
	if err := h.methods.Deactivate(r.Context(), methodID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete payment method")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": methodID})
}
