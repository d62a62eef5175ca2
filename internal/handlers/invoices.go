package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"splitledger/internal/models"
	"splitledger/internal/money"
)

type invoiceRequest struct {
	CardID        string  `json:"card_id" validate:"required"`
	ClosingDate   string  `json:"closing_date" validate:"required"`
	DueDate       string  `json:"due_date" validate:"required"`
	TotalAmount   string  `json:"total_amount"`
	Status        string  `json:"status"`
	Justification *string `json:"justification"`
}

func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if !decodeValid(w, r, &req) {
		return
	}
	closing, err := parseDate(req.ClosingDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	if !closing.Before(due) {
		respondError(w, http.StatusBadRequest, "closing_date must precede due_date")
		return
	}
	invoice := models.Invoice{
		ID:            uuid.NewString(),
		CardID:        req.CardID,
		ClosingDate:   closing,
		DueDate:       due,
		Status:        models.InvoiceOpen,
		Justification: req.Justification,
	}
	if err := h.invoices.Create(r.Context(), invoice); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create invoice")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": invoice.ID})
}

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load invoices")
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "id")
	var req invoiceRequest
	if !decodeValid(w, r, &req) {
		return
	}
	closing, err := parseDate(req.ClosingDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	if !closing.Before(due) {
		respondError(w, http.StatusBadRequest, "closing_date must precede due_date")
		return
	}
	total, err := money.Parse(req.TotalAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	status := req.Status
	if status == "" {
		status = models.InvoiceOpen
	}
	invoice := models.Invoice{
		ID:            invoiceID,
		CardID:        req.CardID,
		ClosingDate:   closing,
		DueDate:       due,
		TotalAmount:   total,
		Status:        status,
		Justification: req.Justification,
	}
	if err := h.invoices.Update(r.Context(), invoice); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update invoice")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": invoiceID})
}

func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "id")
	if err := h.invoices.Deactivate(r.Context(), invoiceID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete invoice")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": invoiceID})
}
