package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"splitledger/internal/money"
	"splitledger/internal/obs"
	"splitledger/internal/services"
	"splitledger/internal/store"
)

type paymentLinkRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
}

type createPaymentRequest struct {
	Description              string               `json:"description" validate:"required"`
	TotalAmount              string               `json:"total_amount" validate:"required"`
	Type                     string               `json:"type"`
	PaymentMethodID          string               `json:"payment_method_id" validate:"required"`
	SourceAccountID          *string              `json:"source_account_id"`
	SourceParticipantID      *string              `json:"source_participant_id"`
	DestinationParticipantID string               `json:"destination_participant_id" validate:"required"`
	DestinationAccountID     *string              `json:"destination_account_id"`
	Transactions             []paymentLinkRequest `json:"transactions" validate:"dive"`
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if !decodeValid(w, r, &req) {
		return
	}
	total, err := money.ParsePositive(req.TotalAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	links := make([]services.PaymentLinkInput, 0, len(req.Transactions))
	for _, link := range req.Transactions {
		amount, err := money.ParsePositive(link.Amount)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		links = append(links, services.PaymentLinkInput{
			TransactionID: link.TransactionID,
			Amount:        amount,
		})
	}
	paymentID, err := h.settlements.CreatePayment(r.Context(), services.CreatePaymentRequest{
		Description:              req.Description,
		TotalAmount:              total,
		Type:                     req.Type,
		PaymentMethodID:          req.PaymentMethodID,
		SourceAccountID:          req.SourceAccountID,
		SourceParticipantID:      req.SourceParticipantID,
		DestinationParticipantID: req.DestinationParticipantID,
		DestinationAccountID:     req.DestinationAccountID,
		Links:                    links,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	obs.PaymentsCreated.Inc()
	respondJSON(w, http.StatusCreated, map[string]string{"payment_id": paymentID})
}

type reversePaymentRequest struct {
	Reason string  `json:"reason" validate:"required"`
	Proof  *string `json:"proof"`
}

func (h *Handler) ReversePayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")
	var req reversePaymentRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := h.settlements.ReversePayment(r.Context(), paymentID, req.Reason, req.Proof); err != nil {
		respondServiceError(w, err)
		return
	}
	obs.PaymentsReversed.Inc()
	respondJSON(w, http.StatusOK, map[string]string{"status": "reversed"})
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.PaymentFilter{
		Status:                   query.Get("status"),
		PaymentMethodID:          query.Get("payment_method_id"),
		DestinationParticipantID: query.Get("destination_participant_id"),
	}
	if raw := query.Get("start_date"); raw != "" {
		start, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_date")
			return
		}
		filter.StartDate = &start
	}
	if raw := query.Get("end_date"); raw != "" {
		end, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_date")
			return
		}
		// Inclusive end of day.
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}
	page := parseInt(query.Get("page"), 1)
	pageSize := parseInt(query.Get("page_size"), 10)
	payments, total, err := h.settlements.ListPayments(r.Context(), filter, page, pageSize)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load payments")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"payments":  payments,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
