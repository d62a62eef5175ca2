package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"splitledger/internal/money"
	"splitledger/internal/obs"
	"splitledger/internal/services"
)

type transactionShareRequest struct {
	ParticipantID string  `json:"participant_id" validate:"required"`
	Amount        *string `json:"amount"`
}

type createTransactionRequest struct {
	Description     string                    `json:"description" validate:"required"`
	TotalAmount     string                    `json:"total_amount" validate:"required"`
	Date            string                    `json:"date" validate:"required"`
	PaymentMethodID string                    `json:"payment_method_id" validate:"required"`
	Category        string                    `json:"category"`
	Participants    []transactionShareRequest `json:"participants" validate:"required,min=1,dive"`
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !decodeValid(w, r, &req) {
		return
	}
	total, err := money.ParsePositive(req.TotalAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	shares := make([]services.ShareInput, 0, len(req.Participants))
	for _, p := range req.Participants {
		share := services.ShareInput{ParticipantID: p.ParticipantID}
		if p.Amount != nil {
			amount, err := money.ParsePositive(*p.Amount)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid_amount")
				return
			}
			share.Amount = &amount
		}
		shares = append(shares, share)
	}
	transactionID, err := h.txEngine.CreateTransaction(r.Context(), services.CreateTransactionRequest{
		Description:     req.Description,
		TotalAmount:     total,
		Date:            date,
		PaymentMethodID: req.PaymentMethodID,
		Category:        req.Category,
		Participants:    shares,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	obs.TransactionsCreated.Inc()
	respondJSON(w, http.StatusCreated, map[string]string{"transaction_id": transactionID})
}

func (h *Handler) ReverseTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")
	if err := h.txEngine.ReverseTransaction(r.Context(), transactionID); err != nil {
		respondServiceError(w, err)
		return
	}
	obs.TransactionsReversed.Inc()
	respondJSON(w, http.StatusOK, map[string]string{"status": "reversed"})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	offset := (page - 1) * limit
	rows, err := h.transactions.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// parseDate accepts a plain calendar date or a full timestamp.
func parseDate(raw string) (time.Time, error) {
	if date, err := time.Parse("2006-01-02", raw); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, raw)
}
