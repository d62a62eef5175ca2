package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"splitledger/internal/services"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeValid decodes the JSON body into req and runs validator tags.
// Returns false after writing a 400 when either step fails.
func decodeValid(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return false
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "missing_fields")
		return false
	}
	return true
}

// respondServiceError maps the business sentinels onto HTTP statuses.
// Anything unrecognized is a storage failure and stays opaque.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, services.ErrAlreadyReversed):
		respondError(w, http.StatusConflict, "already_reversed")
	case errors.Is(err, services.ErrMissingFields):
		respondError(w, http.StatusBadRequest, "missing_fields")
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, services.ErrShareMismatch):
		respondError(w, http.StatusBadRequest, "share_mismatch")
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusBadRequest, "insufficient_funds")
	case errors.Is(err, services.ErrNoEligibleAccount):
		respondError(w, http.StatusBadRequest, "no_eligible_account")
	case errors.Is(err, services.ErrNoOpenInvoice):
		respondError(w, http.StatusBadRequest, "no_open_invoice")
	case errors.Is(err, services.ErrTransactionUnavailable):
		respondError(w, http.StatusBadRequest, "transaction_unavailable")
	case errors.Is(err, services.ErrOverSettlement):
		respondError(w, http.StatusBadRequest, "over_settlement")
	case errors.Is(err, services.ErrInvalidDestinationAccount):
		respondError(w, http.StatusBadRequest, "invalid_destination_account")
	case errors.Is(err, services.ErrMissingReason):
		respondError(w, http.StatusBadRequest, "missing_reason")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error")
	}
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
