package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"splitledger/internal/models"
	"splitledger/internal/money"
	"splitledger/internal/store"
)

type cardRequest struct {
	Name             string   `json:"name" validate:"required"`
	AccountID        string   `json:"account_id" validate:"required"`
	CreditLimit      *string  `json:"credit_limit"`
	PaymentMethodIDs []string `json:"payment_method_ids"`
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !decodeValid(w, r, &req) {
		return
	}
	limit, err := parseCreditLimit(req.CreditLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	card := models.Card{
		ID:          uuid.NewString(),
		Name:        req.Name,
		AccountID:   req.AccountID,
		CreditLimit: limit,
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.cards.Create(r.Context(), tx, card); err != nil {
			return err
		}
		if len(req.PaymentMethodIDs) == 0 {
			return nil
		}
		return h.cards.SetPaymentMethods(r.Context(), tx, card.ID, cardMethodLinks(req.PaymentMethodIDs))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create card")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": card.ID})
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load cards")
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	var req cardRequest
	if !decodeValid(w, r, &req) {
		return
	}
	limit, err := parseCreditLimit(req.CreditLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	card := models.Card{
		ID:          cardID,
		Name:        req.Name,
		AccountID:   req.AccountID,
		CreditLimit: limit,
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.cards.Update(r.Context(), tx, card); err != nil {
			return err
		}
		if len(req.PaymentMethodIDs) == 0 {
			return nil
		}
		return h.cards.SetPaymentMethods(r.Context(), tx, cardID, cardMethodLinks(req.PaymentMethodIDs))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update card")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": cardID})
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	if err := h.cards.Deactivate(r.Context(), cardID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete card")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": cardID})
}

func cardMethodLinks(methodIDs []string) []store.CardMethodLinkInput {
	links := make([]store.CardMethodLinkInput, 0, len(methodIDs))
	for _, methodID := range methodIDs {
		links = append(links, store.CardMethodLinkInput{
			ID:              uuid.NewString(),
			PaymentMethodID: methodID,
		})
	}
	return links
}

func parseCreditLimit(raw *string) (decimal.NullDecimal, error) {
	if raw == nil || *raw == "" {
		return decimal.NullDecimal{}, nil
	}
	limit, err := money.ParsePositive(*raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(limit), nil
}
