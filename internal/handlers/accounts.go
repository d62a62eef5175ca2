package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"splitledger/internal/models"
	"splitledger/internal/money"
	"splitledger/internal/store"
)

type accountRequest struct {
	Name             string   `json:"name" validate:"required"`
	InitialBalance   string   `json:"initial_balance"`
	PaymentMethodIDs []string `json:"payment_method_ids"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !decodeValid(w, r, &req) {
		return
	}
	balance := decimal.Zero
	if req.InitialBalance != "" {
		parsed, err := money.Parse(req.InitialBalance)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		balance = parsed
	}
	account := models.Account{
		ID:             uuid.NewString(),
		Name:           req.Name,
		InitialBalance: balance,
		CurrentBalance: balance,
	}
	if err := h.accounts.Create(r.Context(), account); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create account")
		return
	}
	if len(req.PaymentMethodIDs) > 0 {
		if err := h.linkAccountMethods(r, account.ID, req.PaymentMethodIDs); err != nil {
			respondError(w, http.StatusInternalServerError, "unable to link payment methods")
			return
		}
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": account.ID})
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	account, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load account")
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

type updateAccountRequest struct {
	Name           string `json:"name" validate:"required"`
	CurrentBalance string `json:"current_balance" validate:"required"`
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	var req updateAccountRequest
	if !decodeValid(w, r, &req) {
		return
	}
	balance, err := money.Parse(req.CurrentBalance)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	if err := h.accounts.Update(r.Context(), accountID, req.Name, balance); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update account")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": accountID})
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if err := h.accounts.Deactivate(r.Context(), accountID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete account")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": accountID})
}

type accountMethodsRequest struct {
	PaymentMethodIDs []string `json:"payment_method_ids" validate:"required,min=1"`
}

func (h *Handler) SetAccountPaymentMethods(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	var req accountMethodsRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := h.linkAccountMethods(r, accountID, req.PaymentMethodIDs); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to link payment methods")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": accountID})
}

func (h *Handler) linkAccountMethods(r *http.Request, accountID string, methodIDs []string) error {
	links := make([]store.AccountMethodLinkInput, 0, len(methodIDs))
	for _, methodID := range methodIDs {
		links = append(links, store.AccountMethodLinkInput{
			ID:              uuid.NewString(),
			PaymentMethodID: methodID,
		})
	}
	return h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.accounts.SetPaymentMethods(r.Context(), tx, accountID, links)
	})
}
