package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"splitledger/internal/models"
	"splitledger/internal/store"
)

type participantRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	UsesAccount bool     `json:"uses_account"`
	AccountIDs  []string `json:"account_ids"`
}

func (h *Handler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if !decodeValid(w, r, &req) {
		return
	}
	participant := models.Participant{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		UsesAccount: req.UsesAccount,
	}
	if err := h.participants.Create(r.Context(), participant); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create participant")
		return
	}
	if len(req.AccountIDs) > 0 {
		if err := h.linkParticipantAccounts(r, participant.ID, req.AccountIDs); err != nil {
			respondError(w, http.StatusInternalServerError, "unable to link accounts")
			return
		}
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": participant.ID})
}

func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participants.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load participants")
		return
	}
	respondJSON(w, http.StatusOK, participants)
}

func (h *Handler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "id")
	var req participantRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := h.participants.Update(r.Context(), participantID, req.Name, req.Description, req.UsesAccount); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update participant")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": participantID})
}

func (h *Handler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "id")
	if err := h.participants.Deactivate(r.Context(), participantID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete participant")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": participantID})
}

type participantAccountsRequest struct {
	AccountIDs []string `json:"account_ids" validate:"required,min=1"`
}

// AssignParticipantAccounts replaces the participant's account links; the
// prior generation is deactivated, never deleted.
func (h *Handler) AssignParticipantAccounts(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "id")
	var req participantAccountsRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := h.linkParticipantAccounts(r, participantID, req.AccountIDs); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to link accounts")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": participantID})
}

func (h *Handler) linkParticipantAccounts(r *http.Request, participantID string, accountIDs []string) error {
	links := make([]store.ParticipantAccountLinkInput, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		links = append(links, store.ParticipantAccountLinkInput{
			ID:        uuid.NewString(),
			AccountID: accountID,
		})
	}
	return h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.participants.AssignAccounts(r.Context(), tx, participantID, links)
	})
}
