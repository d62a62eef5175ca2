package store

import (
	"context"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
)

type ParticipantStore struct {
	db DB
}

func NewParticipantStore(db DB) *ParticipantStore {
	return &ParticipantStore{db: db}
}

func (s *ParticipantStore) Create(ctx context.Context, participant models.Participant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participants (id, name, description, uses_account)
		VALUES ($1, $2, $3, $4)
	`, participant.ID, participant.Name, participant.Description, participant.UsesAccount)
	return err
}

// GetActive returns the participant only when it exists and is active.
func (s *ParticipantStore) GetActive(ctx context.Context, tx Getter, participantID string) (models.Participant, error) {
	var row models.Participant
	err := tx.GetContext(ctx, &row, `
		SELECT id, name, description, uses_account, active, created_at
		FROM participants
		WHERE id = $1 AND active
	`, participantID)
	if err != nil {
		return models.Participant{}, err
	}
	return row, nil
}

func (s *ParticipantStore) Update(ctx context.Context, participantID, name, description string, usesAccount bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE participants
		SET name = $1, description = $2, uses_account = $3
		WHERE id = $4 AND active
	`, name, description, usesAccount, participantID)
	return err
}

func (s *ParticipantStore) Deactivate(ctx context.Context, participantID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE participants SET active = FALSE WHERE id = $1`, participantID)
	return err
}

type ParticipantWithAccounts struct {
	models.Participant
	LinkedAccounts *string `db:"linked_accounts"`
}

func (s *ParticipantStore) List(ctx context.Context) ([]ParticipantWithAccounts, error) {
	var rows []ParticipantWithAccounts
	err := s.db.SelectContext(ctx, &rows, `
		SELECT p.id, p.name, p.description, p.uses_account, p.active, p.created_at,
		       STRING_AGG(a.name, ', ') AS linked_accounts
		FROM participants p
		LEFT JOIN participant_accounts pa ON pa.participant_id = p.id AND pa.active
		LEFT JOIN accounts a ON a.id = pa.account_id
		WHERE p.active
		GROUP BY p.id
		ORDER BY p.name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AssignAccounts starts a new generation of participant-account links.
// The previous generation is deactivated rather than deleted so balance
// history written against it stays reconstructible.
func (s *ParticipantStore) AssignAccounts(ctx context.Context, tx Execer, participantID string, links []ParticipantAccountLinkInput) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE participant_accounts SET active = FALSE WHERE participant_id = $1
	`, participantID); err != nil {
		return err
	}
	for _, link := range links {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO participant_accounts (id, participant_id, account_id)
			VALUES ($1, $2, $3)
		`, link.ID, participantID, link.AccountID); err != nil {
			return err
		}
	}
	return nil
}

type ParticipantAccountLinkInput struct {
	ID        string
	AccountID string
}

// EligibleAccount is an account reachable from a participant through an
// active link and also linked to the payment method in use.
type EligibleAccount struct {
	ID             string          `db:"id"`
	Name           string          `db:"name"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
}

func (s *ParticipantStore) EligibleAccounts(ctx context.Context, tx Tx, participantID, paymentMethodID string) ([]EligibleAccount, error) {
	var rows []EligibleAccount
	err := tx.SelectContext(ctx, &rows, `
		SELECT a.id, a.name, a.current_balance
		FROM participant_accounts pa
		JOIN accounts a ON a.id = pa.account_id AND a.active
		JOIN account_payment_methods apm
		  ON apm.account_id = a.id AND apm.active AND apm.payment_method_id = $1
		WHERE pa.participant_id = $2 AND pa.active
		ORDER BY a.created_at
	`, paymentMethodID, participantID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// OwnsAccount reports whether the account belongs to the participant via
// an active link.
func (s *ParticipantStore) OwnsAccount(ctx context.Context, tx Getter, participantID, accountID string) (bool, error) {
	var owns bool
	err := tx.GetContext(ctx, &owns, `
		SELECT EXISTS (
			SELECT 1 FROM participant_accounts
			WHERE participant_id = $1 AND account_id = $2 AND active
		)
	`, participantID, accountID)
	return owns, err
}
