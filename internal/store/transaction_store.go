package store

import (
	"context"

	"splitledger/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, transaction models.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, description, total_amount, occurred_on, payment_method_id, category, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, transaction.ID, transaction.Description, transaction.TotalAmount, transaction.OccurredOn,
		transaction.PaymentMethodID, transaction.Category, transaction.Status)
	return err
}

// GetActiveForUpdate locks an active transaction row so that concurrent
// settlements and reversals serialize on it.
func (s *TransactionStore) GetActiveForUpdate(ctx context.Context, tx Getter, transactionID string) (models.Transaction, error) {
	var row models.Transaction
	err := tx.GetContext(ctx, &row, `
		SELECT id, description, total_amount, occurred_on, payment_method_id, category, status, reversed, active, created_at
		FROM transactions
		WHERE id = $1 AND active
		FOR UPDATE
	`, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}
	return row, nil
}

func (s *TransactionStore) UpdateStatus(ctx context.Context, tx Execer, transactionID, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE transactions SET status = $1 WHERE id = $2`, status, transactionID)
	return err
}

func (s *TransactionStore) MarkReversed(ctx context.Context, tx Execer, transactionID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transactions SET reversed = TRUE, status = $1 WHERE id = $2
	`, models.TransactionReversed, transactionID)
	return err
}

func (s *TransactionStore) InsertShare(ctx context.Context, tx Execer, share models.TransactionShare) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transaction_shares (id, transaction_id, participant_id, account_id, share_amount, pre_balance, post_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, share.ID, share.TransactionID, share.ParticipantID, share.AccountID,
		share.ShareAmount, share.PreBalance, share.PostBalance)
	return err
}

// ActiveShares returns the not-yet-reversed shares of a transaction.
func (s *TransactionStore) ActiveShares(ctx context.Context, tx Tx, transactionID string) ([]models.TransactionShare, error) {
	var rows []models.TransactionShare
	err := tx.SelectContext(ctx, &rows, `
		SELECT id, transaction_id, participant_id, account_id, share_amount, pre_balance, post_balance, reversal_id, active, created_at
		FROM transaction_shares
		WHERE transaction_id = $1 AND active AND reversal_id IS NULL
		ORDER BY created_at
	`, transactionID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) SetShareReversal(ctx context.Context, tx Execer, shareID, reversalID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transaction_shares SET reversal_id = $1 WHERE id = $2
	`, reversalID, shareID)
	return err
}

type TransactionWithShares struct {
	models.Transaction
	Participants *string `db:"participants"`
}

func (s *TransactionStore) List(ctx context.Context, limit, offset int) ([]TransactionWithShares, error) {
	var rows []TransactionWithShares
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.description, t.total_amount, t.occurred_on, t.payment_method_id,
		       t.category, t.status, t.reversed, t.active, t.created_at,
		       STRING_AGG(p.name || ' (' || ts.share_amount || ')', ', ') AS participants
		FROM transactions t
		LEFT JOIN transaction_shares ts ON ts.transaction_id = t.id AND ts.active
		LEFT JOIN participants p ON p.id = ts.participant_id
		WHERE t.active
		GROUP BY t.id
		ORDER BY t.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
