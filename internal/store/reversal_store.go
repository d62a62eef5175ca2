package store

import (
	"context"

	"splitledger/internal/models"
)

// ReversalStore is append-only: a reversal record is written alongside
// every undo of a balance mutation and never updated or deleted.
type ReversalStore struct {
	db DB
}

func NewReversalStore(db DB) *ReversalStore {
	return &ReversalStore{db: db}
}

func (s *ReversalStore) Insert(ctx context.Context, tx Execer, reversal models.Reversal) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO reversals (id, target_type, target_id, account_id, amount, pre_balance, post_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, reversal.ID, reversal.TargetType, reversal.TargetID, reversal.AccountID,
		reversal.Amount, reversal.PreBalance, reversal.PostBalance)
	return err
}

func (s *ReversalStore) ListByTarget(ctx context.Context, targetType, targetID string) ([]models.Reversal, error) {
	var rows []models.Reversal
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, target_type, target_id, account_id, amount, pre_balance, post_balance, created_at
		FROM reversals
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at
	`, targetType, targetID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
