package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
)

type PaymentStore struct {
	db DB
}

func NewPaymentStore(db DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Create(ctx context.Context, tx Execer, payment models.Payment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO payments (
			id, description, total_amount, type, payment_method_id,
			source_account_id, source_participant_id, destination_participant_id, destination_account_id,
			source_pre_balance, source_post_balance, dest_pre_balance, dest_post_balance, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, payment.ID, payment.Description, payment.TotalAmount, payment.Type, payment.PaymentMethodID,
		payment.SourceAccountID, payment.SourceParticipantID, payment.DestinationParticipantID, payment.DestinationAccountID,
		payment.SourcePreBalance, payment.SourcePostBalance, payment.DestPreBalance, payment.DestPostBalance,
		payment.Status)
	return err
}

func (s *PaymentStore) GetForUpdate(ctx context.Context, tx Getter, paymentID string) (models.Payment, error) {
	var row models.Payment
	err := tx.GetContext(ctx, &row, `
		SELECT id, description, total_amount, type, payment_method_id,
		       source_account_id, source_participant_id, destination_participant_id, destination_account_id,
		       source_pre_balance, source_post_balance, dest_pre_balance, dest_post_balance,
		       status, reversal_reason, reversal_proof, reversed_at, created_at
		FROM payments
		WHERE id = $1
		FOR UPDATE
	`, paymentID)
	if err != nil {
		return models.Payment{}, err
	}
	return row, nil
}

func (s *PaymentStore) MarkReversed(ctx context.Context, tx Execer, paymentID, reason string, proof *string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, reversal_reason = $2, reversal_proof = $3, reversed_at = NOW()
		WHERE id = $4
	`, models.PaymentReversed, reason, proof, paymentID)
	return err
}

func (s *PaymentStore) InsertLink(ctx context.Context, tx Execer, link models.PaymentTransactionLink) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO payment_transactions (
			id, payment_id, transaction_id, linked_amount, transaction_status_before, transaction_status_after
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, link.ID, link.PaymentID, link.TransactionID, link.LinkedAmount,
		link.TransactionStatusBefore, link.TransactionStatusAfter)
	return err
}

func (s *PaymentStore) LinksByPayment(ctx context.Context, tx Tx, paymentID string) ([]models.PaymentTransactionLink, error) {
	var rows []models.PaymentTransactionLink
	err := tx.SelectContext(ctx, &rows, `
		SELECT id, payment_id, transaction_id, linked_amount, transaction_status_before, transaction_status_after, created_at
		FROM payment_transactions
		WHERE payment_id = $1
		ORDER BY created_at
	`, paymentID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SettledAmount sums what active payments have already linked against a
// transaction. Links of reversed payments do not count toward the
// settlement bound.
func (s *PaymentStore) SettledAmount(ctx context.Context, tx Getter, transactionID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := tx.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(pt.linked_amount), 0)
		FROM payment_transactions pt
		JOIN payments p ON p.id = pt.payment_id AND p.status = 'active'
		WHERE pt.transaction_id = $1
	`, transactionID)
	return sum, err
}

// PaymentFilter narrows ListPayments; zero values mean "no filter".
type PaymentFilter struct {
	Status                   string
	PaymentMethodID          string
	DestinationParticipantID string
	StartDate                *time.Time
	EndDate                  *time.Time
}

func (s *PaymentStore) List(ctx context.Context, filter PaymentFilter, limit, offset int) ([]models.Payment, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	param := 1
	next := func() string {
		p := fmt.Sprintf("$%d", param)
		param++
		return p
	}
	if filter.Status != "" {
		where += " AND status = " + next()
		args = append(args, filter.Status)
	}
	if filter.PaymentMethodID != "" {
		where += " AND payment_method_id = " + next()
		args = append(args, filter.PaymentMethodID)
	}
	if filter.DestinationParticipantID != "" {
		where += " AND destination_participant_id = " + next()
		args = append(args, filter.DestinationParticipantID)
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		where += " AND created_at BETWEEN " + next() + " AND " + next()
		args = append(args, *filter.StartDate, *filter.EndDate)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM payments"+where, args...); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, description, total_amount, type, payment_method_id,
		       source_account_id, source_participant_id, destination_participant_id, destination_account_id,
		       source_pre_balance, source_post_balance, dest_pre_balance, dest_post_balance,
		       status, reversal_reason, reversal_proof, reversed_at, created_at
		FROM payments` + where + `
		ORDER BY created_at DESC
		LIMIT ` + next() + ` OFFSET ` + next()
	args = append(args, limit, offset)

	var rows []models.Payment
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
