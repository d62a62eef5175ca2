package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
)

type InvoiceStore struct {
	db DB
}

func NewInvoiceStore(db DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

func (s *InvoiceStore) Create(ctx context.Context, invoice models.Invoice) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (id, card_id, closing_date, due_date, total_amount, status, justification)
		VALUES ($1, $2, $3, $4, 0.00, $5, $6)
	`, invoice.ID, invoice.CardID, invoice.ClosingDate, invoice.DueDate, invoice.Status, invoice.Justification)
	return err
}

func (s *InvoiceStore) List(ctx context.Context) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, card_id, closing_date, due_date, total_amount, status, justification, active, created_at
		FROM invoices
		WHERE active
		ORDER BY closing_date DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *InvoiceStore) Update(ctx context.Context, invoice models.Invoice) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE invoices
		SET card_id = $1, closing_date = $2, due_date = $3, total_amount = $4, status = $5, justification = $6
		WHERE id = $7 AND active
	`, invoice.CardID, invoice.ClosingDate, invoice.DueDate, invoice.TotalAmount, invoice.Status, invoice.Justification, invoice.ID)
	return err
}

func (s *InvoiceStore) Deactivate(ctx context.Context, invoiceID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE invoices SET active = FALSE WHERE id = $1`, invoiceID)
	return err
}

// OpenForCard returns the card's invoice whose billing window contains the
// charge date. The canonical window rule is closing_date <= d < due_date.
func (s *InvoiceStore) OpenForCard(ctx context.Context, tx Getter, cardID string, chargeDate time.Time) (models.Invoice, error) {
	var row models.Invoice
	err := tx.GetContext(ctx, &row, `
		SELECT id, card_id, closing_date, due_date, total_amount, status, justification, active, created_at
		FROM invoices
		WHERE card_id = $1 AND active AND status = 'open'
		  AND closing_date <= $2 AND $2 < due_date
		ORDER BY closing_date DESC
		LIMIT 1
	`, cardID, chargeDate)
	if err != nil {
		return models.Invoice{}, err
	}
	return row, nil
}

// Accrue adds a credit-card charge to the invoice's running total.
func (s *InvoiceStore) Accrue(ctx context.Context, tx Execer, invoiceID string, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE invoices SET total_amount = total_amount + $1 WHERE id = $2
	`, amount, invoiceID)
	return err
}
