package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
	"splitledger/internal/store"
)

// InvoiceGate resolves the open billing cycle of a credit card. A cycle is
// current for a charge date d when the invoice is open and
// closingDate <= d < dueDate.
type InvoiceGate struct {
	invoices InvoiceStore
}

func NewInvoiceGate(invoices InvoiceStore) *InvoiceGate {
	return &InvoiceGate{invoices: invoices}
}

func (g *InvoiceGate) ResolveOpenInvoice(ctx context.Context, tx store.Tx, cardID string, chargeDate time.Time) (models.Invoice, error) {
	invoice, err := g.invoices.OpenForCard(ctx, tx, cardID, chargeDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Invoice{}, ErrNoOpenInvoice
		}
		return models.Invoice{}, fmt.Errorf("resolve open invoice: %w", err)
	}
	return invoice, nil
}

// Accrue adds a credit-card charge to the cycle's running total so the
// invoice reflects total spend for the period.
func (g *InvoiceGate) Accrue(ctx context.Context, tx store.Tx, invoiceID string, amount decimal.Decimal) error {
	if err := g.invoices.Accrue(ctx, tx, invoiceID, amount); err != nil {
		return fmt.Errorf("accrue invoice charge: %w", err)
	}
	return nil
}
