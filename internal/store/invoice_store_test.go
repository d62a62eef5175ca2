package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestInvoiceStoreOpenForCardUsesBillingWindow(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewInvoiceStore(db)

	chargeDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	closing := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM invoices(?s:.*)status = 'open'(?s:.*)closing_date <= \$2 AND \$2 < due_date`).
		WithArgs("card-1", chargeDate).
		WillReturnRows(sqlmock.NewRows([]string{"id", "card_id", "closing_date", "due_date", "total_amount", "status", "active", "created_at"}).
			AddRow("inv-1", "card-1", closing, due, "120.00", "open", true, time.Now()))

	invoice, err := store.OpenForCard(context.Background(), db, "card-1", chargeDate)
	require.NoError(t, err)
	require.Equal(t, "inv-1", invoice.ID)
	require.True(t, invoice.TotalAmount.Equal(decimalFromString(t, "120.00")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceStoreOpenForCardNoCycle(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewInvoiceStore(db)

	chargeDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM invoices`).
		WithArgs("card-1", chargeDate).
		WillReturnError(sql.ErrNoRows)

	_, err := store.OpenForCard(context.Background(), db, "card-1", chargeDate)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceStoreAccrue(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewInvoiceStore(db)

	mock.ExpectExec(`UPDATE invoices SET total_amount = total_amount \+ \$1 WHERE id = \$2`).
		WithArgs(decimalFromString(t, "45.00"), "inv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Accrue(context.Background(), db, "inv-1", decimalFromString(t, "45.00"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
