package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
	"splitledger/internal/store"
	"splitledger/internal/websocket"
)

// Consumer-side store interfaces. The engines depend on these seams so
// tests can stub storage without a database.

type AccountStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
	UpdateBalance(ctx context.Context, tx store.Execer, accountID string, balance decimal.Decimal) error
}

type ParticipantStore interface {
	GetActive(ctx context.Context, tx store.Getter, participantID string) (models.Participant, error)
	EligibleAccounts(ctx context.Context, tx store.Tx, participantID, paymentMethodID string) ([]store.EligibleAccount, error)
	OwnsAccount(ctx context.Context, tx store.Getter, participantID, accountID string) (bool, error)
}

type PaymentMethodStore interface {
	GetActive(ctx context.Context, tx store.Getter, methodID string) (models.PaymentMethod, error)
}

type CardStore interface {
	ActiveCardForAccounts(ctx context.Context, tx store.Tx, accountIDs []string) (models.Card, error)
}

type InvoiceStore interface {
	OpenForCard(ctx context.Context, tx store.Getter, cardID string, chargeDate time.Time) (models.Invoice, error)
	Accrue(ctx context.Context, tx store.Execer, invoiceID string, amount decimal.Decimal) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, transaction models.Transaction) error
	GetActiveForUpdate(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error)
	UpdateStatus(ctx context.Context, tx store.Execer, transactionID, status string) error
	MarkReversed(ctx context.Context, tx store.Execer, transactionID string) error
	InsertShare(ctx context.Context, tx store.Execer, share models.TransactionShare) error
	ActiveShares(ctx context.Context, tx store.Tx, transactionID string) ([]models.TransactionShare, error)
	SetShareReversal(ctx context.Context, tx store.Execer, shareID, reversalID string) error
}

type PaymentStore interface {
	Create(ctx context.Context, tx store.Execer, payment models.Payment) error
	GetForUpdate(ctx context.Context, tx store.Getter, paymentID string) (models.Payment, error)
	MarkReversed(ctx context.Context, tx store.Execer, paymentID, reason string, proof *string) error
	InsertLink(ctx context.Context, tx store.Execer, link models.PaymentTransactionLink) error
	LinksByPayment(ctx context.Context, tx store.Tx, paymentID string) ([]models.PaymentTransactionLink, error)
	SettledAmount(ctx context.Context, tx store.Getter, transactionID string) (decimal.Decimal, error)
	List(ctx context.Context, filter store.PaymentFilter, limit, offset int) ([]models.Payment, int, error)
}

type ReversalStore interface {
	Insert(ctx context.Context, tx store.Execer, reversal models.Reversal) error
}

// BalanceHub receives account balance changes after a unit of work
// commits.
type BalanceHub interface {
	BroadcastBalance(accountID string, update websocket.BalanceUpdate)
}
