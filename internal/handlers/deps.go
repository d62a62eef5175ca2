package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
	"splitledger/internal/services"
	"splitledger/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, userID, name, email, role string) error
	Deactivate(ctx context.Context, userID string) error
}

type PaymentMethodStore interface {
	Create(ctx context.Context, method models.PaymentMethod) error
	List(ctx context.Context) ([]models.PaymentMethod, error)
	Update(ctx context.Context, methodID, name, kind string) error
	Deactivate(ctx context.Context, methodID string) error
}

type AccountStore interface {
	Create(ctx context.Context, account models.Account) error
	GetByID(ctx context.Context, accountID string) (models.Account, error)
	List(ctx context.Context) ([]store.AccountWithMethods, error)
	Update(ctx context.Context, accountID, name string, balance decimal.Decimal) error
	Deactivate(ctx context.Context, accountID string) error
	SetPaymentMethods(ctx context.Context, tx store.Execer, accountID string, links []store.AccountMethodLinkInput) error
}

type ParticipantStore interface {
	Create(ctx context.Context, participant models.Participant) error
	List(ctx context.Context) ([]store.ParticipantWithAccounts, error)
	Update(ctx context.Context, participantID, name, description string, usesAccount bool) error
	Deactivate(ctx context.Context, participantID string) error
	AssignAccounts(ctx context.Context, tx store.Execer, participantID string, links []store.ParticipantAccountLinkInput) error
}

type CardStore interface {
	Create(ctx context.Context, tx store.Execer, card models.Card) error
	List(ctx context.Context) ([]store.CardWithAccount, error)
	Update(ctx context.Context, tx store.Execer, card models.Card) error
	Deactivate(ctx context.Context, cardID string) error
	SetPaymentMethods(ctx context.Context, tx store.Execer, cardID string, links []store.CardMethodLinkInput) error
}

type InvoiceStore interface {
	Create(ctx context.Context, invoice models.Invoice) error
	List(ctx context.Context) ([]models.Invoice, error)
	Update(ctx context.Context, invoice models.Invoice) error
	Deactivate(ctx context.Context, invoiceID string) error
}

type TransactionStore interface {
	List(ctx context.Context, limit, offset int) ([]store.TransactionWithShares, error)
}

type TransactionEngine interface {
	CreateTransaction(ctx context.Context, req services.CreateTransactionRequest) (string, error)
	ReverseTransaction(ctx context.Context, transactionID string) error
}

type SettlementEngine interface {
	CreatePayment(ctx context.Context, req services.CreatePaymentRequest) (string, error)
	ReversePayment(ctx context.Context, paymentID, reason string, proof *string) error
	ListPayments(ctx context.Context, filter store.PaymentFilter, page, pageSize int) ([]models.Payment, int, error)
}
