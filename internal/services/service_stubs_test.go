package services

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"splitledger/internal/models"
	"splitledger/internal/store"
	"splitledger/internal/websocket"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubAccounts struct {
	getForUpdateFn  func(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
	updateBalanceFn func(ctx context.Context, tx store.Execer, accountID string, balance decimal.Decimal) error
}

func (s stubAccounts) GetForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.Account, error) {
	return s.getForUpdateFn(ctx, tx, accountID)
}

func (s stubAccounts) UpdateBalance(ctx context.Context, tx store.Execer, accountID string, balance decimal.Decimal) error {
	if s.updateBalanceFn == nil {
		return nil
	}
	return s.updateBalanceFn(ctx, tx, accountID, balance)
}

type stubParticipants struct {
	getActiveFn func(ctx context.Context, tx store.Getter, participantID string) (models.Participant, error)
	eligibleFn  func(ctx context.Context, tx store.Tx, participantID, paymentMethodID string) ([]store.EligibleAccount, error)
	ownsFn      func(ctx context.Context, tx store.Getter, participantID, accountID string) (bool, error)
}

func (s stubParticipants) GetActive(ctx context.Context, tx store.Getter, participantID string) (models.Participant, error) {
	if s.getActiveFn == nil {
		return models.Participant{ID: participantID, UsesAccount: true, Active: true}, nil
	}
	return s.getActiveFn(ctx, tx, participantID)
}

func (s stubParticipants) EligibleAccounts(ctx context.Context, tx store.Tx, participantID, paymentMethodID string) ([]store.EligibleAccount, error) {
	if s.eligibleFn == nil {
		return []store.EligibleAccount{{ID: "acc-" + participantID}}, nil
	}
	return s.eligibleFn(ctx, tx, participantID, paymentMethodID)
}

func (s stubParticipants) OwnsAccount(ctx context.Context, tx store.Getter, participantID, accountID string) (bool, error) {
	if s.ownsFn == nil {
		return true, nil
	}
	return s.ownsFn(ctx, tx, participantID, accountID)
}

type stubMethods struct {
	getActiveFn func(ctx context.Context, tx store.Getter, methodID string) (models.PaymentMethod, error)
}

func (s stubMethods) GetActive(ctx context.Context, tx store.Getter, methodID string) (models.PaymentMethod, error) {
	if s.getActiveFn == nil {
		return models.PaymentMethod{ID: methodID, Name: "cash", Kind: "cash", Active: true}, nil
	}
	return s.getActiveFn(ctx, tx, methodID)
}

type stubCards struct {
	activeCardFn func(ctx context.Context, tx store.Tx, accountIDs []string) (models.Card, error)
}

func (s stubCards) ActiveCardForAccounts(ctx context.Context, tx store.Tx, accountIDs []string) (models.Card, error) {
	return s.activeCardFn(ctx, tx, accountIDs)
}

type stubInvoices struct {
	openForCardFn func(ctx context.Context, tx store.Getter, cardID string, chargeDate time.Time) (models.Invoice, error)
	accrueFn      func(ctx context.Context, tx store.Execer, invoiceID string, amount decimal.Decimal) error
}

func (s stubInvoices) OpenForCard(ctx context.Context, tx store.Getter, cardID string, chargeDate time.Time) (models.Invoice, error) {
	return s.openForCardFn(ctx, tx, cardID, chargeDate)
}

func (s stubInvoices) Accrue(ctx context.Context, tx store.Execer, invoiceID string, amount decimal.Decimal) error {
	if s.accrueFn == nil {
		return nil
	}
	return s.accrueFn(ctx, tx, invoiceID, amount)
}

type stubTransactions struct {
	createFn             func(ctx context.Context, tx store.Execer, transaction models.Transaction) error
	getActiveForUpdateFn func(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error)
	updateStatusFn       func(ctx context.Context, tx store.Execer, transactionID, status string) error
	markReversedFn       func(ctx context.Context, tx store.Execer, transactionID string) error
	insertShareFn        func(ctx context.Context, tx store.Execer, share models.TransactionShare) error
	activeSharesFn       func(ctx context.Context, tx store.Tx, transactionID string) ([]models.TransactionShare, error)
	setShareReversalFn   func(ctx context.Context, tx store.Execer, shareID, reversalID string) error
}

func (s stubTransactions) Create(ctx context.Context, tx store.Execer, transaction models.Transaction) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, transaction)
}

func (s stubTransactions) GetActiveForUpdate(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error) {
	return s.getActiveForUpdateFn(ctx, tx, transactionID)
}

func (s stubTransactions) UpdateStatus(ctx context.Context, tx store.Execer, transactionID, status string) error {
	if s.updateStatusFn == nil {
		return nil
	}
	return s.updateStatusFn(ctx, tx, transactionID, status)
}

func (s stubTransactions) MarkReversed(ctx context.Context, tx store.Execer, transactionID string) error {
	if s.markReversedFn == nil {
		return nil
	}
	return s.markReversedFn(ctx, tx, transactionID)
}

func (s stubTransactions) InsertShare(ctx context.Context, tx store.Execer, share models.TransactionShare) error {
	if s.insertShareFn == nil {
		return nil
	}
	return s.insertShareFn(ctx, tx, share)
}

func (s stubTransactions) ActiveShares(ctx context.Context, tx store.Tx, transactionID string) ([]models.TransactionShare, error) {
	if s.activeSharesFn == nil {
		return nil, nil
	}
	return s.activeSharesFn(ctx, tx, transactionID)
}

func (s stubTransactions) SetShareReversal(ctx context.Context, tx store.Execer, shareID, reversalID string) error {
	if s.setShareReversalFn == nil {
		return nil
	}
	return s.setShareReversalFn(ctx, tx, shareID, reversalID)
}

type stubPayments struct {
	createFn         func(ctx context.Context, tx store.Execer, payment models.Payment) error
	getForUpdateFn   func(ctx context.Context, tx store.Getter, paymentID string) (models.Payment, error)
	markReversedFn   func(ctx context.Context, tx store.Execer, paymentID, reason string, proof *string) error
	insertLinkFn     func(ctx context.Context, tx store.Execer, link models.PaymentTransactionLink) error
	linksByPaymentFn func(ctx context.Context, tx store.Tx, paymentID string) ([]models.PaymentTransactionLink, error)
	settledFn        func(ctx context.Context, tx store.Getter, transactionID string) (decimal.Decimal, error)
	listFn           func(ctx context.Context, filter store.PaymentFilter, limit, offset int) ([]models.Payment, int, error)
}

func (s stubPayments) Create(ctx context.Context, tx store.Execer, payment models.Payment) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, payment)
}

func (s stubPayments) GetForUpdate(ctx context.Context, tx store.Getter, paymentID string) (models.Payment, error) {
	return s.getForUpdateFn(ctx, tx, paymentID)
}

func (s stubPayments) MarkReversed(ctx context.Context, tx store.Execer, paymentID, reason string, proof *string) error {
	if s.markReversedFn == nil {
		return nil
	}
	return s.markReversedFn(ctx, tx, paymentID, reason, proof)
}

func (s stubPayments) InsertLink(ctx context.Context, tx store.Execer, link models.PaymentTransactionLink) error {
	if s.insertLinkFn == nil {
		return nil
	}
	return s.insertLinkFn(ctx, tx, link)
}

func (s stubPayments) LinksByPayment(ctx context.Context, tx store.Tx, paymentID string) ([]models.PaymentTransactionLink, error) {
	if s.linksByPaymentFn == nil {
		return nil, nil
	}
	return s.linksByPaymentFn(ctx, tx, paymentID)
}

func (s stubPayments) SettledAmount(ctx context.Context, tx store.Getter, transactionID string) (decimal.Decimal, error) {
	if s.settledFn == nil {
		return decimal.Zero, nil
	}
	return s.settledFn(ctx, tx, transactionID)
}

func (s stubPayments) List(ctx context.Context, filter store.PaymentFilter, limit, offset int) ([]models.Payment, int, error) {
	if s.listFn == nil {
		return nil, 0, nil
	}
	return s.listFn(ctx, filter, limit, offset)
}

type stubReversals struct {
	insertFn func(ctx context.Context, tx store.Execer, reversal models.Reversal) error
}

func (s stubReversals) Insert(ctx context.Context, tx store.Execer, reversal models.Reversal) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, reversal)
}

type stubHub struct {
	calls []websocket.BalanceUpdate
}

func (s *stubHub) BroadcastBalance(_ string, update websocket.BalanceUpdate) {
	s.calls = append(s.calls, update)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
