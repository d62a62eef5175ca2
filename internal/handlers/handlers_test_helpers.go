package handlers

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"splitledger/internal/config"
	"splitledger/internal/models"
	"splitledger/internal/services"
	"splitledger/internal/store"
	"splitledger/internal/websocket"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, user models.User) error
	listFn       func(ctx context.Context) ([]models.User, error)
	updateFn     func(ctx context.Context, userID, name, email, role string) error
	deactivateFn func(ctx context.Context, userID string) error
}

func (s stubUserStore) Create(ctx context.Context, user models.User) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, user)
}

func (s stubUserStore) List(ctx context.Context) ([]models.User, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubUserStore) Update(ctx context.Context, userID, name, email, role string) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, userID, name, email, role)
}

func (s stubUserStore) Deactivate(ctx context.Context, userID string) error {
	if s.deactivateFn == nil {
		return nil
	}
	return s.deactivateFn(ctx, userID)
}

type stubPaymentMethodStore struct {
	createFn     func(ctx context.Context, method models.PaymentMethod) error
	listFn       func(ctx context.Context) ([]models.PaymentMethod, error)
	updateFn     func(ctx context.Context, methodID, name, kind string) error
	deactivateFn func(ctx context.Context, methodID string) error
}

func (s stubPaymentMethodStore) Create(ctx context.Context, method models.PaymentMethod) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, method)
}

func (s stubPaymentMethodStore) List(ctx context.Context) ([]models.PaymentMethod, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubPaymentMethodStore) Update(ctx context.Context, methodID, name, kind string) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, methodID, name, kind)
}

func (s stubPaymentMethodStore) Deactivate(ctx context.Context, methodID string) error {
	if s.deactivateFn == nil {
		return nil
	}
	return s.deactivateFn(ctx, methodID)
}

type stubAccountStore struct {
	createFn     func(ctx context.Context, account models.Account) error
	getByIDFn    func(ctx context.Context, accountID string) (models.Account, error)
	listFn       func(ctx context.Context) ([]store.AccountWithMethods, error)
	updateFn     func(ctx context.Context, accountID, name string, balance decimal.Decimal) error
	deactivateFn func(ctx context.Context, accountID string) error
	setMethodsFn func(ctx context.Context, tx store.Execer, accountID string, links []store.AccountMethodLinkInput) error
}

func (s stubAccountStore) Create(ctx context.Context, account models.Account) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, account)
}

func (s stubAccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	if s.getByIDFn == nil {
		return models.Account{}, nil
	}
	return s.getByIDFn(ctx, accountID)
}

func (s stubAccountStore) List(ctx context.Context) ([]store.AccountWithMethods, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubAccountStore) Update(ctx context.Context, accountID, name string, balance decimal.Decimal) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, accountID, name, balance)
}

func (s stubAccountStore) Deactivate(ctx context.Context, accountID string) error {
	if s.deactivateFn == nil {
		return nil
	}
	return s.deactivateFn(ctx, accountID)
}

func (s stubAccountStore) SetPaymentMethods(ctx context.Context, tx store.Execer, accountID string, links []store.AccountMethodLinkInput) error {
	if s.setMethodsFn == nil {
		return nil
	}
	return s.setMethodsFn(ctx, tx, accountID, links)
}

type stubParticipantStore struct {
	createFn     func(ctx context.Context, participant models.Participant) error
	listFn       func(ctx context.Context) ([]store.ParticipantWithAccounts, error)
	updateFn     func(ctx context.Context, participantID, name, description string, usesAccount bool) error
	deactivateFn func(ctx context.Context, participantID string) error
	assignFn     func(ctx context.Context, tx store.Execer, participantID string, links []store.ParticipantAccountLinkInput) error
}

func (s stubParticipantStore) Create(ctx context.Context, participant models.Participant) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, participant)
}

func (s stubParticipantStore) List(ctx context.Context) ([]store.ParticipantWithAccounts, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubParticipantStore) Update(ctx context.Context, participantID, name, description string, usesAccount bool) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, participantID, name, description, usesAccount)
}

func (s stubParticipantStore) Deactivate(ctx context.Context, participantID string) error {
	if s.deactivateFn == nil {
		return nil
	}
	return s.deactivateFn(ctx, participantID)
}

func (s stubParticipantStore) AssignAccounts(ctx context.Context, tx store.Execer, participantID string, links []store.ParticipantAccountLinkInput) error {
	if s.assignFn == nil {
		return nil
	}
	return s.assignFn(ctx, tx, participantID, links)
}

type stubCardStore struct {
	createFn     func(ctx context.Context, tx store.Execer, card models.Card) error
	listFn       func(ctx context.Context) ([]store.CardWithAccount, error)
	updateFn     func(ctx context.Context, tx store.Execer, card models.Card) error
	deactivateFn func(ctx context.Context, cardID string) error
	setMethodsFn func(ctx context.Context, tx store.Execer, cardID string, links []store.CardMethodLinkInput) error
}

func (s stubCardStore) Create(ctx context.Context, tx store.Execer, card models.Card) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, card)
}

func (s stubCardStore) List(ctx context.Context) ([]store.CardWithAccount, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubCardStore) Update(ctx context.Context, tx store.Execer, card models.Card) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, card)
}

func (s stubCardStore) Deactivate(ctx context.Context, cardID string) error {
	if s.deactivateFn == nil {
		return nil
	}
	return s.deactivateFn(ctx, cardID)
}

func (s stubCardStore) SetPaymentMethods(ctx context.Context, tx store.Execer, cardID string, links []store.CardMethodLinkInput) error {
	if s.setMethodsFn == nil {
		return nil
	}
	return s.setMethodsFn(ctx, tx, cardID, links)
}

type stubInvoiceStore struct {
	createFn     func(ctx context.Context, invoice models.Invoice) error
	listFn       func(ctx context.Context) ([]models.Invoice, error)
	updateFn     func(ctx context.Context, invoice models.Invoice) error
	deactivateFn func(ctx context.Context, invoiceID string) error
}

func (s stubInvoiceStore) Create(ctx context.Context, invoice models.Invoice) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, invoice)
}

func (s stubInvoiceStore) List(ctx context.Context) ([]models.Invoice, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubInvoiceStore) Update(ctx context.Context, invoice models.Invoice) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, invoice)
}

func (s stubInvoiceStore) Deactivate(ctx context.Context, invoiceID string) error {
	if s.deactivateFn == nil {
		return nil
	}
	return s.deactivateFn(ctx, invoiceID)
}

type stubTransactionStore struct {
	listFn func(ctx context.Context, limit, offset int) ([]store.TransactionWithShares, error)
}

func (s stubTransactionStore) List(ctx context.Context, limit, offset int) ([]store.TransactionWithShares, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubTransactionEngine struct {
	createFn  func(ctx context.Context, req services.CreateTransactionRequest) (string, error)
	reverseFn func(ctx context.Context, transactionID string) error
}

func (s stubTransactionEngine) CreateTransaction(ctx context.Context, req services.CreateTransactionRequest) (string, error) {
	if s.createFn == nil {
		return "", nil
	}
	return s.createFn(ctx, req)
}

func (s stubTransactionEngine) ReverseTransaction(ctx context.Context, transactionID string) error {
	if s.reverseFn == nil {
		return nil
	}
	return s.reverseFn(ctx, transactionID)
}

type stubSettlementEngine struct {
	createFn  func(ctx context.Context, req services.CreatePaymentRequest) (string, error)
	reverseFn func(ctx context.Context, paymentID, reason string, proof *string) error
	listFn    func(ctx context.Context, filter store.PaymentFilter, page, pageSize int) ([]models.Payment, int, error)
}

func (s stubSettlementEngine) CreatePayment(ctx context.Context, req services.CreatePaymentRequest) (string, error) {
	if s.createFn == nil {
		return "", nil
	}
	return s.createFn(ctx, req)
}

func (s stubSettlementEngine) ReversePayment(ctx context.Context, paymentID, reason string, proof *string) error {
	if s.reverseFn == nil {
		return nil
	}
	return s.reverseFn(ctx, paymentID, reason, proof)
}

func (s stubSettlementEngine) ListPayments(ctx context.Context, filter store.PaymentFilter, page, pageSize int) ([]models.Payment, int, error) {
	if s.listFn == nil {
		return nil, 0, nil
	}
	return s.listFn(ctx, filter, page, pageSize)
}

type testDeps struct {
	users        stubUserStore
	methods      stubPaymentMethodStore
	accounts     stubAccountStore
	participants stubParticipantStore
	cards        stubCardStore
	invoices     stubInvoiceStore
	transactions stubTransactionStore
	txEngine     stubTransactionEngine
	settlements  stubSettlementEngine
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func newTestHandler(deps testDeps) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		AllowedOrigins: "*",
	}
	return New(cfg, fakeTxRunner{}, deps.users, deps.methods, deps.accounts,
		deps.participants, deps.cards, deps.invoices, deps.transactions,
		deps.txEngine, deps.settlements, websocket.NewHub())
}
