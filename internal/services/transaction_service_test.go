package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
	"splitledger/internal/store"
)

func newTransactionService(accounts stubAccounts, participants stubParticipants, methods stubMethods, cards stubCards, invoices stubInvoices, transactions stubTransactions, reversals stubReversals, hub *stubHub) *TransactionService {
	ledger := NewLedger(accounts)
	gate := NewInvoiceGate(invoices)
	resolver := NewResolver(participants, methods, cards, gate)
	return NewTransactionService(fakeTxRunner{}, ledger, resolver, gate, transactions, reversals, hub)
}

func validCreateRequest(total string, participants ...ShareInput) CreateTransactionRequest {
	return CreateTransactionRequest{
		Description:     "groceries",
		TotalAmount:     dec(total),
		Date:            time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		PaymentMethodID: "pm-1",
		Category:        "food",
		Participants:    participants,
	}
}

func TestCreateTransactionMissingFields(t *testing.T) {
	service := newTransactionService(stubAccounts{}, stubParticipants{}, stubMethods{}, stubCards{}, stubInvoices{}, stubTransactions{}, stubReversals{}, &stubHub{})
	req := validCreateRequest("100.00", ShareInput{ParticipantID: "p1"})
	req.Description = ""
	if _, err := service.CreateTransaction(context.Background(), req); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestCreateTransactionInvalidAmount(t *testing.T) {
	service := newTransactionService(stubAccounts{}, stubParticipants{}, stubMethods{}, stubCards{}, stubInvoices{}, stubTransactions{}, stubReversals{}, &stubHub{})
	req := validCreateRequest("0.00", ShareInput{ParticipantID: "p1"})
	if _, err := service.CreateTransaction(context.Background(), req); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateTransactionRejectsPartialExplicitShares(t *testing.T) {
	service := newTransactionService(stubAccounts{}, stubParticipants{}, stubMethods{}, stubCards{}, stubInvoices{}, stubTransactions{}, stubReversals{}, &stubHub{})
	explicit := dec("60.00")
	req := validCreateRequest("100.00",
		ShareInput{ParticipantID: "p1", Amount: &explicit},
		ShareInput{ParticipantID: "p2"},
	)
	if _, err := service.CreateTransaction(context.Background(), req); !errors.Is(err, ErrShareMismatch) {
		t.Fatalf("expected ErrShareMismatch, got %v", err)
	}
}

func TestCreateTransactionRejectsMismatchedShareSum(t *testing.T) {
	service := newTransactionService(stubAccounts{}, stubParticipants{}, stubMethods{}, stubCards{}, stubInvoices{}, stubTransactions{}, stubReversals{}, &stubHub{})
	a := dec("60.00")
	b := dec("30.00")
	req := validCreateRequest("100.00",
		ShareInput{ParticipantID: "p1", Amount: &a},
		ShareInput{ParticipantID: "p2", Amount: &b},
	)
	if _, err := service.CreateTransaction(context.Background(), req); !errors.Is(err, ErrShareMismatch) {
		t.Fatalf("expected ErrShareMismatch, got %v", err)
	}
}

func TestCreateTransactionEvenSplit(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"acc-p1": dec("80.00"),
		"acc-p2": dec("60.00"),
	}
	var created models.Transaction
	var shares []models.TransactionShare
	hub := &stubHub{}
	service := newTransactionService(
		stubAccounts{
			getForUpdateFn: func(_ context.Context, _ store.Getter, accountID string) (models.Account, error) {
				return models.Account{ID: accountID, CurrentBalance: balances[accountID], Active: true}, nil
			},
			updateBalanceFn: func(_ context.Context, _ store.Execer, accountID string, balance decimal.Decimal) error {
				balances[accountID] = balance
				return nil
			},
		},
		stubParticipants{}, stubMethods{}, stubCards{}, stubInvoices{},
		stubTransactions{
			createFn: func(_ context.Context, _ store.Execer, transaction models.Transaction) error {
				created = transaction
				return nil
			},
			insertShareFn: func(_ context.Context, _ store.Execer, share models.TransactionShare) error {
				shares = append(shares, share)
				return nil
			},
		},
		stubReversals{}, hub,
	)

	id, err := service.CreateTransaction(context.Background(), validCreateRequest("100.00",
		ShareInput{ParticipantID: "p1"},
		ShareInput{ParticipantID: "p2"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" || created.Status != models.TransactionPending {
		t.Fatalf("unexpected transaction: %#v", created)
	}
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}
	for _, share := range shares {
		if !share.ShareAmount.Equal(dec("50.00")) {
			t.Fatalf("unexpected share amount: %s", share.ShareAmount)
		}
		if share.AccountID == nil || !share.PreBalance.Valid || !share.PostBalance.Valid {
			t.Fatalf("expected balance snapshots on share: %#v", share)
		}
	}
	if !balances["acc-p1"].Equal(dec("30.00")) || !balances["acc-p2"].Equal(dec("10.00")) {
		t.Fatalf("unexpected balances: %#v", balances)
	}
	if len(hub.calls) != 2 {
		t.Fatalf("expected 2 balance broadcasts, got %d", len(hub.calls))
	}
}

func TestCreateTransactionUnevenSplitFavorsEarliestParticipants(t *testing.T) {
	var shares []models.TransactionShare
	service := newTransactionService(
		stubAccounts{
			getForUpdateFn: func(_ context.Context, _ store.Getter, accountID string) (models.Account, error) {
				return models.Account{ID: accountID, CurrentBalance: dec("500.00"), Active: true}, nil
			},
		},
		stubParticipants{}, stubMethods{}, stubCards{}, stubInvoices{},
		stubTransactions{
			insertShareFn: func(_ context.Context, _ store.Execer, share models.TransactionShare) error {
				shares = append(shares, share)
				return nil
			},
		},
		stubReversals{}, &stubHub{},
	)

	_, err := service.CreateTransaction(context.Background(), validCreateRequest("100.00",
		ShareInput{ParticipantID: "p1"},
		ShareInput{ParticipantID: "p2"},
		ShareInput{ParticipantID: "p3"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"33.34", "33.33", "33.33"}
	for i, share := range shares {
		if !share.ShareAmount.Equal(dec(want[i])) {
			t.Fatalf("share %d: expected %s, got %s", i, want[i], share.ShareAmount)
		}
	}
}

func TestCreateTransactionSkipsParticipantsWithoutAccounts(t *testing.T) {
	var shares []models.TransactionShare
	service := newTransactionService(
		stubAccounts{
			getForUpdateFn: func(context.Context, store.Getter, string) (models.Account, error) {
				t.Fatalf("unexpected balance read")
				return models.Account{}, nil
			},
		},
		stubParticipants{
			getActiveFn: func(_ context.Context, _ store.Getter, participantID string) (models.Participant, error) {
				return models.Participant{ID: participantID, UsesAccount: false, Active: true}, nil
			},
		},
		stubMethods{}, stubCards{}, stubInvoices{},
		stubTransactions{
			insertShareFn: func(_ context.Context, _ store.Execer, share models.TransactionShare) error {
				shares = append(shares, share)
				return nil
			},
		},
		stubReversals{}, &stubHub{},
	)

	_, err := service.CreateTransaction(context.Background(), validCreateRequest("40.00",
		ShareInput{ParticipantID: "guest"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shares) != 1 || shares[0].AccountID != nil || shares[0].PreBalance.Valid {
		t.Fatalf("expected account-less share, got %#v", shares)
	}
}

func TestCreateTransactionInsufficientFunds(t *testing.T) {
	hub := &stubHub{}
	service := newTransactionService(
		stubAccounts{
			getForUpdateFn: func(_ context.Context, _ store.Getter, accountID string) (models.Account, error) {
				return models.Account{ID: accountID, CurrentBalance: dec("10.00"), Active: true}, nil
			},
		},
		stubParticipants{}, stubMethods{}, stubCards{}, stubInvoices{}, stubTransactions{}, stubReversals{}, hub,
	)

	_, err := service.CreateTransaction(context.Background(), validCreateRequest("100.00",
		ShareInput{ParticipantID: "p1"},
	))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if len(hub.calls) != 0 {
		t.Fatalf("expected no broadcasts on failure")
	}
}

func TestCreateTransactionCreditCardAccruesInvoice(t *testing.T) {
	var accrued decimal.Decimal
	var accruedInvoice string
	service := newTransactionService(
		stubAccounts{
			getForUpdateFn: func(_ context.Context, _ store.Getter, accountID string) (models.Account, error) {
				return models.Account{ID: accountID, CurrentBalance: dec("500.00"), Active: true}, nil
			},
		},
		stubParticipants{},
		stubMethods{
			getActiveFn: func(_ context.Context, _ store.Getter, methodID string) (models.PaymentMethod, error) {
				return models.PaymentMethod{ID: methodID, Kind: models.PaymentMethodCreditCard, Active: true}, nil
			},
		},
		stubCards{
			activeCardFn: func(context.Context, store.Tx, []string) (models.Card, error) {
				return models.Card{ID: "card-1", Active: true}, nil
			},
		},
		stubInvoices{
			openForCardFn: func(_ context.Context, _ store.Getter, cardID string, _ time.Time) (models.Invoice, error) {
				return models.Invoice{ID: "inv-1", CardID: cardID, Status: models.InvoiceOpen}, nil
			},
			accrueFn: func(_ context.Context, _ store.Execer, invoiceID string, amount decimal.Decimal) error {
				accruedInvoice = invoiceID
				accrued = amount
				return nil
			},
		},
		stubTransactions{}, stubReversals{}, &stubHub{},
	)

	_, err := service.CreateTransaction(context.Background(), validCreateRequest("120.00",
		ShareInput{ParticipantID: "p1"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accruedInvoice != "inv-1" || !accrued.Equal(dec("120.00")) {
		t.Fatalf("expected 120.00 accrued on inv-1, got %s on %q", accrued, accruedInvoice)
	}
}

func TestCreateTransactionNoOpenInvoice(t *testing.T) {
	service := newTransactionService(
		stubAccounts{},
		stubParticipants{},
		stubMethods{
			getActiveFn: func(_ context.Context, _ store.Getter, methodID string) (models.PaymentMethod, error) {
				return models.PaymentMethod{ID: methodID, Kind: models.PaymentMethodCreditCard, Active: true}, nil
			},
		},
		stubCards{
			activeCardFn: func(context.Context, store.Tx, []string) (models.Card, error) {
				return models.Card{ID: "card-1", Active: true}, nil
			},
		},
		stubInvoices{
			openForCardFn: func(context.Context, store.Getter, string, time.Time) (models.Invoice, error) {
				return models.Invoice{}, sql.ErrNoRows
			},
		},
		stubTransactions{}, stubReversals{}, &stubHub{},
	)

	_, err := service.CreateTransaction(context.Background(), validCreateRequest("120.00",
		ShareInput{ParticipantID: "p1"},
	))
	if !errors.Is(err, ErrNoOpenInvoice) {
		t.Fatalf("expected ErrNoOpenInvoice, got %v", err)
	}
}

func TestReverseTransactionNotFound(t *testing.T) {
	service := newTransactionService(stubAccounts{}, stubParticipants{}, stubMethods{}, stubCards{}, stubInvoices{},
		stubTransactions{
			getActiveForUpdateFn: func(context.Context, store.Getter, string) (models.Transaction, error) {
				return models.Transaction{}, sql.ErrNoRows
			},
		},
		stubReversals{}, &stubHub{},
	)
	if err := service.ReverseTransaction(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReverseTransactionAlreadyReversed(t *testing.T) {
	service := newTransactionService(stubAccounts{}, stubParticipants{}, stubMethods{}, stubCards{}, stubInvoices{},
		stubTransactions{
			getActiveForUpdateFn: func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
				return models.Transaction{ID: transactionID, Reversed: true, Status: models.TransactionReversed, Active: true}, nil
			},
		},
		stubReversals{}, &stubHub{},
	)
	if err := service.ReverseTransaction(context.Background(), "t1"); !errors.Is(err, ErrAlreadyReversed) {
		t.Fatalf("expected ErrAlreadyReversed, got %v", err)
	}
}

func TestReverseTransactionRestoresBalances(t *testing.T) {
	accountID := "acc-1"
	balance := dec("10.00")
	var reversal models.Reversal
	var flaggedShare, flaggedReversal string
	markedReversed := false
	hub := &stubHub{}
	service := newTransactionService(
		stubAccounts{
			getForUpdateFn: func(_ context.Context, _ store.Getter, id string) (models.Account, error) {
				return models.Account{ID: id, CurrentBalance: balance, Active: true}, nil
			},
			updateBalanceFn: func(_ context.Context, _ store.Execer, _ string, updated decimal.Decimal) error {
				balance = updated
				return nil
			},
		},
		stubParticipants{}, stubMethods{}, stubCards{}, stubInvoices{},
		stubTransactions{
			getActiveForUpdateFn: func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
				return models.Transaction{ID: transactionID, Status: models.TransactionPending, Active: true}, nil
			},
			activeSharesFn: func(context.Context, store.Tx, string) ([]models.TransactionShare, error) {
				return []models.TransactionShare{
					{ID: "s1", AccountID: &accountID, ShareAmount: dec("50.00"), Active: true},
					{ID: "s2", ShareAmount: dec("50.00"), Active: true},
				}, nil
			},
			setShareReversalFn: func(_ context.Context, _ store.Execer, shareID, reversalID string) error {
				flaggedShare = shareID
				flaggedReversal = reversalID
				return nil
			},
			markReversedFn: func(context.Context, store.Execer, string) error {
				markedReversed = true
				return nil
			},
		},
		stubReversals{
			insertFn: func(_ context.Context, _ store.Execer, r models.Reversal) error {
				reversal = r
				return nil
			},
		},
		hub,
	)

	if err := service.ReverseTransaction(context.Background(), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(dec("60.00")) {
		t.Fatalf("expected restored balance 60.00, got %s", balance)
	}
	if reversal.TargetType != models.ReversalTargetShare || reversal.TargetID != "s1" {
		t.Fatalf("unexpected reversal record: %#v", reversal)
	}
	if flaggedShare != "s1" || flaggedReversal != reversal.ID {
		t.Fatalf("expected share s1 flagged with reversal %q", reversal.ID)
	}
	if !markedReversed {
		t.Fatalf("expected transaction marked reversed")
	}
	if len(hub.calls) != 1 || hub.calls[0].Balance != "60.00" {
		t.Fatalf("unexpected broadcasts: %#v", hub.calls)
	}
}
