package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"splitledger/internal/db"
	"splitledger/internal/models"
	"splitledger/internal/money"
	"splitledger/internal/websocket"
)

// TransactionService creates, splits and reverses shared-expense
// transactions. Every mutating call runs inside a single database
// transaction: no partial splits or partial debits survive a failure.
type TransactionService struct {
	txRunner     db.TxRunner
	ledger       *Ledger
	resolver     *Resolver
	gate         *InvoiceGate
	transactions TransactionStore
	reversals    ReversalStore
	hub          BalanceHub
}

func NewTransactionService(txRunner db.TxRunner, ledger *Ledger, resolver *Resolver, gate *InvoiceGate, transactions TransactionStore, reversals ReversalStore, hub BalanceHub) *TransactionService {
	return &TransactionService{
		txRunner:     txRunner,
		ledger:       ledger,
		resolver:     resolver,
		gate:         gate,
		transactions: transactions,
		reversals:    reversals,
		hub:          hub,
	}
}

// ShareInput is one participant line of a new transaction. Amount is
// optional; when any line carries one, all lines must, and they must sum
// to the transaction total within one cent.
type ShareInput struct {
	ParticipantID string
	Amount        *decimal.Decimal
}

type CreateTransactionRequest struct {
	Description     string
	TotalAmount     decimal.Decimal
	Date            time.Time
	PaymentMethodID string
	Category        string
	Participants    []ShareInput
}

func (s *TransactionService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (string, error) {
	if strings.TrimSpace(req.Description) == "" || req.PaymentMethodID == "" || req.Date.IsZero() || len(req.Participants) == 0 {
		return "", ErrMissingFields
	}
	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return "", ErrInvalidAmount
	}
	shares, err := resolveShares(req.TotalAmount, req.Participants)
	if err != nil {
		return "", err
	}

	transactionID := uuid.NewString()
	var updates []websocket.BalanceUpdate
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		updates = updates[:0]
		if err := s.transactions.Create(ctx, tx, models.Transaction{
			ID:              transactionID,
			Description:     req.Description,
			TotalAmount:     req.TotalAmount,
			OccurredOn:      req.Date,
			PaymentMethodID: req.PaymentMethodID,
			Category:        req.Category,
			Status:          models.TransactionPending,
		}); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		for i, line := range req.Participants {
			target, err := s.resolver.ResolveAccountsForCharge(ctx, tx, line.ParticipantID, req.PaymentMethodID, req.Date)
			if err != nil {
				return err
			}
			share := models.TransactionShare{
				ID:            uuid.NewString(),
				TransactionID: transactionID,
				ParticipantID: line.ParticipantID,
				ShareAmount:   shares[i],
			}
			if len(target.Accounts) > 0 {
				account := target.Accounts[0]
				pre, post, err := s.ledger.Debit(ctx, tx, account.ID, shares[i])
				if err != nil {
					return err
				}
				share.AccountID = &account.ID
				share.PreBalance = decimal.NewNullDecimal(pre)
				share.PostBalance = decimal.NewNullDecimal(post)
				updates = append(updates, websocket.BalanceUpdate{AccountID: account.ID, Balance: money.Format(post)})
				if target.Invoice != nil {
					if err := s.gate.Accrue(ctx, tx, target.Invoice.ID, shares[i]); err != nil {
						return err
					}
				}
			}
			if err := s.transactions.InsertShare(ctx, tx, share); err != nil {
				return fmt.Errorf("insert share: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	for _, update := range updates {
		s.hub.BroadcastBalance(update.AccountID, update)
	}
	return transactionID, nil
}

// resolveShares turns participant lines into one share per line. Explicit
// shares must all be present and sum to the total within one cent;
// otherwise the total is split evenly with leftover cents going to the
// earliest lines.
func resolveShares(total decimal.Decimal, lines []ShareInput) ([]decimal.Decimal, error) {
	explicit := 0
	for _, line := range lines {
		if line.Amount != nil {
			explicit++
		}
	}
	if explicit == 0 {
		return money.SplitEven(total, len(lines)), nil
	}
	if explicit != len(lines) {
		return nil, ErrShareMismatch
	}
	shares := make([]decimal.Decimal, len(lines))
	sum := decimal.Zero
	for i, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidAmount
		}
		shares[i] = *line.Amount
		sum = sum.Add(*line.Amount)
	}
	if !money.SumWithin(sum, total) {
		return nil, ErrShareMismatch
	}
	return shares, nil
}

// ReverseTransaction credits back every active share's account, records
// the reversal alongside the restored balances and marks the transaction
// reversed. Payments linked to the transaction are left untouched.
func (s *TransactionService) ReverseTransaction(ctx context.Context, transactionID string) error {
	var updates []websocket.BalanceUpdate
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		updates = updates[:0]
		transaction, err := s.transactions.GetActiveForUpdate(ctx, tx, transactionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("load transaction: %w", err)
		}
		if transaction.Reversed {
			return ErrAlreadyReversed
		}

		shares, err := s.transactions.ActiveShares(ctx, tx, transactionID)
		if err != nil {
			return fmt.Errorf("load shares: %w", err)
		}
		for _, share := range shares {
			if share.AccountID == nil {
				continue
			}
			pre, post, err := s.ledger.Credit(ctx, tx, *share.AccountID, share.ShareAmount)
			if err != nil {
				return err
			}
			reversalID := uuid.NewString()
			if err := s.reversals.Insert(ctx, tx, models.Reversal{
				ID:          reversalID,
				TargetType:  models.ReversalTargetShare,
				TargetID:    share.ID,
				AccountID:   share.AccountID,
				Amount:      share.ShareAmount,
				PreBalance:  pre,
				PostBalance: post,
			}); err != nil {
				return fmt.Errorf("insert reversal: %w", err)
			}
			if err := s.transactions.SetShareReversal(ctx, tx, share.ID, reversalID); err != nil {
				return fmt.Errorf("flag share reversal: %w", err)
			}
			updates = append(updates, websocket.BalanceUpdate{AccountID: *share.AccountID, Balance: money.Format(post)})
		}
		return s.transactions.MarkReversed(ctx, tx, transactionID)
	})
	if err != nil {
		return err
	}
	for _, update := range updates {
		s.hub.BroadcastBalance(update.AccountID, update)
	}
	return nil
}
