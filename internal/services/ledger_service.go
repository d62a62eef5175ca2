package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
	"splitledger/internal/store"
)

// Ledger is the single mutation point for account balances. Every debit
// and credit in the system routes through it so the non-negative-balance
// invariant is enforced in one place. It reads the account row FOR UPDATE
// inside the caller's transaction and holds the lock until commit or
// rollback.
//
// The ledger itself is stateless beyond the account balance: callers
// persist the returned pre/post pair on their own entity (share, payment,
// reversal record).
type Ledger struct {
	accounts AccountStore
}

func NewLedger(accounts AccountStore) *Ledger {
	return &Ledger{accounts: accounts}
}

// Debit subtracts amount from the account balance. It fails with
// ErrInsufficientFunds when the balance would go negative, leaving the
// balance untouched.
func (l *Ledger) Debit(ctx context.Context, tx store.Tx, accountID string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	account, err := l.lock(ctx, tx, accountID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	pre := account.CurrentBalance
	post := pre.Sub(amount)
	if post.IsNegative() {
		return decimal.Zero, decimal.Zero, ErrInsufficientFunds
	}
	if err := l.accounts.UpdateBalance(ctx, tx, accountID, post); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("update balance: %w", err)
	}
	return pre, post, nil
}

// Credit adds amount to the account balance.
func (l *Ledger) Credit(ctx context.Context, tx store.Tx, accountID string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	account, err := l.lock(ctx, tx, accountID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	pre := account.CurrentBalance
	post := pre.Add(amount)
	if err := l.accounts.UpdateBalance(ctx, tx, accountID, post); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("update balance: %w", err)
	}
	return pre, post, nil
}

func (l *Ledger) lock(ctx context.Context, tx store.Tx, accountID string) (models.Account, error) {
	row, err := l.accounts.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, fmt.Errorf("lock account: %w", err)
	}
	if !row.Active {
		return models.Account{}, ErrNotFound
	}
	return row, nil
}
