package store

import (
	"context"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, account models.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, initial_balance, current_balance)
		VALUES ($1, $2, $3, $4)
	`, account.ID, account.Name, account.InitialBalance, account.CurrentBalance)
	return err
}

func (s *AccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, initial_balance, current_balance, active, created_at
		FROM accounts
		WHERE id = $1
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

// GetForUpdate locks the account row for the remainder of the enclosing
// transaction. Every read that precedes a balance write goes through here.
func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, accountID string) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		SELECT id, name, initial_balance, current_balance, active, created_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) UpdateBalance(ctx context.Context, tx Execer, accountID string, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET current_balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, accountID)
	return err
}

func (s *AccountStore) Update(ctx context.Context, accountID, name string, balance decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = $1, current_balance = $2, updated_at = NOW()
		WHERE id = $3 AND active
	`, name, balance, accountID)
	return err
}

func (s *AccountStore) Deactivate(ctx context.Context, accountID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE accounts SET active = FALSE WHERE id = $1`, accountID)
	return err
}

type AccountWithMethods struct {
	models.Account
	PaymentMethods *string `db:"payment_methods"`
}

func (s *AccountStore) List(ctx context.Context) ([]AccountWithMethods, error) {
	var rows []AccountWithMethods
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.id, a.name, a.initial_balance, a.current_balance, a.active, a.created_at,
		       STRING_AGG(pm.name, ', ') AS payment_methods
		FROM accounts a
		LEFT JOIN account_payment_methods apm ON apm.account_id = a.id AND apm.active
		LEFT JOIN payment_methods pm ON pm.id = apm.payment_method_id
		WHERE a.active
		GROUP BY a.id
		ORDER BY a.name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SetPaymentMethods replaces the account's payment-method eligibility with
// a new active generation; the prior links are deactivated, not deleted.
func (s *AccountStore) SetPaymentMethods(ctx context.Context, tx Execer, accountID string, links []AccountMethodLinkInput) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE account_payment_methods SET active = FALSE WHERE account_id = $1
	`, accountID); err != nil {
		return err
	}
	for _, link := range links {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO account_payment_methods (id, account_id, payment_method_id)
			VALUES ($1, $2, $3)
		`, link.ID, accountID, link.PaymentMethodID); err != nil {
			return err
		}
	}
	return nil
}

type AccountMethodLinkInput struct {
	ID              string
	PaymentMethodID string
}
