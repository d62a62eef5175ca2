package store

import (
	"context"
	"database/sql"

	"splitledger/internal/models"
)

type CardStore struct {
	db DB
}

func NewCardStore(db DB) *CardStore {
	return &CardStore{db: db}
}

func (s *CardStore) Create(ctx context.Context, tx Execer, card models.Card) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO cards (id, name, account_id, credit_limit)
		VALUES ($1, $2, $3, $4)
	`, card.ID, card.Name, card.AccountID, card.CreditLimit)
	return err
}

func (s *CardStore) GetActive(ctx context.Context, cardID string) (models.Card, error) {
	var row models.Card
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, account_id, credit_limit, active, created_at
		FROM cards
		WHERE id = $1 AND active
	`, cardID)
	if err != nil {
		return models.Card{}, err
	}
	return row, nil
}

type CardWithAccount struct {
	models.Card
	AccountName    string  `db:"account_name"`
	PaymentMethods *string `db:"payment_methods"`
}

func (s *CardStore) List(ctx context.Context) ([]CardWithAccount, error) {
	var rows []CardWithAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.id, c.name, c.account_id, c.credit_limit, c.active, c.created_at,
		       a.name AS account_name,
		       STRING_AGG(pm.name, ', ') AS payment_methods
		FROM cards c
		JOIN accounts a ON a.id = c.account_id
		LEFT JOIN card_payment_methods cpm ON cpm.card_id = c.id AND cpm.active
		LEFT JOIN payment_methods pm ON pm.id = cpm.payment_method_id
		WHERE c.active
		GROUP BY c.id, a.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CardStore) Update(ctx context.Context, tx Execer, card models.Card) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE cards SET name = $1, account_id = $2, credit_limit = $3 WHERE id = $4
	`, card.Name, card.AccountID, card.CreditLimit, card.ID)
	return err
}

func (s *CardStore) Deactivate(ctx context.Context, cardID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE cards SET active = FALSE WHERE id = $1`, cardID)
	return err
}

func (s *CardStore) SetPaymentMethods(ctx context.Context, tx Execer, cardID string, links []CardMethodLinkInput) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE card_payment_methods SET active = FALSE WHERE card_id = $1
	`, cardID); err != nil {
		return err
	}
	for _, link := range links {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO card_payment_methods (id, card_id, payment_method_id)
			VALUES ($1, $2, $3)
		`, link.ID, cardID, link.PaymentMethodID); err != nil {
			return err
		}
	}
	return nil
}

type CardMethodLinkInput struct {
	ID              string
	PaymentMethodID string
}

// ActiveCardForAccounts returns the first active card attached to any of
// the given accounts, or sql.ErrNoRows when none exists.
func (s *CardStore) ActiveCardForAccounts(ctx context.Context, tx Tx, accountIDs []string) (models.Card, error) {
	if len(accountIDs) == 0 {
		return models.Card{}, sql.ErrNoRows
	}
	var rows []models.Card
	query, args, err := inQuery(`
		SELECT id, name, account_id, credit_limit, active, created_at
		FROM cards
		WHERE active AND account_id IN (?)
		ORDER BY created_at
	`, accountIDs)
	if err != nil {
		return models.Card{}, err
	}
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return models.Card{}, err
	}
	if len(rows) == 0 {
		return models.Card{}, sql.ErrNoRows
	}
	return rows[0], nil
}
