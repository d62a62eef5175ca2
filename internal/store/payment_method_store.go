package store

import (
	"context"

	"splitledger/internal/models"
)

type PaymentMethodStore struct {
	db DB
}

func NewPaymentMethodStore(db DB) *PaymentMethodStore {
	return &PaymentMethodStore{db: db}
}

func (s *PaymentMethodStore) Create(ctx context.Context, method models.PaymentMethod) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payment_methods (id, name, kind) VALUES ($1, $2, $3)
	`, method.ID, method.Name, method.Kind)
	return err
}

func (s *PaymentMethodStore) GetActive(ctx context.Context, tx Getter, methodID string) (models.PaymentMethod, error) {
	var row models.PaymentMethod
	err := tx.GetContext(ctx, &row, `
		SELECT id, name, kind, active, created_at
		FROM payment_methods
		WHERE id = $1 AND active
	`, methodID)
	if err != nil {
		return models.PaymentMethod{}, err
	}
	return row, nil
}

func (s *PaymentMethodStore) List(ctx context.Context) ([]models.PaymentMethod, error) {
	var rows []models.PaymentMethod
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, kind, active, created_at
		FROM payment_methods
		WHERE active
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PaymentMethodStore) Update(ctx context.Context, methodID, name, kind string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE payment_methods SET name = $1, kind = $2 WHERE id = $3
	`, name, kind, methodID)
	return err
}

func (s *PaymentMethodStore) Deactivate(ctx context.Context, methodID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE payment_methods SET active = FALSE WHERE id = $1`, methodID)
	return err
}
