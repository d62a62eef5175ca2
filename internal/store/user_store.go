package store

import (
	"context"

	"splitledger/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, role) VALUES ($1, $2, $3, $4)
	`, user.ID, user.Name, user.Email, user.Role)
	return err
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, email, role, active, created_at
		FROM users
		WHERE active
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *UserStore) Update(ctx context.Context, userID, name, email, role string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = $1, email = $2, role = $3 WHERE id = $4 AND active
	`, name, email, role, userID)
	return err
}

func (s *UserStore) Deactivate(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET active = FALSE WHERE id = $1`, userID)
	return err
}
