package store

import (
	"context"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

func (s *PgStore) CreateUser(ctx context.Context, u *models.User) error {
	id := newID()
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, name, email, role, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, u.Name, u.Email, u.Role, u.PasswordHash, u.IsActive, u.CreatedAt)
	if err != nil {
		if uniqueViolation(err) {
			return ErrDuplicate
		}
		return wrap("could not create user", err)
	}
	u.ID = id
	return nil
}

func (s *PgStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(ctx, `
		SELECT id, name, email, role, password_hash, is_active, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrap("failed to get user", err)
	}
	return u, nil
}
