package store

import (
	"context"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

const requestColumns = `id, name, first_name, last_name, email, phone, status, created_at, updated_at, assigned_card_id, processed_by`

func scanRequest(row rowScanner) (*models.Request, error) {
	r := &models.Request{}
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.FirstName,
		&r.LastName,
		&r.Email,
		&r.Phone,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.AssignedCardID,
		&r.ProcessedBy,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PgStore) CreateRequest(ctx context.Context, r *models.Request) error {
	id := newID()
	_, err := s.db.Exec(ctx, `
		INSERT INTO requests (id, name, first_name, last_name, email, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, r.Name, r.FirstName, r.LastName, r.Email, r.Phone, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return wrap("failed to create request", err)
	}
	r.ID = id
	return nil
}

func (s *PgStore) GetRequest(ctx context.Context, id string) (*models.Request, error) {
	r, err := scanRequest(s.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrap("failed to get request", err)
	}
	return r, nil
}

func (s *PgStore) ListRequests(ctx context.Context, status string) ([]*models.Request, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, wrap("failed to list requests", err)
	}

	out, err := collect(rows, scanRequest)
	if err != nil {
		return nil, wrap("failed to list requests", err)
	}
	return out, nil
}

func (s *PgStore) UpdateRequestStatus(ctx context.Context, id, status string) error {
	tag, err := s.db.Exec(ctx, `UPDATE requests SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return wrap("failed to update request", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PgStore) CompleteRequest(ctx context.Context, id, cardID, processedBy string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE requests
		SET status = $2, assigned_card_id = $3, processed_by = $4, updated_at = now()
		WHERE id = $1
	`, id, models.RequestCompleted, optString(cardID), optString(processedBy))
	if err != nil {
		return wrap("failed to update request", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PgStore) DeleteRequest(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return wrap("failed to delete request", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
