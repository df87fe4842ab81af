package store

import (
	"context"
	"time"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

const cardColumns = `id, card_number, assigned_to, assigned_at, is_assigned, status, is_active, current_request_id, created_at, last_used`

func scanCard(row rowScanner) (*models.Card, error) {
	c := &models.Card{}
	err := row.Scan(
		&c.ID,
		&c.CardNumber,
		&c.AssignedTo,
		&c.AssignedAt,
		&c.IsAssigned,
		&c.Status,
		&c.IsActive,
		&c.CurrentRequestID,
		&c.CreatedAt,
		&c.LastUsed,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PgStore) GetCard(ctx context.Context, cardNumber string) (*models.Card, error) {
	c, err := scanCard(s.db.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE card_number = $1`, cardNumber))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap("failed to get card", err)
	}
	return c, nil
}

// AssignCard creates the card on first use. The conflict branch only fires
// for a free, active card, so of two concurrent assigns exactly one gets a
// row back.
func (s *PgStore) AssignCard(ctx context.Context, a models.Assignment) (*models.Card, error) {
	const query = `
INSERT INTO cards (id, card_number, assigned_to, assigned_at, is_assigned, status, is_active, current_request_id, created_at, last_used)
VALUES ($1, $2, $3, $4, true, 'assigned', true, $5, $4, $4)
ON CONFLICT (card_number) DO UPDATE SET
  assigned_to = EXCLUDED.assigned_to,
  assigned_at = EXCLUDED.assigned_at,
  is_assigned = true,
  status = 'assigned',
  current_request_id = EXCLUDED.current_request_id,
  last_used = EXCLUDED.last_used
WHERE cards.is_assigned = false AND cards.is_active
RETURNING ` + cardColumns

	c, err := scanCard(s.db.QueryRow(ctx, query, newID(), a.CardNumber, a.UserName, a.At, optString(a.RequestID)))
	if err == nil {
		return c, nil
	}
	if !noRows(err) {
		return nil, wrap("failed to assign card", err)
	}

	current, err := s.GetCard(ctx, a.CardNumber)
	if err != nil {
		return nil, err
	}
	return nil, assignConflict(current)
}

func (s *PgStore) ReturnCard(ctx context.Context, cardNumber string, at time.Time) (*models.Card, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, wrap("failed to begin tx", err)
	}
	defer tx.Rollback(ctx)

	before, err := scanCard(tx.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE card_number = $1 FOR UPDATE`, cardNumber))
	if err != nil {
		if noRows(err) {
			return nil, ErrCardNotAssigned
		}
		return nil, wrap("failed to lock card", err)
	}
	if !before.IsAssigned {
		return nil, ErrCardNotAssigned
	}

	_, err = tx.Exec(ctx, `
		UPDATE cards
		SET assigned_to = NULL, assigned_at = NULL, is_assigned = false,
		    status = 'available', current_request_id = NULL, last_used = $2
		WHERE id = $1
	`, before.ID, at)
	if err != nil {
		return nil, wrap("failed to return card", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrap("failed to commit return", err)
	}
	return before, nil
}

func (s *PgStore) SetCardActive(ctx context.Context, cardNumber string, active bool) (*models.Card, error) {
	c, err := scanCard(s.db.QueryRow(ctx,
		`UPDATE cards SET is_active = $2 WHERE card_number = $1 RETURNING `+cardColumns,
		cardNumber, active))
	if err != nil {
		if noRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrap("failed to update card", err)
	}
	return c, nil
}
