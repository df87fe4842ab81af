package store

import (
	"context"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

const logColumns = `id, action, card_number, card_id, user_name, user_identifier, user_email, user_phone,
	request_id, user_id, details, previous_status, new_status, timestamp`

func scanLog(row rowScanner) (*models.LogEntry, error) {
	e := &models.LogEntry{}
	err := row.Scan(
		&e.ID,
		&e.Action,
		&e.CardNumber,
		&e.CardID,
		&e.User,
		&e.UserIdentifier,
		&e.UserEmail,
		&e.UserPhone,
		&e.RequestID,
		&e.UserID,
		&e.Details,
		&e.PreviousStatus,
		&e.NewStatus,
		&e.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *PgStore) InsertLog(ctx context.Context, e *models.LogEntry) error {
	id := newID()
	_, err := s.db.Exec(ctx, `
		INSERT INTO logs (`+logColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, id, e.Action, e.CardNumber, e.CardID, e.User, e.UserIdentifier, e.UserEmail, e.UserPhone,
		e.RequestID, e.UserID, e.Details, e.PreviousStatus, e.NewStatus, e.Timestamp)
	if err != nil {
		return wrap("failed to insert log", err)
	}
	e.ID = id
	return nil
}

func (s *PgStore) LatestLog(ctx context.Context, cardNumber, action string) (*models.LogEntry, error) {
	e, err := scanLog(s.db.QueryRow(ctx, `
		SELECT `+logColumns+`
		FROM logs
		WHERE card_number = $1 AND action = $2
		ORDER BY timestamp DESC
		LIMIT 1
	`, cardNumber, action))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap("failed to get log", err)
	}
	return e, nil
}

func (s *PgStore) ListLogs(ctx context.Context, f models.LogFilter) ([]*models.LogEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+logColumns+`
		FROM logs
		WHERE ($1 = '' OR action = $1) AND ($2 = '' OR card_number = $2)
		ORDER BY timestamp DESC
	`, f.Action, f.CardNumber)
	if err != nil {
		return nil, wrap("failed to list logs", err)
	}

	out, err := collect(rows, scanLog)
	if err != nil {
		return nil, wrap("failed to list logs", err)
	}
	return out, nil
}
