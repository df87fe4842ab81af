package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

const historyColumns = `id, card_id, card_number, request_id, assigned_at, returned_at, assigned_by, returned_by, duration_hours::text`

func scanHistory(row rowScanner) (*models.HistoryRecord, error) {
	rec := &models.HistoryRecord{}
	var hours *string
	err := row.Scan(
		&rec.ID,
		&rec.CardID,
		&rec.CardNumber,
		&rec.RequestID,
		&rec.AssignedAt,
		&rec.ReturnedAt,
		&rec.AssignedBy,
		&rec.ReturnedBy,
		&hours,
	)
	if err != nil {
		return nil, err
	}
	if hours != nil {
		d, err := decimal.NewFromString(*hours)
		if err != nil {
			return nil, err
		}
		rec.DurationHours = &d
	}
	return rec, nil
}

func decimalText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func (s *PgStore) OpenLoan(ctx context.Context, rec *models.HistoryRecord) error {
	id := newID()
	_, err := s.db.Exec(ctx, `
		INSERT INTO card_history (id, card_id, card_number, request_id, assigned_at, returned_at, assigned_by, returned_by, duration_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric)
	`, id, rec.CardID, rec.CardNumber, rec.RequestID, rec.AssignedAt, rec.ReturnedAt, rec.AssignedBy, rec.ReturnedBy,
		decimalText(rec.DurationHours))
	if err != nil {
		return wrap("failed to open loan", err)
	}
	rec.ID = id
	return nil
}

func (s *PgStore) CloseLoan(ctx context.Context, cardNumber string, returnedAt time.Time, returnedBy string) (*models.HistoryRecord, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, wrap("failed to begin tx", err)
	}
	defer tx.Rollback(ctx)

	rec, err := scanHistory(tx.QueryRow(ctx, `
		SELECT `+historyColumns+`
		FROM card_history
		WHERE card_number = $1 AND returned_at IS NULL
		ORDER BY assigned_at DESC
		LIMIT 1
		FOR UPDATE
	`, cardNumber))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap("failed to find open loan", err)
	}

	hours := models.LoanHours(rec.AssignedAt, returnedAt)
	_, err = tx.Exec(ctx, `
		UPDATE card_history SET returned_at = $2, returned_by = $3, duration_hours = $4::numeric WHERE id = $1
	`, rec.ID, returnedAt, returnedBy, hours.StringFixed(2))
	if err != nil {
		return nil, wrap("failed to close loan", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, wrap("failed to commit loan", err)
	}

	rec.ReturnedAt = &returnedAt
	rec.ReturnedBy = &returnedBy
	rec.DurationHours = &hours
	return rec, nil
}

func (s *PgStore) ListHistory(ctx context.Context, cardNumber string) ([]*models.HistoryRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+historyColumns+`
		FROM card_history
		WHERE $1 = '' OR card_number = $1
		ORDER BY assigned_at DESC
	`, cardNumber)
	if err != nil {
		return nil, wrap("failed to list history", err)
	}

	out, err := collect(rows, scanHistory)
	if err != nil {
		return nil, wrap("failed to list history", err)
	}
	return out, nil
}

func (s *PgStore) CountHistory(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM card_history`).Scan(&n); err != nil {
		return 0, wrap("failed to count history", err)
	}
	return n, nil
}
