package postgres

import (
	"context"
	"database/sql"
	"errors"

	"doorlist/internal/domain"
)

// The capacity accountant. Both adjustments are single conditional UPDATEs
// against the event row, so they are atomic read-modify-write units at the
// storage layer. They are unexported on purpose: counters move only inside
// the guest-lifecycle transactions in this package, never from a handler or
// service directly, which keeps the counts and the guest set from drifting.

type execQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// adjustInvited applies total_invited += delta, flooring at zero, and
// returns the new total. ErrNotFound if the event does not exist.
func adjustInvited(ctx context.Context, q execQuerier, eventID string, delta int) (int, error) {
	query := `
		UPDATE events
		SET total_invited = GREATEST(0, total_invited + $2), updated_at = NOW()
		WHERE id = $1
		RETURNING total_invited
	`
	var newTotal int
	err := q.QueryRowContext(ctx, query, eventID, delta).Scan(&newTotal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return newTotal, nil
}

// adjustCheckedIn applies total_checked_in += delta, flooring at zero, and
// returns the new total. The update refuses to let total_checked_in exceed
// total_invited; that case returns ErrInvariantViolation because the stored
// data is already inconsistent and the caller must log it, not swallow it.
func adjustCheckedIn(ctx context.Context, q execQuerier, eventID string, delta int) (int, error) {
	query := `
		UPDATE events
		SET total_checked_in = GREATEST(0, total_checked_in + $2), updated_at = NOW()
		WHERE id = $1 AND GREATEST(0, total_checked_in + $2) <= total_invited
		RETURNING total_checked_in
	`
	var newTotal int
	err := q.QueryRowContext(ctx, query, eventID, delta).Scan(&newTotal)
	if err == nil {
		return newTotal, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	// No row matched: either the event is gone or the guard condition held
	// the adjustment back.
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.ErrNotFound
	}
	return 0, domain.ErrInvariantViolation
}
