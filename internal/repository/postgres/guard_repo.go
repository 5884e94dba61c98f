package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"doorlist/internal/domain"
)

type guardRepository struct {
	DB *sql.DB
}

func NewGuardRepository(db *sql.DB) domain.GuardRepository {
	return &guardRepository{
		DB: db,
	}
}

func (r *guardRepository) Add(ctx context.Context, eventID, userID string) error {
	query := `
		INSERT INTO event_guards (event_id, user_id, created_at)
		VALUES ($1, $2, NOW())
	`
	_, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyAssigned
		}
		return err
	}
	return nil
}

func (r *guardRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Guard, error) {
	query := `
		SELECT g.event_id, g.user_id, u.name, u.last_name, u.email, g.created_at
		FROM event_guards g
		JOIN users u ON u.id = g.user_id
		WHERE g.event_id = $1
		ORDER BY g.created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	guards := make([]*domain.Guard, 0)
	for rows.Next() {
		g := &domain.Guard{}
		var name, lastName sql.NullString
		if err := rows.Scan(&g.EventID, &g.UserID, &name, &lastName, &g.Email, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Name = name.String
		g.LastName = lastName.String
		guards = append(guards, g)
	}
	return guards, rows.Err()
}

func (r *guardRepository) Remove(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM event_guards WHERE event_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Exists hits the store on every call. Authorization must reflect a
// revocation on the very next check-in attempt, so no caching here.
func (r *guardRepository) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM event_guards WHERE event_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
