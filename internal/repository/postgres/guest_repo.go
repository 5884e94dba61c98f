package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"doorlist/internal/domain"
)

const guestColumns = `id, event_id, user_id, name, companions, status, checked_in, checked_in_at, checked_in_by, code, note, created_at, updated_at`

type guestRepository struct {
	DB *sql.DB
}

func NewGuestRepository(db *sql.DB) domain.GuestRepository {
	return &guestRepository{
		DB: db,
	}
}

// rowScanner lets scanGuest work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanGuest(row rowScanner) (*domain.Guest, error) {
	g := &domain.Guest{}
	var userID, checkedInBy, note sql.NullString
	var checkedInAt sql.NullTime
	err := row.Scan(
		&g.ID, &g.EventID, &userID, &g.Name, &g.Companions, &g.Status,
		&g.CheckedIn, &checkedInAt, &checkedInBy, &g.Code, &note,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		g.UserID = &userID.String
	}
	if checkedInAt.Valid {
		g.CheckedInAt = &checkedInAt.Time
	}
	if checkedInBy.Valid {
		g.CheckedInBy = &checkedInBy.String
	}
	if note.Valid {
		g.Note = &note.String
	}
	return g, nil
}

func (r *guestRepository) CreateWithCount(ctx context.Context, guest *domain.Guest, enforceCapacity bool) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Incrementing first takes the event row lock, which serializes all
	// registrations for the same event relative to each other.
	if enforceCapacity {
		query := `
			UPDATE events
			SET total_invited = total_invited + 1, updated_at = NOW()
			WHERE id = $1 AND total_invited < capacity
			RETURNING total_invited
		`
		var newTotal int
		if err := tx.QueryRowContext(ctx, query, guest.EventID).Scan(&newTotal); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			var exists bool
			if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, guest.EventID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return domain.ErrNotFound
			}
			return domain.ErrCapacityExceeded
		}
	} else {
		if _, err := adjustInvited(ctx, tx, guest.EventID, 1); err != nil {
			return err
		}
	}

	insert := `
		INSERT INTO guests (event_id, user_id, name, companions, status, code, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var userID any
	if guest.UserID != nil {
		userID = *guest.UserID
	}
	var note any
	if guest.Note != nil {
		note = *guest.Note
	}
	err = tx.QueryRowContext(ctx, insert,
		guest.EventID, userID, guest.Name, guest.Companions, string(guest.Status),
		guest.Code, note, guest.CreatedAt, guest.UpdatedAt,
	).Scan(&guest.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// Unique (event_id, user_id): a concurrent self-service confirm
			// won the race. Rolling back also undoes the increment.
			return domain.ErrAlreadyRegistered
		}
		return err
	}

	return tx.Commit()
}

func (r *guestRepository) DeleteWithCount(ctx context.Context, eventID, guestID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var wasCheckedIn bool
	query := `DELETE FROM guests WHERE event_id = $1 AND id = $2 RETURNING checked_in`
	if err := tx.QueryRowContext(ctx, query, eventID, guestID).Scan(&wasCheckedIn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if _, err := adjustInvited(ctx, tx, eventID, -1); err != nil {
		return err
	}
	if wasCheckedIn {
		if _, err := adjustCheckedIn(ctx, tx, eventID, -1); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *guestRepository) CheckInByCode(ctx context.Context, eventID, code, guardID string, at time.Time) (*domain.Guest, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	flip := fmt.Sprintf(`
		UPDATE guests
		SET checked_in = TRUE, checked_in_at = $3, checked_in_by = $4, updated_at = NOW()
		WHERE event_id = $1 AND code = $2 AND checked_in = FALSE
		RETURNING %s
	`, guestColumns)
	guest, err := scanGuest(tx.QueryRowContext(ctx, flip, eventID, code, at, guardID))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		// Nothing flipped: the code is unknown or the guest is already in.
		get := fmt.Sprintf(`SELECT %s FROM guests WHERE event_id = $1 AND code = $2`, guestColumns)
		existing, err := scanGuest(tx.QueryRowContext(ctx, get, eventID, code))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, domain.ErrCodeNotFound
			}
			return nil, err
		}
		return existing, domain.ErrAlreadyCheckedIn
	}

	if _, err := adjustCheckedIn(ctx, tx, eventID, 1); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return guest, nil
}

func (r *guestRepository) GetByID(ctx context.Context, eventID, guestID string) (*domain.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE event_id = $1 AND id = $2`, guestColumns)
	guest, err := scanGuest(r.DB.QueryRowContext(ctx, query, eventID, guestID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return guest, nil
}

func (r *guestRepository) GetByCode(ctx context.Context, eventID, code string) (*domain.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE event_id = $1 AND code = $2`, guestColumns)
	guest, err := scanGuest(r.DB.QueryRowContext(ctx, query, eventID, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}
	return guest, nil
}

func (r *guestRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE event_id = $1 AND user_id = $2`, guestColumns)
	guest, err := scanGuest(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return guest, nil
}

func (r *guestRepository) Update(ctx context.Context, eventID, guestID string, upd domain.GuestUpdate) (*domain.Guest, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.Companions != nil {
		setClauses = append(setClauses, fmt.Sprintf("companions = $%d", n))
		args = append(args, *upd.Companions)
		n++
	}
	if upd.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, string(*upd.Status))
		n++
	}
	if upd.Note != nil {
		setClauses = append(setClauses, fmt.Sprintf("note = $%d", n))
		args = append(args, *upd.Note)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, eventID, guestID)
	}
	args = append(args, eventID, guestID)
	query := fmt.Sprintf(`
		UPDATE guests SET %s
		WHERE event_id = $%d AND id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, n+1, guestColumns)
	guest, err := scanGuest(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return guest, nil
}

// likeEscaper escapes LIKE wildcards so a search term is always a literal
// substring match.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *guestRepository) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Guest, int, error) {
	where := `WHERE event_id = $1`
	args := []any{eventID}
	if search != "" {
		where += ` AND name ILIKE $2`
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM guests ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM guests %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, guestColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit(), params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	guests := make([]*domain.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, 0, err
		}
		guests = append(guests, g)
	}
	return guests, total, rows.Err()
}

func (r *guestRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Guest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM guests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, guestColumns)
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guests := make([]*domain.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}
