package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"doorlist/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{"id", "owner_id", "name", "status", "date", "location_name", "location_lat", "location_lng", "capacity", "total_invited", "total_checked_in", "created_at", "updated_at"}

func eventRow(id, ownerID, name string, capacity, invited, checkedIn int) *sqlmock.Rows {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(eventCols).
		AddRow(id, ownerID, name, "active", nil, nil, nil, nil, capacity, invited, checkedIn, created, created)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				OwnerID:   "user-1",
				Name:      "Launch Party",
				Status:    domain.EventStatusActive,
				Capacity:  100,
				CreatedAt: now,
				UpdatedAt: now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(owner_id, name, status, date, location_name, location_lat, location_lng, capacity, created_at, updated_at\)`).
					WithArgs("user-1", "Launch Party", "active", nil, nil, nil, nil, 100, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
			},
			wantID: "ev-1",
		},
		{
			name: "db error",
			event: &domain.Event{
				OwnerID:   "user-1",
				Name:      "Launch Party",
				Status:    domain.EventStatusActive,
				Capacity:  100,
				CreatedAt: now,
				UpdatedAt: now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success includes counters", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(eventRow("ev-1", "user-1", "Launch Party", 100, 42, 17))

		repo := NewEventRepository(db)
		e, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, 100, e.Capacity)
		require.Equal(t, 42, e.TotalInvited)
		require.Equal(t, 17, e.TotalCheckedIn)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "ev-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update builds only requested clauses", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		name := "Renamed"
		capacity := 150
		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), name = \$1, capacity = \$2`).
			WithArgs("Renamed", 150, "ev-1").
			WillReturnRows(eventRow("ev-1", "user-1", "Renamed", 150, 42, 17))

		repo := NewEventRepository(db)
		e, err := repo.Update(ctx, "ev-1", domain.EventUpdate{Name: &name, Capacity: &capacity})
		require.NoError(t, err)
		require.Equal(t, "Renamed", e.Name)
		require.Equal(t, 150, e.Capacity)
	})

	t.Run("empty update falls back to read", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(eventRow("ev-1", "user-1", "Launch Party", 100, 42, 17))

		repo := NewEventRepository(db)
		e, err := repo.Update(ctx, "ev-1", domain.EventUpdate{})
		require.NoError(t, err)
		require.Equal(t, "Launch Party", e.Name)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Delete(ctx, "ev-1"))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs("ev-missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "ev-missing"), domain.ErrNotFound)
	})
}
