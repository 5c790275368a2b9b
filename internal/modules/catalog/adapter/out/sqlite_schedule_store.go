package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"chalkup/internal/modules/catalog/domain"
	catalogout "chalkup/internal/modules/catalog/port/out"
	apperrors "chalkup/internal/platform/errors"
	"chalkup/internal/platform/sqlitedb"
	"chalkup/internal/platform/tx"
)

type SQLiteScheduleStore struct {
	db *sql.DB
}

func NewSQLiteScheduleStore(ctx context.Context, db *sql.DB) (catalogout.ScheduleStore, error) {
	const ddl = `
CREATE TABLE IF NOT EXISTS scheduled_workouts (
  id TEXT PRIMARY KEY,
  date TEXT NOT NULL,
  workout_id TEXT NOT NULL,
  completed INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
`
	if err := sqlitedb.Migrate(ctx, db, "schedule", ddl, `CREATE INDEX IF NOT EXISTS idx_scheduled_date ON scheduled_workouts(date, workout_id)`); err != nil {
		return nil, err
	}
	return &SQLiteScheduleStore{db: db}, nil
}

const scheduleColumns = `id, date, workout_id, completed, created_at`

func (s *SQLiteScheduleStore) Save(ctx context.Context, entry domain.ScheduledWorkout) error {
	const stmt = `
INSERT INTO scheduled_workouts (` + scheduleColumns + `)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  date=excluded.date,
  workout_id=excluded.workout_id,
  completed=excluded.completed;
`
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, stmt, entry.ID, entry.Date, entry.WorkoutID, entry.Completed, entry.CreatedAt.UTC().Format(sqlitedb.TimeFormat))
	if err != nil {
		return fmt.Errorf("save scheduled workout %s: %w", entry.ID, err)
	}
	return nil
}

func (s *SQLiteScheduleStore) FindByID(ctx context.Context, id string) (domain.ScheduledWorkout, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM scheduled_workouts WHERE id = ?`, id)
	entry, err := scanScheduled(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ScheduledWorkout{}, fmt.Errorf("scheduled workout %s: %w", id, apperrors.ErrNotFound)
	}
	return entry, err
}

// ListRange returns entries with from <= date <= to; empty bounds are open.
func (s *SQLiteScheduleStore) ListRange(ctx context.Context, from, to string) ([]domain.ScheduledWorkout, error) {
	where := []string{}
	args := []any{}
	if from != "" {
		where = append(where, "date >= ?")
		args = append(args, from)
	}
	if to != "" {
		where = append(where, "date <= ?")
		args = append(args, to)
	}
	query := `SELECT ` + scheduleColumns + ` FROM scheduled_workouts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date, created_at, id`

	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()
	out := []domain.ScheduledWorkout{}
	for rows.Next() {
		entry, err := scanScheduled(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule: %w", err)
	}
	return out, nil
}

func (s *SQLiteScheduleStore) FindIncomplete(ctx context.Context, date, workoutID string) (domain.ScheduledWorkout, bool, error) {
	const query = `SELECT ` + scheduleColumns + ` FROM scheduled_workouts
WHERE date = ? AND workout_id = ? AND completed = 0
ORDER BY created_at, id LIMIT 1`
	entry, err := scanScheduled(tx.Exec(ctx, s.db).QueryRowContext(ctx, query, date, workoutID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ScheduledWorkout{}, false, nil
	}
	if err != nil {
		return domain.ScheduledWorkout{}, false, err
	}
	return entry, true, nil
}

func (s *SQLiteScheduleStore) Delete(ctx context.Context, id string) error {
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM scheduled_workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scheduled workout %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("scheduled workout %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func scanScheduled(row scanner) (domain.ScheduledWorkout, error) {
	var (
		entry     domain.ScheduledWorkout
		createdAt string
	)
	if err := row.Scan(&entry.ID, &entry.Date, &entry.WorkoutID, &entry.Completed, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ScheduledWorkout{}, err
		}
		return domain.ScheduledWorkout{}, fmt.Errorf("scan scheduled workout: %w", err)
	}
	created, err := time.Parse(sqlitedb.TimeFormat, createdAt)
	if err != nil {
		return domain.ScheduledWorkout{}, fmt.Errorf("parse scheduled created_at: %w", err)
	}
	entry.CreatedAt = created
	return entry, nil
}
