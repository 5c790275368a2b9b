package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chalkup/internal/modules/catalog/domain"
	catalogout "chalkup/internal/modules/catalog/port/out"
	apperrors "chalkup/internal/platform/errors"
	"chalkup/internal/platform/sqlitedb"
	"chalkup/internal/platform/tx"
)

type SQLiteGoalStore struct {
	db *sql.DB
}

func NewSQLiteGoalStore(ctx context.Context, db *sql.DB) (catalogout.GoalStore, error) {
	const ddl = `
CREATE TABLE IF NOT EXISTS goals (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL,
  target_date TEXT,
  target_grade TEXT,
  style TEXT,
  exercise_id TEXT,
  target_weight REAL,
  created_at TEXT NOT NULL,
  completed_at TEXT
);
`
	if err := sqlitedb.Migrate(ctx, db, "goals", ddl, `CREATE INDEX IF NOT EXISTS idx_goals_status ON goals(status)`); err != nil {
		return nil, err
	}
	return &SQLiteGoalStore{db: db}, nil
}

const goalColumns = `id, type, title, description, status, target_date, target_grade, style, exercise_id, target_weight, created_at, completed_at`

func (s *SQLiteGoalStore) Save(ctx context.Context, goal domain.Goal) error {
	const stmt = `
INSERT INTO goals (` + goalColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  type=excluded.type,
  title=excluded.title,
  description=excluded.description,
  status=excluded.status,
  target_date=excluded.target_date,
  target_grade=excluded.target_grade,
  style=excluded.style,
  exercise_id=excluded.exercise_id,
  target_weight=excluded.target_weight,
  completed_at=excluded.completed_at;
`
	var completedAt sql.NullString
	if goal.CompletedAt != nil {
		completedAt = sql.NullString{String: goal.CompletedAt.UTC().Format(sqlitedb.TimeFormat), Valid: true}
	}
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, stmt,
		goal.ID,
		string(goal.Type),
		goal.Title,
		sqlitedb.NullString(goal.Description),
		string(goal.Status),
		sqlitedb.NullString(goal.TargetDate),
		sqlitedb.NullString(string(goal.TargetGrade)),
		sqlitedb.NullString(string(goal.Style)),
		sqlitedb.NullString(goal.ExerciseID),
		goal.TargetWeight,
		goal.CreatedAt.UTC().Format(sqlitedb.TimeFormat),
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("save goal %s: %w", goal.ID, err)
	}
	return nil
}

func (s *SQLiteGoalStore) FindByID(ctx context.Context, id string) (domain.Goal, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Goal{}, fmt.Errorf("goal %s: %w", id, apperrors.ErrNotFound)
	}
	return goal, err
}

func (s *SQLiteGoalStore) List(ctx context.Context) ([]domain.Goal, error) {
	return s.query(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY created_at DESC, id`)
}

func (s *SQLiteGoalStore) ListByStatus(ctx context.Context, status domain.GoalStatus) ([]domain.Goal, error) {
	return s.query(ctx, `SELECT `+goalColumns+` FROM goals WHERE status = ? ORDER BY created_at, id`, string(status))
}

func (s *SQLiteGoalStore) Delete(ctx context.Context, id string) error {
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (s *SQLiteGoalStore) query(ctx context.Context, query string, args ...any) ([]domain.Goal, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()
	out := []domain.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(row scanner) (domain.Goal, error) {
	var (
		goal                        domain.Goal
		goalType, status, createdAt string
		description, targetDate     sql.NullString
		targetGrade, style          sql.NullString
		exerciseID, doneAt          sql.NullString
		targetWeight                sql.NullFloat64
	)
	if err := row.Scan(&goal.ID, &goalType, &goal.Title, &description, &status, &targetDate, &targetGrade, &style, &exerciseID, &targetWeight, &createdAt, &doneAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Goal{}, err
		}
		return domain.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	goal.Type = domain.GoalType(goalType)
	goal.Status = domain.GoalStatus(status)
	goal.Description = description.String
	goal.TargetDate = targetDate.String
	goal.TargetGrade = domain.Grade(targetGrade.String)
	goal.Style = domain.GradeStyle(style.String)
	goal.ExerciseID = exerciseID.String
	goal.TargetWeight = targetWeight.Float64
	created, err := time.Parse(sqlitedb.TimeFormat, createdAt)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("parse goal created_at: %w", err)
	}
	goal.CreatedAt = created
	if doneAt.Valid {
		completed, err := time.Parse(sqlitedb.TimeFormat, doneAt.String)
		if err != nil {
			return domain.Goal{}, fmt.Errorf("parse goal completed_at: %w", err)
		}
		goal.CompletedAt = &completed
	}
	return goal, nil
}
