package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogdomain "chalkup/internal/modules/catalog/domain"
	"chalkup/internal/modules/session/domain"
	sessionout "chalkup/internal/modules/session/port/out"
	apperrors "chalkup/internal/platform/errors"
	"chalkup/internal/platform/sqlitedb"
	"chalkup/internal/platform/tx"
)

// SQLiteSessionStore applies each change to the relational tables and appends
// it to the session_changes journal in the same transaction.
type SQLiteSessionStore struct {
	db  *sql.DB
	txm tx.Manager
}

func NewSQLiteSessionStore(ctx context.Context, db *sql.DB, txm tx.Manager) (sessionout.SessionStore, error) {
	const sessions = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  workout_id TEXT,
  start_time TEXT NOT NULL,
  end_time TEXT,
  duration_minutes INTEGER NOT NULL DEFAULT 0,
  rpe INTEGER NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  skin_condition TEXT NOT NULL,
  sleep_quality TEXT NOT NULL
);
`
	const climbs = `
CREATE TABLE IF NOT EXISTS climbs (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  grade TEXT NOT NULL,
  attempts INTEGER NOT NULL,
  sent INTEGER NOT NULL,
  timestamp TEXT NOT NULL
);
`
	const progress = `
CREATE TABLE IF NOT EXISTS exercise_progress (
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  exercise_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  target_sets INTEGER NOT NULL,
  completed_sets INTEGER NOT NULL,
  completed_reps INTEGER NOT NULL,
  added_weight REAL,
  edge_depth REAL,
  resistance_band TEXT,
  rpe INTEGER,
  notes TEXT,
  PRIMARY KEY (session_id, exercise_id)
);
`
	const logs = `
CREATE TABLE IF NOT EXISTS exercise_logs (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  exercise_id TEXT NOT NULL,
  completed_sets INTEGER NOT NULL,
  completed_reps INTEGER NOT NULL,
  added_weight REAL,
  edge_depth REAL,
  resistance_band TEXT,
  rpe INTEGER,
  notes TEXT,
  timestamp TEXT NOT NULL
);
`
	const changes = `
CREATE TABLE IF NOT EXISTS session_changes (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  at TEXT NOT NULL,
  payload TEXT NOT NULL
);
`
	if err := sqlitedb.Migrate(ctx, db, "sessions",
		sessions, climbs, progress, logs, changes,
		`CREATE INDEX IF NOT EXISTS idx_climbs_session ON climbs(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_workout ON sessions(workout_id, start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_changes_session ON session_changes(session_id, seq)`,
	); err != nil {
		return nil, err
	}
	if txm == nil {
		txm = tx.NewSQLManager(db)
	}
	return &SQLiteSessionStore{db: db, txm: txm}, nil
}

func (s *SQLiteSessionStore) Apply(ctx context.Context, change domain.Change) error {
	if change.SessionID == "" {
		return fmt.Errorf("%w: change without session id", apperrors.ErrInvalidInput)
	}
	return s.txm.Within(ctx, func(ctx context.Context) error {
		ex := tx.Exec(ctx, s.db)
		if err := s.apply(ctx, ex, change); err != nil {
			return err
		}
		payload, err := json.Marshal(change)
		if err != nil {
			return fmt.Errorf("encode change: %w", err)
		}
		_, err = ex.ExecContext(ctx,
			`INSERT INTO session_changes (session_id, kind, at, payload) VALUES (?, ?, ?, ?)`,
			change.SessionID, string(change.Kind), formatTime(change.At), string(payload))
		if err != nil {
			return fmt.Errorf("journal %s: %w", change.Kind, err)
		}
		return nil
	})
}

func (s *SQLiteSessionStore) apply(ctx context.Context, ex tx.Executor, change domain.Change) error {
	switch change.Kind {
	case domain.ChangeSessionStarted:
		if change.Session == nil {
			return fmt.Errorf("%w: %s without session", apperrors.ErrInvalidInput, change.Kind)
		}
		session := change.Session
		_, err := ex.ExecContext(ctx, `
INSERT INTO sessions (id, workout_id, start_time, duration_minutes, rpe, notes, skin_condition, sleep_quality)
VALUES (?, ?, ?, 0, ?, ?, ?, ?)`,
			session.ID, sqlitedb.NullString(session.WorkoutID), formatTime(session.StartTime),
			session.RPE, session.Notes, string(session.SkinCondition), string(session.SleepQuality))
		if err != nil {
			return fmt.Errorf("insert session %s: %w", session.ID, err)
		}
		for position, p := range change.Progress {
			if err := insertProgress(ctx, ex, session.ID, position, p); err != nil {
				return err
			}
		}
		return nil

	case domain.ChangeClimbAppended:
		if change.Climb == nil {
			return fmt.Errorf("%w: %s without climb", apperrors.ErrInvalidInput, change.Kind)
		}
		if err := requireActive(ctx, ex, change.SessionID); err != nil {
			return err
		}
		climb := change.Climb
		_, err := ex.ExecContext(ctx,
			`INSERT INTO climbs (id, session_id, grade, attempts, sent, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
			climb.ID, change.SessionID, string(climb.Grade), climb.Attempts, climb.Sent, formatTime(climb.Timestamp))
		if err != nil {
			return fmt.Errorf("insert climb %s: %w", climb.ID, err)
		}
		return nil

	case domain.ChangeExerciseProgressUpdated:
		for _, p := range change.Progress {
			res, err := ex.ExecContext(ctx, `
UPDATE exercise_progress SET
  target_sets = ?, completed_sets = ?, completed_reps = ?, added_weight = ?,
  edge_depth = ?, resistance_band = ?, rpe = ?, notes = ?
WHERE session_id = ? AND exercise_id = ?`,
				p.TargetSets, p.CompletedSets, p.CompletedReps, sqlitedb.NullFloat(p.AddedWeight),
				sqlitedb.NullFloat(p.EdgeDepth), sqlitedb.NullString(p.ResistanceBand), sqlitedb.NullInt(p.RPE),
				sqlitedb.NullString(p.Notes), change.SessionID, p.ExerciseID)
			if err != nil {
				return fmt.Errorf("update progress %s: %w", p.ExerciseID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("exercise %s in session %s: %w", p.ExerciseID, change.SessionID, apperrors.ErrNotFound)
			}
		}
		return nil

	case domain.ChangeSessionUpdated:
		if change.Details == nil {
			return fmt.Errorf("%w: %s without details", apperrors.ErrInvalidInput, change.Kind)
		}
		return updateDetails(ctx, ex, change.SessionID, *change.Details)

	case domain.ChangeSessionFinished:
		if change.Finish == nil {
			return fmt.Errorf("%w: %s without finish record", apperrors.ErrInvalidInput, change.Kind)
		}
		if err := requireActive(ctx, ex, change.SessionID); err != nil {
			return err
		}
		if change.Details != nil {
			if err := updateDetails(ctx, ex, change.SessionID, *change.Details); err != nil {
				return err
			}
		}
		_, err := ex.ExecContext(ctx, `UPDATE sessions SET end_time = ?, duration_minutes = ? WHERE id = ?`,
			formatTime(change.Finish.EndTime), change.Finish.DurationMinutes, change.SessionID)
		if err != nil {
			return fmt.Errorf("finish session %s: %w", change.SessionID, err)
		}
		for position, log := range change.Finish.ExerciseLogs {
			if err := insertLog(ctx, ex, change.SessionID, position, log); err != nil {
				return err
			}
		}
		return nil

	case domain.ChangeSessionDeleted:
		res, err := ex.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, change.SessionID)
		if err != nil {
			return fmt.Errorf("delete session %s: %w", change.SessionID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("session %s: %w", change.SessionID, apperrors.ErrNotFound)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown change kind %q", apperrors.ErrInvalidInput, string(change.Kind))
	}
}

const sessionColumns = `id, workout_id, start_time, end_time, duration_minutes, rpe, notes, skin_condition, sleep_quality`

func (s *SQLiteSessionStore) Load(ctx context.Context, id string) (domain.Session, error) {
	ex := tx.Exec(ctx, s.db)
	session, err := scanSession(ex.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return domain.Session{}, err
	}
	return s.withChildren(ctx, ex, session)
}

func (s *SQLiteSessionStore) List(ctx context.Context) ([]domain.Session, error) {
	ex := tx.Exec(ctx, s.db)
	rows, err := ex.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY start_time DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	sessions := []domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	// Children are read after the cursor closes; the pool holds one connection.
	_ = rows.Close()
	for i := range sessions {
		full, err := s.withChildren(ctx, ex, sessions[i])
		if err != nil {
			return nil, err
		}
		sessions[i] = full
	}
	return sessions, nil
}

func (s *SQLiteSessionStore) Progress(ctx context.Context, sessionID string) ([]domain.ExerciseProgress, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, `
SELECT exercise_id, target_sets, completed_sets, completed_reps, added_weight, edge_depth, resistance_band, rpe, notes
FROM exercise_progress WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()
	out := []domain.ExerciseProgress{}
	for rows.Next() {
		var (
			p            domain.ExerciseProgress
			weight, edge sql.NullFloat64
			band, notes  sql.NullString
			rpe          sql.NullInt64
		)
		if err := rows.Scan(&p.ExerciseID, &p.TargetSets, &p.CompletedSets, &p.CompletedReps, &weight, &edge, &band, &rpe, &notes); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		p.AddedWeight = sqlitedb.FloatPtr(weight)
		p.EdgeDepth = sqlitedb.FloatPtr(edge)
		p.ResistanceBand = band.String
		p.RPE = sqlitedb.IntPtr(rpe)
		p.Notes = notes.String
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}
	return out, nil
}

func (s *SQLiteSessionStore) LatestWithExerciseLogs(ctx context.Context, workoutID, excludeID string) (domain.Session, bool, error) {
	const query = `
SELECT s.id FROM sessions s
WHERE s.workout_id = ? AND s.id != ? AND s.end_time IS NOT NULL
  AND EXISTS (SELECT 1 FROM exercise_logs l WHERE l.session_id = s.id)
ORDER BY s.start_time DESC LIMIT 1`
	var id string
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx, query, workoutID, excludeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("query latest session: %w", err)
	}
	session, err := s.Load(ctx, id)
	if err != nil {
		return domain.Session{}, false, err
	}
	return session, true, nil
}

// Changes returns the journal of a session in the order it was applied,
// including the deletion entry of a removed session.
func (s *SQLiteSessionStore) Changes(ctx context.Context, sessionID string) ([]domain.Change, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT seq, payload FROM session_changes WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()
	out := []domain.Change{}
	for rows.Next() {
		var (
			seq     int64
			payload string
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		change := domain.Change{}
		if err := json.Unmarshal([]byte(payload), &change); err != nil {
			return nil, fmt.Errorf("decode change %d: %w", seq, err)
		}
		change.Seq = seq
		out = append(out, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return out, nil
}

func (s *SQLiteSessionStore) withChildren(ctx context.Context, ex tx.Executor, session domain.Session) (domain.Session, error) {
	climbs, err := loadClimbs(ctx, ex, session.ID)
	if err != nil {
		return domain.Session{}, err
	}
	logs, err := loadLogs(ctx, ex, session.ID)
	if err != nil {
		return domain.Session{}, err
	}
	session.Climbs = climbs
	session.ExerciseLogs = logs
	return session, nil
}

func loadClimbs(ctx context.Context, ex tx.Executor, sessionID string) ([]domain.ClimbLog, error) {
	rows, err := ex.QueryContext(ctx,
		`SELECT id, grade, attempts, sent, timestamp FROM climbs WHERE session_id = ? ORDER BY seq DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query climbs: %w", err)
	}
	defer rows.Close()
	out := []domain.ClimbLog{}
	for rows.Next() {
		var (
			climb     domain.ClimbLog
			grade, at string
		)
		if err := rows.Scan(&climb.ID, &grade, &climb.Attempts, &climb.Sent, &at); err != nil {
			return nil, fmt.Errorf("scan climb: %w", err)
		}
		climb.Grade = catalogdomain.Grade(grade)
		if climb.Timestamp, err = parseTime(at); err != nil {
			return nil, err
		}
		out = append(out, climb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate climbs: %w", err)
	}
	return out, nil
}

func loadLogs(ctx context.Context, ex tx.Executor, sessionID string) ([]domain.ExerciseLog, error) {
	rows, err := ex.QueryContext(ctx, `
SELECT id, exercise_id, completed_sets, completed_reps, added_weight, edge_depth, resistance_band, rpe, notes, timestamp
FROM exercise_logs WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query exercise logs: %w", err)
	}
	defer rows.Close()
	out := []domain.ExerciseLog{}
	for rows.Next() {
		var (
			log          domain.ExerciseLog
			weight, edge sql.NullFloat64
			band, notes  sql.NullString
			rpe          sql.NullInt64
			at           string
		)
		if err := rows.Scan(&log.ID, &log.ExerciseID, &log.CompletedSets, &log.CompletedReps, &weight, &edge, &band, &rpe, &notes, &at); err != nil {
			return nil, fmt.Errorf("scan exercise log: %w", err)
		}
		log.AddedWeight = sqlitedb.FloatPtr(weight)
		log.EdgeDepth = sqlitedb.FloatPtr(edge)
		log.ResistanceBand = band.String
		log.RPE = sqlitedb.IntPtr(rpe)
		log.Notes = notes.String
		if log.Timestamp, err = parseTime(at); err != nil {
			return nil, err
		}
		out = append(out, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise logs: %w", err)
	}
	return out, nil
}

func insertProgress(ctx context.Context, ex tx.Executor, sessionID string, position int, p domain.ExerciseProgress) error {
	_, err := ex.ExecContext(ctx, `
INSERT INTO exercise_progress (session_id, exercise_id, position, target_sets, completed_sets, completed_reps, added_weight, edge_depth, resistance_band, rpe, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, p.ExerciseID, position, p.TargetSets, p.CompletedSets, p.CompletedReps,
		sqlitedb.NullFloat(p.AddedWeight), sqlitedb.NullFloat(p.EdgeDepth), sqlitedb.NullString(p.ResistanceBand),
		sqlitedb.NullInt(p.RPE), sqlitedb.NullString(p.Notes))
	if err != nil {
		return fmt.Errorf("insert progress %s: %w", p.ExerciseID, err)
	}
	return nil
}

func insertLog(ctx context.Context, ex tx.Executor, sessionID string, position int, log domain.ExerciseLog) error {
	_, err := ex.ExecContext(ctx, `
INSERT INTO exercise_logs (id, session_id, position, exercise_id, completed_sets, completed_reps, added_weight, edge_depth, resistance_band, rpe, notes, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, sessionID, position, log.ExerciseID, log.CompletedSets, log.CompletedReps,
		sqlitedb.NullFloat(log.AddedWeight), sqlitedb.NullFloat(log.EdgeDepth), sqlitedb.NullString(log.ResistanceBand),
		sqlitedb.NullInt(log.RPE), sqlitedb.NullString(log.Notes), formatTime(log.Timestamp))
	if err != nil {
		return fmt.Errorf("insert exercise log %s: %w", log.ID, err)
	}
	return nil
}

func updateDetails(ctx context.Context, ex tx.Executor, sessionID string, d domain.Details) error {
	res, err := ex.ExecContext(ctx,
		`UPDATE sessions SET rpe = ?, notes = ?, skin_condition = ?, sleep_quality = ? WHERE id = ?`,
		d.RPE, d.Notes, string(d.SkinCondition), string(d.SleepQuality), sessionID)
	if err != nil {
		return fmt.Errorf("update session %s: %w", sessionID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNotFound)
	}
	return nil
}

// requireActive rejects changes aimed at a missing or finished session.
func requireActive(ctx context.Context, ex tx.Executor, sessionID string) error {
	var end sql.NullString
	err := ex.QueryRowContext(ctx, `SELECT end_time FROM sessions WHERE id = ?`, sessionID).Scan(&end)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read session %s: %w", sessionID, err)
	}
	if end.Valid {
		return fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNoActiveSession)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session     domain.Session
		workoutID   sql.NullString
		start       string
		end         sql.NullString
		skin, sleep string
	)
	if err := row.Scan(&session.ID, &workoutID, &start, &end, &session.DurationMinutes, &session.RPE, &session.Notes, &skin, &sleep); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, err
		}
		return domain.Session{}, fmt.Errorf("scan session: %w", err)
	}
	session.WorkoutID = workoutID.String
	session.SkinCondition = domain.Condition(skin)
	session.SleepQuality = domain.Condition(sleep)
	started, err := parseTime(start)
	if err != nil {
		return domain.Session{}, err
	}
	session.StartTime = started
	if end.Valid {
		ended, err := parseTime(end.String)
		if err != nil {
			return domain.Session{}, err
		}
		session.EndTime = &ended
	}
	session.Climbs = []domain.ClimbLog{}
	return session, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqlitedb.TimeFormat)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(sqlitedb.TimeFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", raw, err)
	}
	return t, nil
}
