package out

import (
	"context"
	"time"

	"chalkup/internal/modules/session/domain"
	timerdomain "chalkup/internal/modules/timer/domain"
)

// SessionStore persists sessions as a sequence of discrete changes.
type SessionStore interface {
	Apply(ctx context.Context, change domain.Change) error
	Load(ctx context.Context, id string) (domain.Session, error)
	Progress(ctx context.Context, sessionID string) ([]domain.ExerciseProgress, error)
	List(ctx context.Context) ([]domain.Session, error)
	// LatestWithExerciseLogs is the newest session of workoutID, other than
	// excludeID, that recorded exercise logs.
	LatestWithExerciseLogs(ctx context.Context, workoutID, excludeID string) (domain.Session, bool, error)
	Changes(ctx context.Context, sessionID string) ([]domain.Change, error)
}

type ActiveSessionStore interface {
	SaveActive(ctx context.Context, session domain.ActiveSession) error
	LoadActive(ctx context.Context) (domain.ActiveSession, error)
	ClearActive(ctx context.Context) error
}

type WorkoutProvider interface {
	Workout(ctx context.Context, id string) (domain.WorkoutPlan, error)
}

type ExerciseCatalog interface {
	DefaultSets(ctx context.Context, exerciseID string) (int, error)
}

type GoalStore interface {
	ActiveGradeGoals(ctx context.Context) ([]domain.GradeGoal, error)
	CompleteGoal(ctx context.Context, goalID string) error
}

type ScheduleStore interface {
	FindIncomplete(ctx context.Context, date, workoutID string) (string, bool, error)
	MarkCompleted(ctx context.Context, entryID string) error
}

// Timers is the slice of the timer module the session lifecycle drives.
type Timers interface {
	LoadInterval(ctx context.Context, cfg timerdomain.IntervalConfig) error
	UnloadInterval(ctx context.Context)
	IntervalActive(ctx context.Context) bool
	StartRest(ctx context.Context, seconds int) error
	StopRest(ctx context.Context)
	StartClock(ctx context.Context, startedAt time.Time)
	StopClock(ctx context.Context)
}

type MetricsExporter interface {
	ClimbLogged(ctx context.Context, session domain.Session, climb domain.ClimbLog)
	SessionFinished(ctx context.Context, session domain.Session)
	Close(ctx context.Context) error
}
