package service

import (
	"context"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	catalogdomain "chalkup/internal/modules/catalog/domain"
	"chalkup/internal/modules/session/domain"
	sessionout "chalkup/internal/modules/session/port/out"
	"chalkup/internal/platform/clock"
	apperrors "chalkup/internal/platform/errors"
	"chalkup/internal/platform/id"
	"chalkup/internal/platform/logging"
)

// Recorder turns each session mutation into a Change, persists it and only
// then folds it into the live state. A failed write leaves the live state
// as it was.
type Recorder struct {
	clock  clock.Clock
	idGen  id.Generator
	store  sessionout.SessionStore
	logger hclog.Logger
}

func NewRecorder(clock clock.Clock, idGen id.Generator, store sessionout.SessionStore, logger hclog.Logger) *Recorder {
	return &Recorder{clock: clock, idGen: idGen, store: store, logger: logging.OrDiscard(logger).Named("recorder")}
}

func (r *Recorder) Start(ctx context.Context, workoutID string, progress []domain.ExerciseProgress) (domain.Live, error) {
	session := domain.NewSession(r.idGen.New(), workoutID, r.clock.Now())
	live, err := r.commit(ctx, domain.Live{Attempts: domain.DefaultAttempts}, domain.Change{
		Kind:      domain.ChangeSessionStarted,
		SessionID: session.ID,
		At:        session.StartTime,
		Session:   &session,
		Progress:  progress,
	})
	if err != nil {
		return domain.Live{}, err
	}
	r.logger.Debug("session started", "session", session.ID, "workout", workoutID)
	return live, nil
}

func (r *Recorder) LogClimb(ctx context.Context, live domain.Live, grade catalogdomain.Grade, attempts int, sent bool) (domain.Live, domain.ClimbLog, error) {
	climb := domain.ClimbLog{ID: r.idGen.New(), Grade: grade, Attempts: attempts, Sent: sent, Timestamp: r.clock.Now()}
	if err := climb.Validate(); err != nil {
		return live, domain.ClimbLog{}, err
	}
	next, err := r.commit(ctx, live, domain.Change{
		Kind:      domain.ChangeClimbAppended,
		SessionID: live.Session.ID,
		At:        climb.Timestamp,
		Climb:     &climb,
	})
	if err != nil {
		return live, domain.ClimbLog{}, err
	}
	return next, climb, nil
}

// LogSet increments one exercise; changed is false once the target is met.
func (r *Recorder) LogSet(ctx context.Context, live domain.Live, exerciseID string) (domain.Live, domain.ExerciseProgress, bool, error) {
	current, _, ok := live.ProgressFor(exerciseID)
	if !ok {
		return live, domain.ExerciseProgress{}, false, fmt.Errorf("exercise %s in session: %w", exerciseID, apperrors.ErrNotFound)
	}
	updated, changed := current.IncrementSet()
	if !changed {
		return live, current, false, nil
	}
	next, err := r.commitProgress(ctx, live, updated)
	if err != nil {
		return live, current, false, err
	}
	return next, updated, true, nil
}

func (r *Recorder) UpdateExercise(ctx context.Context, live domain.Live, exerciseID string, update domain.ExerciseUpdate) (domain.Live, domain.ExerciseProgress, error) {
	current, _, ok := live.ProgressFor(exerciseID)
	if !ok {
		return live, domain.ExerciseProgress{}, fmt.Errorf("exercise %s in session: %w", exerciseID, apperrors.ErrNotFound)
	}
	if update.Empty() {
		return live, current, nil
	}
	updated, err := current.Apply(update)
	if err != nil {
		return live, current, err
	}
	next, err := r.commitProgress(ctx, live, updated)
	if err != nil {
		return live, current, err
	}
	return next, updated, nil
}

func (r *Recorder) UpdateDetails(ctx context.Context, live domain.Live, details domain.Details) (domain.Live, error) {
	if err := details.Validate(); err != nil {
		return live, err
	}
	return r.commit(ctx, live, domain.Change{
		Kind:      domain.ChangeSessionUpdated,
		SessionID: live.Session.ID,
		At:        r.clock.Now(),
		Details:   &details,
	})
}

func (r *Recorder) Finish(ctx context.Context, live domain.Live, details domain.Details) (domain.Live, error) {
	if err := details.Validate(); err != nil {
		return live, err
	}
	end := r.clock.Now()
	record := domain.FinishRecord{
		EndTime:         end,
		DurationMinutes: domain.DurationMinutes(live.Session.StartTime, end),
		ExerciseLogs:    domain.Freeze(live.Progress, r.idGen.New, end),
	}
	next, err := r.commit(ctx, live, domain.Change{
		Kind:      domain.ChangeSessionFinished,
		SessionID: live.Session.ID,
		At:        end,
		Details:   &details,
		Finish:    &record,
	})
	if err != nil {
		return live, err
	}
	r.logger.Debug("session finished", "session", live.Session.ID, "minutes", record.DurationMinutes, "climbs", len(live.Session.Climbs))
	return next, nil
}

func (r *Recorder) Delete(ctx context.Context, sessionID string) error {
	return r.store.Apply(ctx, domain.Change{Kind: domain.ChangeSessionDeleted, SessionID: sessionID, At: r.clock.Now()})
}

func (r *Recorder) commitProgress(ctx context.Context, live domain.Live, progress domain.ExerciseProgress) (domain.Live, error) {
	return r.commit(ctx, live, domain.Change{
		Kind:      domain.ChangeExerciseProgressUpdated,
		SessionID: live.Session.ID,
		At:        r.clock.Now(),
		Progress:  []domain.ExerciseProgress{progress},
	})
}

func (r *Recorder) commit(ctx context.Context, live domain.Live, change domain.Change) (domain.Live, error) {
	if err := r.store.Apply(ctx, change); err != nil {
		return live, fmt.Errorf("persist %s: %w", change.Kind, err)
	}
	return live.Apply(change), nil
}
