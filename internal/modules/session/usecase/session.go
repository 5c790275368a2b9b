package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	catalogdomain "chalkup/internal/modules/catalog/domain"
	"chalkup/internal/modules/session/domain"
	sessiondto "chalkup/internal/modules/session/dto"
	sessionin "chalkup/internal/modules/session/port/in"
	sessionout "chalkup/internal/modules/session/port/out"
	"chalkup/internal/modules/session/service"
	timerdomain "chalkup/internal/modules/timer/domain"
	"chalkup/internal/platform/clock"
	apperrors "chalkup/internal/platform/errors"
	"chalkup/internal/platform/logging"
)

// Dependencies are the collaborators of the session lifecycle. Goals,
// Schedule and Metrics are optional.
type Dependencies struct {
	Clock     clock.Clock
	Recorder  *service.Recorder
	Detector  *service.GoalDetector
	Store     sessionout.SessionStore
	Active    sessionout.ActiveSessionStore
	Workouts  sessionout.WorkoutProvider
	Exercises sessionout.ExerciseCatalog
	Schedule  sessionout.ScheduleStore
	Timers    sessionout.Timers
	Metrics   sessionout.MetricsExporter
	AutoRest  domain.AutoRestPolicy
	Logger    hclog.Logger
}

// Interactor owns the one live session. Every operation runs under mu so
// the live state and the timers it drives change together.
type Interactor struct {
	deps   Dependencies
	logger hclog.Logger

	mu   sync.Mutex
	live *domain.Live
}

func NewInteractor(deps Dependencies) sessionin.Usecase {
	return &Interactor{deps: deps, logger: logging.OrDiscard(deps.Logger).Named("session")}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.LiveOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.live != nil {
		return sessiondto.LiveOutput{}, apperrors.ErrActiveSessionExists
	}
	// A marker left by another process still counts; a stale one is cleared.
	if _, err := i.hydrate(ctx); err == nil {
		return sessiondto.LiveOutput{}, apperrors.ErrActiveSessionExists
	} else if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return sessiondto.LiveOutput{}, err
	}

	var plan *domain.WorkoutPlan
	if input.WorkoutID != "" {
		workout, err := i.deps.Workouts.Workout(ctx, input.WorkoutID)
		if err != nil {
			return sessiondto.LiveOutput{}, err
		}
		plan = &workout
	}

	intervalLoaded := false
	if plan != nil && plan.Timer != nil {
		if err := plan.Timer.Validate(); err != nil {
			return sessiondto.LiveOutput{}, fmt.Errorf("workout %s timer: %w", plan.ID, err)
		}
		if err := i.deps.Timers.LoadInterval(ctx, *plan.Timer); err != nil {
			return sessiondto.LiveOutput{}, err
		}
		intervalLoaded = true
	}

	progress, err := i.seed(ctx, plan)
	if err != nil {
		i.unloadIf(ctx, intervalLoaded)
		return sessiondto.LiveOutput{}, err
	}

	live, err := i.deps.Recorder.Start(ctx, input.WorkoutID, progress)
	if err != nil {
		i.unloadIf(ctx, intervalLoaded)
		return sessiondto.LiveOutput{}, err
	}
	live.Workout = plan

	marker := domain.ActiveSession{
		SessionID: live.Session.ID,
		WorkoutID: live.Session.WorkoutID,
		StartedAt: live.Session.StartTime,
		Attempts:  live.Attempts,
	}
	if err := i.deps.Active.SaveActive(ctx, marker); err != nil {
		i.unloadIf(ctx, intervalLoaded)
		// Without a marker the row would stay open forever.
		if delErr := i.deps.Recorder.Delete(ctx, live.Session.ID); delErr != nil {
			i.logger.Warn("roll back unmarked session", "session", live.Session.ID, "error", delErr)
		}
		return sessiondto.LiveOutput{}, err
	}

	i.deps.Timers.StartClock(ctx, live.Session.StartTime)
	i.live = &live
	i.logger.Info("session started", "session", live.Session.ID, "workout", input.WorkoutID)
	return i.liveOutput(live), nil
}

// Resume rebuilds the live state from the active marker. Timers come back
// stopped; only the session clock runs.
func (i *Interactor) Resume(ctx context.Context) (sessiondto.LiveOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	live, err := i.ensureLiveLocked(ctx)
	if err != nil {
		return sessiondto.LiveOutput{}, err
	}
	return i.liveOutput(*live), nil
}

// GetActive reads the active session without touching the timers when it is
// not already live in this process.
func (i *Interactor) GetActive(ctx context.Context) (sessiondto.LiveOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.live != nil {
		return i.liveOutput(*i.live), nil
	}
	live, err := i.hydrate(ctx)
	if err != nil {
		return sessiondto.LiveOutput{}, err
	}
	return i.liveOutput(live), nil
}

func (i *Interactor) SetAttempts(ctx context.Context, attempts int) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if attempts < 1 {
		return 0, fmt.Errorf("%w: attempts must be at least 1", apperrors.ErrInvalidInput)
	}
	live, err := i.ensureLiveLocked(ctx)
	if err != nil {
		return 0, err
	}
	live.Attempts = attempts
	i.saveMarker(ctx, *live)
	return attempts, nil
}

func (i *Interactor) LogClimb(ctx context.Context, input sessiondto.LogClimbInput) (sessiondto.LogClimbOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	grade, err := catalogdomain.ParseGrade(input.Grade)
	if err != nil {
		return sessiondto.LogClimbOutput{}, err
	}
	live, err := i.ensureLiveLocked(ctx)
	if err != nil {
		return sessiondto.LogClimbOutput{}, err
	}
	attempts := input.Attempts
	if attempts == 0 {
		attempts = live.Attempts
	}

	next, climb, err := i.deps.Recorder.LogClimb(ctx, *live, grade, attempts, input.Sent)
	if err != nil {
		return sessiondto.LogClimbOutput{}, err
	}
	next.Attempts = domain.DefaultAttempts

	var achieved []domain.Achievement
	if i.deps.Detector != nil {
		achieved, err = i.deps.Detector.Detect(ctx, climb, next.Achieved)
		if err != nil {
			i.logger.Warn("goal detection failed", "session", next.Session.ID, "error", err)
		}
		next.Achievements = append(append([]domain.Achievement(nil), next.Achievements...), achieved...)
	}

	*live = next
	i.saveMarker(ctx, next)
	rest := i.autoRest(ctx)
	if i.deps.Metrics != nil {
		i.deps.Metrics.ClimbLogged(ctx, next.Session, climb)
	}
	return sessiondto.LogClimbOutput{
		Climb:        toClimbOutput(climb),
		Achievements: toAchievementOutputs(achieved),
		RestStarted:  rest,
	}, nil
}

func (i *Interactor) LogExerciseSet(ctx context.Context, exerciseID string) (sessiondto.LogSetOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	live, err := i.ensureLiveLocked(ctx)
	if err != nil {
		return sessiondto.LogSetOutput{}, err
	}
	next, progress, changed, err := i.deps.Recorder.LogSet(ctx, *live, exerciseID)
	if err != nil {
		return sessiondto.LogSetOutput{}, err
	}
	if !changed {
		return sessiondto.LogSetOutput{Progress: toProgressOutput(progress)}, nil
	}
	*live = next
	progress, _, _ = next.ProgressFor(exerciseID)
	return sessiondto.LogSetOutput{
		Progress:    toProgressOutput(progress),
		Changed:     true,
		RestStarted: i.autoRest(ctx),
	}, nil
}

func (i *Interactor) UpdateExercise(ctx context.Context, input sessiondto.UpdateExerciseInput) (sessiondto.ExerciseProgressOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	live, err := i.ensureLiveLocked(ctx)
	if err != nil {
		return sessiondto.ExerciseProgressOutput{}, err
	}
	next, _, err := i.deps.Recorder.UpdateExercise(ctx, *live, input.ExerciseID, domain.ExerciseUpdate{
		CompletedReps:  input.CompletedReps,
		AddedWeight:    input.AddedWeight,
		EdgeDepth:      input.EdgeDepth,
		ResistanceBand: input.ResistanceBand,
		RPE:            input.RPE,
		Notes:          input.Notes,
	})
	if err != nil {
		return sessiondto.ExerciseProgressOutput{}, err
	}
	if input.Expanded != nil {
		_, idx, _ := next.ProgressFor(input.ExerciseID)
		progress := append([]domain.ExerciseProgress(nil), next.Progress...)
		progress[idx].Expanded = *input.Expanded
		next.Progress = progress
	}
	*live = next
	progress, _, _ := next.ProgressFor(input.ExerciseID)
	return toProgressOutput(progress), nil
}

func (i *Interactor) UpdateDetails(ctx context.Context, input sessiondto.DetailsInput) (sessiondto.SessionOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	live, err := i.ensureLiveLocked(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	next, err := i.deps.Recorder.UpdateDetails(ctx, *live, mergeDetails(live.Session.Details(), input))
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	*live = next
	return toSessionOutput(next.Session), nil
}

func (i *Interactor) Finish(ctx context.Context, input sessiondto.FinishInput) (sessiondto.FinishOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	live, err := i.ensureLiveLocked(ctx)
	if err != nil {
		return sessiondto.FinishOutput{}, err
	}
	finished, err := i.deps.Recorder.Finish(ctx, *live, mergeDetails(live.Session.Details(), input.Details))
	if err != nil {
		return sessiondto.FinishOutput{}, err
	}
	if err := i.deps.Active.ClearActive(ctx); err != nil {
		i.logger.Warn("clear active session marker", "error", err)
	}
	i.stopTimers(ctx)
	i.live = nil

	out := sessiondto.FinishOutput{Session: toSessionOutput(finished.Session)}
	if entryID, ok := i.completeScheduled(ctx, finished.Session); ok {
		out.ScheduleEntryID = entryID
	}
	if i.deps.Metrics != nil {
		i.deps.Metrics.SessionFinished(ctx, finished.Session)
	}
	i.logger.Info("session finished", "session", finished.Session.ID, "minutes", finished.Session.DurationMinutes)
	return out, nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if id == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if err := i.deps.Recorder.Delete(ctx, id); err != nil {
		return err
	}

	activeID := ""
	if i.live != nil {
		activeID = i.live.Session.ID
	} else if marker, err := i.deps.Active.LoadActive(ctx); err == nil {
		activeID = marker.SessionID
	}
	if activeID != id {
		return nil
	}
	if err := i.deps.Active.ClearActive(ctx); err != nil {
		return err
	}
	if i.live != nil {
		i.stopTimers(ctx)
		i.live = nil
	}
	i.logger.Info("active session deleted", "session", id)
	return nil
}

func (i *Interactor) List(ctx context.Context) ([]sessiondto.SessionSummaryOutput, error) {
	sessions, err := i.deps.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sessions, func(a, b int) bool {
		return sessions[a].StartTime.After(sessions[b].StartTime)
	})
	out := make([]sessiondto.SessionSummaryOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessiondto.SessionSummaryOutput{
			ID:              s.ID,
			WorkoutID:       s.WorkoutID,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			DurationMinutes: s.DurationMinutes,
			Climbs:          len(s.Climbs),
			Sends:           s.Sends(),
			Active:          s.Active(),
		})
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (sessiondto.SessionOutput, error) {
	session, err := i.deps.Store.Load(ctx, id)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

func (i *Interactor) Changes(ctx context.Context, id string) ([]sessiondto.ChangeOutput, error) {
	changes, err := i.deps.Store.Changes(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.ChangeOutput, 0, len(changes))
	for _, c := range changes {
		out = append(out, sessiondto.ChangeOutput{Seq: c.Seq, Kind: string(c.Kind), At: c.At})
	}
	return out, nil
}

func (i *Interactor) Achievements(_ context.Context) []sessiondto.AchievementOutput {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.live == nil {
		return []sessiondto.AchievementOutput{}
	}
	return toAchievementOutputs(i.live.Achievements)
}

// DismissAchievement drops the oldest queued achievement. The goal itself is
// already completed and no longer part of the active scan.
func (i *Interactor) DismissAchievement(_ context.Context) []sessiondto.AchievementOutput {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.live == nil || len(i.live.Achievements) == 0 {
		return []sessiondto.AchievementOutput{}
	}
	i.live.Achievements = append([]domain.Achievement(nil), i.live.Achievements[1:]...)
	return toAchievementOutputs(i.live.Achievements)
}

func (i *Interactor) ensureLiveLocked(ctx context.Context) (*domain.Live, error) {
	if i.live != nil {
		return i.live, nil
	}
	live, err := i.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	if live.Workout != nil && live.Workout.Timer != nil {
		if err := i.deps.Timers.LoadInterval(ctx, *live.Workout.Timer); err != nil {
			i.logger.Warn("reload interval timer", "workout", live.Workout.ID, "error", err)
		}
	}
	i.deps.Timers.StartClock(ctx, live.Session.StartTime)
	i.live = &live
	i.logger.Debug("session resumed", "session", live.Session.ID)
	return i.live, nil
}

// hydrate reads the live state from the marker and the session store. A
// marker that points at a missing or finished session is cleared.
func (i *Interactor) hydrate(ctx context.Context) (domain.Live, error) {
	marker, err := i.deps.Active.LoadActive(ctx)
	if err != nil {
		return domain.Live{}, err
	}
	session, err := i.deps.Store.Load(ctx, marker.SessionID)
	if errors.Is(err, apperrors.ErrNotFound) || (err == nil && !session.Active()) {
		if err := i.deps.Active.ClearActive(ctx); err != nil {
			i.logger.Warn("clear stale session marker", "error", err)
		}
		return domain.Live{}, apperrors.ErrNoActiveSession
	}
	if err != nil {
		return domain.Live{}, err
	}
	progress, err := i.deps.Store.Progress(ctx, session.ID)
	if err != nil {
		return domain.Live{}, err
	}

	live := domain.Live{Session: session, Progress: progress, Attempts: max(marker.Attempts, domain.DefaultAttempts)}
	if session.WorkoutID != "" {
		plan, err := i.deps.Workouts.Workout(ctx, session.WorkoutID)
		switch {
		case err == nil:
			live.Workout = &plan
		case errors.Is(err, apperrors.ErrNotFound):
			i.logger.Warn("session workout no longer in catalog", "workout", session.WorkoutID)
		default:
			return domain.Live{}, err
		}
	}
	return live, nil
}

func (i *Interactor) seed(ctx context.Context, plan *domain.WorkoutPlan) ([]domain.ExerciseProgress, error) {
	if plan == nil || len(plan.Exercises) == 0 {
		return []domain.ExerciseProgress{}, nil
	}
	defaults := map[string]int{}
	for _, pe := range plan.Exercises {
		if pe.Sets > 0 || i.deps.Exercises == nil {
			continue
		}
		sets, err := i.deps.Exercises.DefaultSets(ctx, pe.ExerciseID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		defaults[pe.ExerciseID] = sets
	}

	hints := map[string]domain.ExerciseLog{}
	previous, ok, err := i.deps.Store.LatestWithExerciseLogs(ctx, plan.ID, "")
	if err != nil {
		return nil, err
	}
	if ok {
		for _, log := range previous.ExerciseLogs {
			hints[log.ExerciseID] = log
		}
	}
	return domain.Seed(plan.Exercises, defaults, hints), nil
}

func (i *Interactor) autoRest(ctx context.Context) bool {
	if !i.deps.AutoRest.ShouldStart(i.deps.Timers.IntervalActive(ctx)) {
		return false
	}
	if err := i.deps.Timers.StartRest(ctx, i.deps.AutoRest.Seconds()); err != nil {
		i.logger.Warn("start auto rest", "error", err)
		return false
	}
	return true
}

func (i *Interactor) completeScheduled(ctx context.Context, session domain.Session) (string, bool) {
	if i.deps.Schedule == nil || session.WorkoutID == "" || session.EndTime == nil {
		return "", false
	}
	date := session.EndTime.Local().Format(catalogdomain.DateLayout)
	entryID, ok, err := i.deps.Schedule.FindIncomplete(ctx, date, session.WorkoutID)
	if err != nil {
		i.logger.Warn("find scheduled workout", "date", date, "workout", session.WorkoutID, "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	if err := i.deps.Schedule.MarkCompleted(ctx, entryID); err != nil {
		i.logger.Warn("complete scheduled workout", "entry", entryID, "error", err)
		return "", false
	}
	return entryID, true
}

func (i *Interactor) saveMarker(ctx context.Context, live domain.Live) {
	marker := domain.ActiveSession{
		SessionID: live.Session.ID,
		WorkoutID: live.Session.WorkoutID,
		StartedAt: live.Session.StartTime,
		Attempts:  live.Attempts,
	}
	if err := i.deps.Active.SaveActive(ctx, marker); err != nil {
		i.logger.Warn("save active session marker", "error", err)
	}
}

func (i *Interactor) stopTimers(ctx context.Context) {
	i.deps.Timers.UnloadInterval(ctx)
	i.deps.Timers.StopRest(ctx)
	i.deps.Timers.StopClock(ctx)
}

func (i *Interactor) unloadIf(ctx context.Context, loaded bool) {
	if loaded {
		i.deps.Timers.UnloadInterval(ctx)
	}
}

func (i *Interactor) liveOutput(live domain.Live) sessiondto.LiveOutput {
	progress := make([]sessiondto.ExerciseProgressOutput, 0, len(live.Progress))
	for _, p := range live.Progress {
		progress = append(progress, toProgressOutput(p))
	}
	out := sessiondto.LiveOutput{
		Session:           toSessionOutput(live.Session),
		Progress:          progress,
		Achievements:      toAchievementOutputs(live.Achievements),
		Attempts:          live.Attempts,
		ElapsedSeconds:    timerdomain.Elapsed(live.Session.StartTime, i.deps.Clock.Now()),
		ShowsClimbLogging: live.ShowsClimbLogging(),
	}
	if live.Workout != nil {
		out.WorkoutName = live.Workout.Name
		out.HasInterval = live.Workout.Timer != nil
	}
	return out
}

func mergeDetails(base domain.Details, input sessiondto.DetailsInput) domain.Details {
	if input.RPE != nil {
		base.RPE = *input.RPE
	}
	if input.Notes != nil {
		base.Notes = *input.Notes
	}
	if input.SkinCondition != nil {
		base.SkinCondition = domain.Condition(*input.SkinCondition)
	}
	if input.SleepQuality != nil {
		base.SleepQuality = domain.Condition(*input.SleepQuality)
	}
	return base
}

func toSessionOutput(s domain.Session) sessiondto.SessionOutput {
	climbs := make([]sessiondto.ClimbOutput, 0, len(s.Climbs))
	for _, c := range s.Climbs {
		climbs = append(climbs, toClimbOutput(c))
	}
	logs := make([]sessiondto.ExerciseLogOutput, 0, len(s.ExerciseLogs))
	for _, l := range s.ExerciseLogs {
		logs = append(logs, sessiondto.ExerciseLogOutput{
			ID:             l.ID,
			ExerciseID:     l.ExerciseID,
			CompletedSets:  l.CompletedSets,
			CompletedReps:  l.CompletedReps,
			AddedWeight:    l.AddedWeight,
			EdgeDepth:      l.EdgeDepth,
			ResistanceBand: l.ResistanceBand,
			RPE:            l.RPE,
			Notes:          l.Notes,
			Timestamp:      l.Timestamp,
		})
	}
	return sessiondto.SessionOutput{
		ID:              s.ID,
		WorkoutID:       s.WorkoutID,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationMinutes: s.DurationMinutes,
		RPE:             s.RPE,
		Notes:           s.Notes,
		SkinCondition:   string(s.SkinCondition),
		SleepQuality:    string(s.SleepQuality),
		Climbs:          climbs,
		ExerciseLogs:    logs,
	}
}

func toClimbOutput(c domain.ClimbLog) sessiondto.ClimbOutput {
	return sessiondto.ClimbOutput{ID: c.ID, Grade: string(c.Grade), Attempts: c.Attempts, Sent: c.Sent, Timestamp: c.Timestamp}
}

func toProgressOutput(p domain.ExerciseProgress) sessiondto.ExerciseProgressOutput {
	return sessiondto.ExerciseProgressOutput{
		ExerciseID:     p.ExerciseID,
		TargetSets:     p.TargetSets,
		CompletedSets:  p.CompletedSets,
		CompletedReps:  p.CompletedReps,
		AddedWeight:    p.AddedWeight,
		EdgeDepth:      p.EdgeDepth,
		ResistanceBand: p.ResistanceBand,
		RPE:            p.RPE,
		Notes:          p.Notes,
		Expanded:       p.Expanded,
		Complete:       p.Complete(),
	}
}

func toAchievementOutputs(achievements []domain.Achievement) []sessiondto.AchievementOutput {
	out := make([]sessiondto.AchievementOutput, 0, len(achievements))
	for _, a := range achievements {
		out = append(out, sessiondto.AchievementOutput{GoalID: a.GoalID, Title: a.Title, Type: a.Type})
	}
	return out
}
