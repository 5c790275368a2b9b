package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	catalogdomain "chalkup/internal/modules/catalog/domain"
	sessionadapter "chalkup/internal/modules/session/adapter/out"
	"chalkup/internal/modules/session/domain"
	sessiondto "chalkup/internal/modules/session/dto"
	sessionin "chalkup/internal/modules/session/port/in"
	sessionout "chalkup/internal/modules/session/port/out"
	"chalkup/internal/modules/session/service"
	"chalkup/internal/modules/session/usecase"
	timerdomain "chalkup/internal/modules/timer/domain"
	apperrors "chalkup/internal/platform/errors"
	"chalkup/internal/platform/sqlitedb"
	"chalkup/internal/platform/tx"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type fakeTimers struct {
	loaded       *timerdomain.IntervalConfig
	done         bool
	rests        []int
	restStops    int
	clockStart   time.Time
	clockRunning bool
}

func (f *fakeTimers) LoadInterval(_ context.Context, cfg timerdomain.IntervalConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.loaded = &cfg
	f.done = false
	return nil
}
func (f *fakeTimers) UnloadInterval(context.Context) { f.loaded = nil }
func (f *fakeTimers) IntervalActive(context.Context) bool {
	return f.loaded != nil && !f.done
}
func (f *fakeTimers) StartRest(_ context.Context, seconds int) error {
	f.rests = append(f.rests, seconds)
	return nil
}
func (f *fakeTimers) StopRest(context.Context) { f.restStops++ }
func (f *fakeTimers) StartClock(_ context.Context, t time.Time) {
	f.clockStart = t
	f.clockRunning = true
}
func (f *fakeTimers) StopClock(context.Context) { f.clockRunning = false }

type fakeWorkouts map[string]domain.WorkoutPlan

func (f fakeWorkouts) Workout(_ context.Context, id string) (domain.WorkoutPlan, error) {
	w, ok := f[id]
	if !ok {
		return domain.WorkoutPlan{}, fmt.Errorf("workout %s: %w", id, apperrors.ErrNotFound)
	}
	return w, nil
}

type fakeExercises map[string]int

func (f fakeExercises) DefaultSets(_ context.Context, id string) (int, error) {
	sets, ok := f[id]
	if !ok {
		return 0, fmt.Errorf("exercise %s: %w", id, apperrors.ErrNotFound)
	}
	return sets, nil
}

type fakeGoals struct {
	goals     []domain.GradeGoal
	completed map[string]int
}

func (f *fakeGoals) ActiveGradeGoals(context.Context) ([]domain.GradeGoal, error) {
	out := []domain.GradeGoal{}
	for _, g := range f.goals {
		if f.completed[g.ID] == 0 {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoals) CompleteGoal(_ context.Context, id string) error {
	f.completed[id]++
	return nil
}

type scheduleEntry struct {
	id, date, workoutID string
	completed           bool
}

type fakeSchedule struct {
	entries []*scheduleEntry
}

func (f *fakeSchedule) FindIncomplete(_ context.Context, date, workoutID string) (string, bool, error) {
	for _, e := range f.entries {
		if e.date == date && e.workoutID == workoutID && !e.completed {
			return e.id, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeSchedule) MarkCompleted(_ context.Context, id string) error {
	for _, e := range f.entries {
		if e.id == id {
			e.completed = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeMetrics struct {
	climbs   int
	finished []domain.Session
}

func (f *fakeMetrics) ClimbLogged(context.Context, domain.Session, domain.ClimbLog) { f.climbs++ }
func (f *fakeMetrics) SessionFinished(_ context.Context, s domain.Session) {
	f.finished = append(f.finished, s)
}
func (f *fakeMetrics) Close(context.Context) error { return nil }

type harness struct {
	dir      string
	clock    *fakeClock
	ids      *seqID
	store    sessionout.SessionStore
	active   sessionout.ActiveSessionStore
	timers   *fakeTimers
	goals    *fakeGoals
	schedule *fakeSchedule
	metrics  *fakeMetrics
	workouts fakeWorkouts
	uc       sessionin.Usecase
}

var start = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	db, err := sqlitedb.Open(ctx, filepath.Join(dir, ".chalkup", "chalkup.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store, err := sessionadapter.NewSQLiteSessionStore(ctx, db, tx.NewSQLManager(db))
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	h := &harness{
		dir:      dir,
		clock:    &fakeClock{now: start},
		ids:      &seqID{},
		store:    store,
		active:   sessionadapter.NewFileActiveSessionStore(dir),
		goals:    &fakeGoals{completed: map[string]int{}},
		schedule: &fakeSchedule{},
		metrics:  &fakeMetrics{},
		workouts: fakeWorkouts{
			"w1": {ID: "w1", Name: "Limit Bouldering", ShowsClimbLogging: true},
			"hb": {
				ID:   "hb",
				Name: "Hangboard Repeaters",
				Timer: &timerdomain.IntervalConfig{
					WorkSeconds: 7, RestSeconds: 3, RepsPerSet: 6, TotalSets: 3, RestBetweenSetsSeconds: 120,
				},
				Exercises: []domain.PlannedExercise{{ExerciseID: "e1"}, {ExerciseID: "e2", Sets: 5}, {ExerciseID: "e9"}},
			},
			"broken": {ID: "broken", Name: "Broken", Timer: &timerdomain.IntervalConfig{WorkSeconds: 0, RepsPerSet: 1, TotalSets: 1}},
		},
	}
	h.uc = h.open()
	return h
}

// open builds a fresh interactor over the same stores, as after a restart.
func (h *harness) open() sessionin.Usecase {
	h.timers = &fakeTimers{}
	return usecase.NewInteractor(usecase.Dependencies{
		Clock:     h.clock,
		Recorder:  service.NewRecorder(h.clock, h.ids, h.store, nil),
		Detector:  service.NewGoalDetector(h.goals, nil),
		Store:     h.store,
		Active:    h.active,
		Workouts:  h.workouts,
		Exercises: fakeExercises{"e1": 4},
		Schedule:  h.schedule,
		Timers:    h.timers,
		Metrics:   h.metrics,
		AutoRest:  domain.DefaultAutoRest(),
	})
}

func TestStartRejectsSecondActiveSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	live, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "w1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if live.Session.RPE != domain.DefaultRPE || live.Session.SkinCondition != "Good" || live.Attempts != 1 || !live.ShowsClimbLogging {
		t.Fatalf("unexpected defaults: %+v", live)
	}
	if !h.timers.clockRunning || !h.timers.clockStart.Equal(start) {
		t.Fatalf("session clock not started: %+v", h.timers)
	}
	if _, err := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "V3", Sent: true}); err != nil {
		t.Fatalf("log first: %v", err)
	}
	h.clock.advance(time.Minute)
	if _, err := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "V6", Attempts: 4}); err != nil {
		t.Fatalf("log second: %v", err)
	}
	before, err := h.uc.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}

	if _, err := h.uc.Start(ctx, sessiondto.StartInput{}); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected active session error, got %v", err)
	}
	if _, err := h.open().Start(ctx, sessiondto.StartInput{}); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected marker to block a new session, got %v", err)
	}
	sessions, err := h.uc.List(ctx)
	if err != nil || len(sessions) != 1 {
		t.Fatalf("expected a single stored session, got %+v %v", sessions, err)
	}

	after, err := h.uc.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active after rejected start: %v", err)
	}
	stored, err := h.uc.Get(ctx, live.Session.ID)
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	for name, climbs := range map[string][]sessiondto.ClimbOutput{"live": after.Session.Climbs, "stored": stored.Climbs} {
		if len(climbs) != len(before.Session.Climbs) {
			t.Fatalf("%s climbs changed: %+v, want %+v", name, climbs, before.Session.Climbs)
		}
		for idx, c := range climbs {
			want := before.Session.Climbs[idx]
			if c.ID != want.ID || c.Grade != want.Grade || c.Attempts != want.Attempts || c.Sent != want.Sent {
				t.Fatalf("%s climb %d = %+v, want %+v", name, idx, c, want)
			}
		}
	}
	if after.Session.Climbs[0].Grade != "V6" || after.Session.Climbs[1].Grade != "V3" {
		t.Fatalf("climb order changed: %+v", after.Session.Climbs)
	}
}

type failingMarker struct {
	sessionout.ActiveSessionStore
}

func (failingMarker) SaveActive(context.Context, domain.ActiveSession) error {
	return errors.New("disk full")
}

func TestStartRollsBackWhenMarkerWriteFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	h.active = failingMarker{ActiveSessionStore: h.active}
	h.uc = h.open()

	if _, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "hb"}); err == nil {
		t.Fatalf("expected marker failure")
	}
	if h.timers.loaded != nil || h.timers.clockRunning {
		t.Fatalf("timers left running: %+v", h.timers)
	}
	sessions, err := h.uc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("unmarked session row left behind: %+v", sessions)
	}
}

func TestStartWithInvalidTimerCreatesNoSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	if _, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "broken"}); !errors.Is(err, apperrors.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
	if _, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "missing"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := h.active.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("marker must not exist, got %v", err)
	}
	if sessions, _ := h.uc.List(ctx); len(sessions) != 0 {
		t.Fatalf("expected no sessions, got %+v", sessions)
	}
}

func TestClimbLogIsNewestFirstAndResetsAttempts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	if _, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "w1"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := h.uc.SetAttempts(ctx, 0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid attempts, got %v", err)
	}
	if _, err := h.uc.SetAttempts(ctx, 3); err != nil {
		t.Fatalf("set attempts: %v", err)
	}
	first, err := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "v4", Sent: true})
	if err != nil {
		t.Fatalf("log first: %v", err)
	}
	if first.Climb.Grade != "V4" || first.Climb.Attempts != 3 || !first.RestStarted {
		t.Fatalf("unexpected first climb: %+v", first)
	}
	h.clock.advance(time.Minute)
	if _, err := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "V5", Attempts: 2}); err != nil {
		t.Fatalf("log second: %v", err)
	}
	if _, err := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "V12"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid grade, got %v", err)
	}

	live, err := h.uc.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if live.Attempts != 1 {
		t.Fatalf("attempts must reset to 1, got %d", live.Attempts)
	}
	if len(live.Session.Climbs) != 2 || live.Session.Climbs[0].Grade != "V5" || live.Session.Climbs[1].Grade != "V4" {
		t.Fatalf("climbs must be newest first: %+v", live.Session.Climbs)
	}
	stored, err := h.uc.Get(ctx, live.Session.ID)
	if err != nil || len(stored.Climbs) != 2 || stored.Climbs[0].Grade != "V5" {
		t.Fatalf("stored climbs out of order: %+v %v", stored.Climbs, err)
	}
	if len(h.timers.rests) != 2 || h.timers.rests[0] != 120 || h.metrics.climbs != 2 {
		t.Fatalf("expected auto rest and metrics per climb: %+v %+v", h.timers.rests, h.metrics)
	}
}

func TestGoalAchievedOncePerSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	h.goals.goals = []domain.GradeGoal{
		{ID: "g-flash", Title: "Flash V5", TargetGrade: "V5", Style: catalogdomain.StyleFlash},
		{ID: "g-send", Title: "Send V7", TargetGrade: "V7", Style: catalogdomain.StyleSend},
	}
	if _, err := h.uc.Start(ctx, sessiondto.StartInput{}); err != nil {
		t.Fatalf("start: %v", err)
	}

	miss, err := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "V6", Attempts: 2, Sent: true})
	if err != nil || len(miss.Achievements) != 0 {
		t.Fatalf("two attempts must not flash: %+v %v", miss, err)
	}
	if out, _ := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "V6", Attempts: 1}); len(out.Achievements) != 0 {
		t.Fatalf("unsent climb must not achieve: %+v", out)
	}
	hit, err := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "V6", Attempts: 1, Sent: true})
	if err != nil || len(hit.Achievements) != 1 || hit.Achievements[0].GoalID != "g-flash" {
		t.Fatalf("expected flash achievement: %+v %v", hit, err)
	}
	again, _ := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "V6", Attempts: 1, Sent: true})
	if len(again.Achievements) != 0 || h.goals.completed["g-flash"] != 1 {
		t.Fatalf("goal must complete once: %+v %+v", again, h.goals.completed)
	}
	if queue := h.uc.Achievements(ctx); len(queue) != 1 || queue[0].Title != "Flash V5" {
		t.Fatalf("unexpected queue: %+v", queue)
	}
	if queue := h.uc.DismissAchievement(ctx); len(queue) != 0 {
		t.Fatalf("dismiss must drain the queue: %+v", queue)
	}
}

func TestExerciseProgressSeedingAndClamp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	live, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "hb"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if h.timers.loaded == nil || !live.HasInterval || live.ShowsClimbLogging {
		t.Fatalf("hangboard workout must load its protocol: %+v", live)
	}
	targets := map[string]int{}
	for _, p := range live.Progress {
		targets[p.ExerciseID] = p.TargetSets
	}
	if targets["e1"] != 4 || targets["e2"] != 5 || targets["e9"] != domain.DefaultTargetSets {
		t.Fatalf("unexpected targets: %+v", targets)
	}

	// The interval protocol is active, so sets do not start a rest.
	for range 4 {
		out, err := h.uc.LogExerciseSet(ctx, "e1")
		if err != nil || !out.Changed || out.RestStarted {
			t.Fatalf("log set: %+v %v", out, err)
		}
	}
	clamped, err := h.uc.LogExerciseSet(ctx, "e1")
	if err != nil || clamped.Changed || clamped.Progress.CompletedSets != 4 || !clamped.Progress.Complete {
		t.Fatalf("set count must clamp at target: %+v %v", clamped, err)
	}
	if _, err := h.uc.LogExerciseSet(ctx, "e7"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown exercise, got %v", err)
	}

	h.timers.done = true
	out, err := h.uc.LogExerciseSet(ctx, "e2")
	if err != nil || !out.RestStarted {
		t.Fatalf("set after protocol completion must rest: %+v %v", out, err)
	}
	if len(h.timers.rests) != 1 {
		t.Fatalf("clamped logs must not rest: %+v", h.timers.rests)
	}
}

func TestUpdateExerciseKeepsExpandedInMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	live, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "hb"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	expanded := true
	if _, err := h.uc.UpdateExercise(ctx, sessiondto.UpdateExerciseInput{ExerciseID: "e1", Expanded: &expanded}); err != nil {
		t.Fatalf("expand: %v", err)
	}
	weight := 10.0
	out, err := h.uc.UpdateExercise(ctx, sessiondto.UpdateExerciseInput{ExerciseID: "e1", AddedWeight: &weight})
	if err != nil || !out.Expanded || out.AddedWeight == nil || *out.AddedWeight != 10 {
		t.Fatalf("weight update must keep expanded: %+v %v", out, err)
	}
	depth := -1.0
	if _, err := h.uc.UpdateExercise(ctx, sessiondto.UpdateExerciseInput{ExerciseID: "e1", EdgeDepth: &depth}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid edge depth, got %v", err)
	}

	progress, err := h.store.Progress(ctx, live.Session.ID)
	if err != nil || progress[0].AddedWeight == nil || progress[0].Expanded {
		t.Fatalf("stored progress: %+v %v", progress, err)
	}
}

func TestFinishFreezesLogsAndCompletesOneScheduleEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	if _, err := h.uc.Finish(ctx, sessiondto.FinishInput{}); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}

	today := start.Add(125 * time.Second).Local().Format(catalogdomain.DateLayout)
	h.schedule.entries = []*scheduleEntry{
		{id: "s-other", date: today, workoutID: "w1"},
		{id: "s-1", date: today, workoutID: "hb"},
		{id: "s-2", date: today, workoutID: "hb"},
	}
	if _, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "hb"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.uc.LogExerciseSet(ctx, "e2"); err != nil {
		t.Fatalf("log set: %v", err)
	}
	h.clock.advance(125 * time.Second)

	rpe, notes, skin := 8, "crimpy", "Fair"
	out, err := h.uc.Finish(ctx, sessiondto.FinishInput{Details: sessiondto.DetailsInput{RPE: &rpe, Notes: &notes, SkinCondition: &skin}})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if out.Session.DurationMinutes != 2 || out.Session.EndTime == nil || out.Session.RPE != 8 || out.Session.SkinCondition != "Fair" || out.Session.SleepQuality != "Good" {
		t.Fatalf("unexpected finished session: %+v", out.Session)
	}
	if len(out.Session.ExerciseLogs) != 1 || out.Session.ExerciseLogs[0].ExerciseID != "e2" {
		t.Fatalf("only exercises with sets are frozen: %+v", out.Session.ExerciseLogs)
	}
	if out.ScheduleEntryID != "s-1" || !h.schedule.entries[1].completed || h.schedule.entries[2].completed || h.schedule.entries[0].completed {
		t.Fatalf("exactly one matching entry must complete: %+v", out)
	}
	if h.timers.loaded != nil || h.timers.clockRunning || h.timers.restStops != 1 || len(h.metrics.finished) != 1 {
		t.Fatalf("finish must stop timers and export metrics: %+v %+v", h.timers, h.metrics)
	}
	if _, err := h.active.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("marker must be cleared, got %v", err)
	}
	if _, err := h.uc.GetActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session after finish, got %v", err)
	}

	// The next session of the same workout starts from the last loads.
	weight := 5.0
	h.clock.advance(time.Hour)
	if _, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "hb"}); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if _, err := h.uc.UpdateExercise(ctx, sessiondto.UpdateExerciseInput{ExerciseID: "e2", AddedWeight: &weight}); err != nil {
		t.Fatalf("update: %v", err)
	}
	live, _ := h.uc.GetActive(ctx)
	if live.Progress[1].CompletedSets != 0 {
		t.Fatalf("set counts must not carry forward: %+v", live.Progress[1])
	}
}

func TestProgressiveOverloadHint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	if _, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "hb"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	weight, depth, band := 7.5, 20.0, "red"
	if _, err := h.uc.UpdateExercise(ctx, sessiondto.UpdateExerciseInput{ExerciseID: "e1", AddedWeight: &weight, EdgeDepth: &depth, ResistanceBand: &band}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := h.uc.LogExerciseSet(ctx, "e1"); err != nil {
		t.Fatalf("log set: %v", err)
	}
	h.clock.advance(30 * time.Minute)
	if _, err := h.uc.Finish(ctx, sessiondto.FinishInput{}); err != nil {
		t.Fatalf("finish: %v", err)
	}

	h.clock.advance(24 * time.Hour)
	live, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "hb"})
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	first := live.Progress[0]
	if first.AddedWeight == nil || *first.AddedWeight != 7.5 || first.EdgeDepth == nil || *first.EdgeDepth != 20 || first.ResistanceBand != "red" || first.CompletedSets != 0 {
		t.Fatalf("expected carried loads: %+v", first)
	}
	if live.Progress[1].AddedWeight != nil {
		t.Fatalf("exercises without history start empty: %+v", live.Progress[1])
	}
}

func TestResumeRebuildsLiveState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	started, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "hb"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.uc.LogExerciseSet(ctx, "e9"); err != nil {
		t.Fatalf("log set: %v", err)
	}
	if _, err := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "V3", Sent: true}); err != nil {
		t.Fatalf("log climb: %v", err)
	}
	if _, err := h.uc.SetAttempts(ctx, 4); err != nil {
		t.Fatalf("set attempts: %v", err)
	}
	h.clock.advance(90 * time.Second)

	reopened := h.open()
	live, err := reopened.Resume(ctx)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if live.Session.ID != started.Session.ID || len(live.Session.Climbs) != 1 || live.Attempts != 4 {
		t.Fatalf("unexpected resumed session: %+v", live)
	}
	if live.Progress[2].ExerciseID != "e9" || live.Progress[2].CompletedSets != 1 {
		t.Fatalf("progress not restored: %+v", live.Progress)
	}
	if live.ElapsedSeconds != 90 || !h.timers.clockStart.Equal(start) || h.timers.loaded == nil || len(h.timers.rests) != 0 {
		t.Fatalf("timers must resume from the stored start: %+v %+v", live, h.timers)
	}

	changes, err := reopened.Changes(ctx, started.Session.ID)
	if err != nil || len(changes) != 3 || changes[0].Kind != string(domain.ChangeSessionStarted) {
		t.Fatalf("unexpected journal: %+v %v", changes, err)
	}
}

func TestStaleMarkerIsCleared(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	if err := h.active.SaveActive(ctx, domain.ActiveSession{SessionID: "ghost", StartedAt: start}); err != nil {
		t.Fatalf("save marker: %v", err)
	}
	if _, err := h.uc.Resume(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	if _, err := h.active.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("stale marker must be removed, got %v", err)
	}
}

func TestDeleteClearsMarkerOnlyForActiveSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	old, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "w1"})
	if err != nil {
		t.Fatalf("start old: %v", err)
	}
	if _, err := h.uc.Finish(ctx, sessiondto.FinishInput{}); err != nil {
		t.Fatalf("finish old: %v", err)
	}
	h.clock.advance(time.Hour)
	current, err := h.uc.Start(ctx, sessiondto.StartInput{WorkoutID: "w1"})
	if err != nil {
		t.Fatalf("start current: %v", err)
	}

	if err := h.uc.Delete(ctx, old.Session.ID); err != nil {
		t.Fatalf("delete old: %v", err)
	}
	if _, err := h.uc.GetActive(ctx); err != nil {
		t.Fatalf("active session must survive: %v", err)
	}
	if err := h.uc.Delete(ctx, old.Session.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	if err := h.uc.Delete(ctx, current.Session.ID); err != nil {
		t.Fatalf("delete current: %v", err)
	}
	if _, err := h.active.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("marker must be cleared, got %v", err)
	}
	if h.timers.clockRunning {
		t.Fatalf("deleting the active session must stop the clock")
	}
	if sessions, _ := h.uc.List(ctx); len(sessions) != 0 {
		t.Fatalf("expected empty list, got %+v", sessions)
	}
}

func TestListIsNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	for i := range 3 {
		if _, err := h.uc.Start(ctx, sessiondto.StartInput{}); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		if _, err := h.uc.LogClimb(ctx, sessiondto.LogClimbInput{Grade: "V1", Sent: i%2 == 0}); err != nil {
			t.Fatalf("log %d: %v", i, err)
		}
		if i < 2 {
			if _, err := h.uc.Finish(ctx, sessiondto.FinishInput{}); err != nil {
				t.Fatalf("finish %d: %v", i, err)
			}
		}
		h.clock.advance(time.Hour)
	}
	sessions, err := h.uc.List(ctx)
	if err != nil || len(sessions) != 3 {
		t.Fatalf("list: %+v %v", sessions, err)
	}
	if !sessions[0].Active || sessions[1].Active || !sessions[0].StartTime.After(sessions[1].StartTime) {
		t.Fatalf("expected newest first with active session on top: %+v", sessions)
	}
	if sessions[0].Sends != 1 || sessions[1].Sends != 0 || sessions[2].Climbs != 1 {
		t.Fatalf("unexpected counts: %+v", sessions)
	}
}
