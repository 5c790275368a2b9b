package live

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	sessiondto "chalkup/internal/modules/session/dto"
	timerdto "chalkup/internal/modules/timer/dto"
	apperrors "chalkup/internal/platform/errors"
)

type fakeSession struct {
	live      sessiondto.LiveOutput
	climbs    []string
	attempts  int
	finished  bool
	resumeErr error
}

func (f *fakeSession) Start(context.Context, string) (sessiondto.LiveOutput, error) {
	return f.live, nil
}

func (f *fakeSession) Resume(context.Context) (sessiondto.LiveOutput, error) {
	if f.resumeErr != nil {
		return sessiondto.LiveOutput{}, f.resumeErr
	}
	return f.live, nil
}

func (f *fakeSession) SetAttempts(_ context.Context, n int) (int, error) {
	f.attempts = n
	return n, nil
}

func (f *fakeSession) LogClimb(_ context.Context, grade string, attempts int, sent bool) (sessiondto.LogClimbOutput, error) {
	f.climbs = append(f.climbs, grade)
	return sessiondto.LogClimbOutput{
		Climb:        sessiondto.ClimbOutput{ID: "c", Grade: grade, Attempts: 2, Sent: sent},
		Achievements: []sessiondto.AchievementOutput{{GoalID: "g1", Title: "Send " + grade, Type: "goal"}},
	}, nil
}

func (f *fakeSession) LogSet(_ context.Context, exerciseID string) (sessiondto.LogSetOutput, error) {
	return sessiondto.LogSetOutput{
		Progress: sessiondto.ExerciseProgressOutput{ExerciseID: exerciseID, TargetSets: 3, CompletedSets: 1},
		Changed:  true,
	}, nil
}

func (f *fakeSession) ToggleExpanded(_ context.Context, exerciseID string, expanded bool) (sessiondto.ExerciseProgressOutput, error) {
	return sessiondto.ExerciseProgressOutput{ExerciseID: exerciseID, TargetSets: 3, Expanded: expanded}, nil
}

func (f *fakeSession) Finish(context.Context, sessiondto.DetailsInput) (sessiondto.FinishOutput, error) {
	f.finished = true
	return sessiondto.FinishOutput{Session: sessiondto.SessionOutput{ID: f.live.Session.ID, DurationMinutes: 42}}, nil
}

func (f *fakeSession) DismissAchievement(context.Context) []sessiondto.AchievementOutput {
	return nil
}

type fakeTimer struct {
	snap    timerdto.SnapshotOutput
	toggles int
	rests   []int
}

func (f *fakeTimer) ToggleInterval(context.Context) (timerdto.IntervalOutput, error) {
	f.toggles++
	f.snap.Interval.Running = !f.snap.Interval.Running
	return f.snap.Interval, nil
}

func (f *fakeTimer) ResetInterval(context.Context) timerdto.IntervalOutput {
	return f.snap.Interval
}

func (f *fakeTimer) StartRest(_ context.Context, seconds int) (timerdto.RestOutput, error) {
	f.rests = append(f.rests, seconds)
	f.snap.Rest = timerdto.RestOutput{Active: true, Running: true, DurationSeconds: seconds, RemainingSeconds: seconds}
	return f.snap.Rest, nil
}

func (f *fakeTimer) ToggleRest(context.Context) timerdto.RestOutput {
	f.snap.Rest.Running = !f.snap.Rest.Running
	return f.snap.Rest
}

func (f *fakeTimer) Snapshot(context.Context) timerdto.SnapshotOutput {
	return f.snap
}

var vScale = []string{"VB", "V0", "V1", "V2", "V3", "V4", "V5", "V6", "V7", "V8", "V9", "V10"}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	m, _ = m.Update(cmd())
	return m
}

func activeSession() *fakeSession {
	return &fakeSession{live: sessiondto.LiveOutput{
		Session:           sessiondto.SessionOutput{ID: "s-1"},
		WorkoutName:       "Limit bouldering",
		Attempts:          1,
		ShowsClimbLogging: true,
		Progress:          []sessiondto.ExerciseProgressOutput{{ExerciseID: "e1", TargetSets: 3}, {ExerciseID: "e2", TargetSets: 2}},
	}}
}

func TestResumeWithoutSessionStaysIdle(t *testing.T) {
	t.Parallel()
	m := New(&fakeSession{resumeErr: apperrors.ErrNoActiveSession}, &fakeTimer{}, nil, vScale)
	m = run(t, m, m.Init())
	if m.Active() {
		t.Fatalf("expected idle view")
	}
	if m.Status() != "no active session" {
		t.Fatalf("status = %q", m.Status())
	}
	if !strings.Contains(m.View(), "No active session") {
		t.Fatalf("idle view missing prompt")
	}
}

func TestClimbKeysLogAtSelectedGrade(t *testing.T) {
	t.Parallel()
	session := activeSession()
	m := New(session, &fakeTimer{}, nil, vScale)
	m = run(t, m, m.Init())
	if !m.Active() {
		t.Fatalf("expected resumed session")
	}

	for range 3 {
		m, _ = m.Update(key("]"))
	}
	if m.Grade() != "V3" {
		t.Fatalf("grade = %s, want V3", m.Grade())
	}
	_, cmd := m.Update(key("g"))
	m = run(t, m, cmd)

	if len(session.climbs) != 1 || session.climbs[0] != "V3" {
		t.Fatalf("logged climbs = %v", session.climbs)
	}
	live := m.Live()
	if len(live.Session.Climbs) != 1 || !live.Session.Climbs[0].Sent {
		t.Fatalf("climb not shown: %+v", live.Session.Climbs)
	}
	if live.Attempts != 1 {
		t.Fatalf("attempts after a climb = %d, want 1", live.Attempts)
	}
	if !strings.Contains(m.View(), "Goal achieved: Send V3") {
		t.Fatalf("achievement banner missing")
	}
}

func TestGradeStepsClampToScale(t *testing.T) {
	t.Parallel()
	m := New(activeSession(), &fakeTimer{}, nil, vScale)
	for range 3 {
		m, _ = m.Update(key("["))
	}
	if m.Grade() != "VB" {
		t.Fatalf("grade = %s, want VB", m.Grade())
	}
	for range 20 {
		m, _ = m.Update(key("]"))
	}
	if m.Grade() != "V10" {
		t.Fatalf("grade = %s, want V10", m.Grade())
	}
	if got := New(activeSession(), &fakeTimer{}, nil, nil).Grade(); got != "V0" {
		t.Fatalf("empty scale grade = %s, want V0", got)
	}
}

func TestAttemptsNeverDropBelowOne(t *testing.T) {
	t.Parallel()
	session := activeSession()
	m := New(session, &fakeTimer{}, nil, vScale)
	m = run(t, m, m.Init())

	if _, cmd := m.Update(key("-")); cmd != nil {
		t.Fatalf("decrement at one should be ignored")
	}
	_, cmd := m.Update(key("+"))
	m = run(t, m, cmd)
	if m.Live().Attempts != 2 || session.attempts != 2 {
		t.Fatalf("attempts = %d/%d, want 2", m.Live().Attempts, session.attempts)
	}
}

func TestStartingRestPausesRunningInterval(t *testing.T) {
	t.Parallel()
	timer := &fakeTimer{snap: timerdto.SnapshotOutput{Interval: timerdto.IntervalOutput{Loaded: true, Phase: "work", Running: true, RemainingSeconds: 5}}}
	m := New(activeSession(), timer, []int{90, 150}, vScale)
	m = run(t, m, m.Init())
	m = run(t, m, m.snapshotCmd())

	_, cmd := m.Update(key("2"))
	m = run(t, m, cmd)

	if timer.toggles != 1 || timer.snap.Interval.Running {
		t.Fatalf("interval should be paused, toggles=%d", timer.toggles)
	}
	if len(timer.rests) != 1 || timer.rests[0] != 150 {
		t.Fatalf("rests = %v, want [150]", timer.rests)
	}

	// Resuming the interval pauses the rest countdown.
	_, cmd = m.Update(key("t"))
	m = run(t, m, cmd)
	if timer.snap.Rest.Running || !timer.snap.Interval.Running {
		t.Fatalf("rest should be paused while interval runs: %+v", timer.snap)
	}
	if !strings.Contains(m.View(), "WORK") {
		t.Fatalf("interval widget missing")
	}
}

func TestTimerEventsDriveWidgets(t *testing.T) {
	t.Parallel()
	m := New(activeSession(), &fakeTimer{}, nil, vScale)
	m = run(t, m, m.Init())

	m, _ = m.Update(TimerEventMsg{Event: timerdto.EventOutput{Source: "clock", Elapsed: 3725}})
	if m.Elapsed() != 3725 {
		t.Fatalf("elapsed = %d", m.Elapsed())
	}
	if !strings.Contains(m.View(), "1:02:05") {
		t.Fatalf("clock not rendered")
	}

	m, _ = m.Update(TimerEventMsg{Event: timerdto.EventOutput{Source: "rest", Rest: timerdto.RestOutput{Active: true, Completed: true}}})
	if m.Status() != "rest complete" {
		t.Fatalf("status = %q", m.Status())
	}
}

func TestExerciseNavigationAndFinish(t *testing.T) {
	t.Parallel()
	session := activeSession()
	m := New(session, &fakeTimer{}, nil, vScale)
	m = run(t, m, m.Init())

	m, _ = m.Update(key("j"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)
	if got := m.Live().Progress[1].CompletedSets; got != 1 {
		t.Fatalf("e2 completed sets = %d, want 1", got)
	}

	_, cmd = m.Update(key("f"))
	m = run(t, m, cmd)
	if !session.finished || m.Active() {
		t.Fatalf("session should be finished")
	}
	if !strings.Contains(m.Status(), "42min") {
		t.Fatalf("status = %q", m.Status())
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()
	cases := map[int]string{0: "0:00", 65: "1:05", 3600: "1:00:00", -4: "0:00"}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}
