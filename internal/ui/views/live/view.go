package live

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "chalkup/internal/modules/session/dto"
	timerdto "chalkup/internal/modules/timer/dto"
	apperrors "chalkup/internal/platform/errors"
	"chalkup/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type SessionPort interface {
	Start(ctx context.Context, workoutID string) (sessiondto.LiveOutput, error)
	Resume(ctx context.Context) (sessiondto.LiveOutput, error)
	SetAttempts(ctx context.Context, attempts int) (int, error)
	LogClimb(ctx context.Context, grade string, attempts int, sent bool) (sessiondto.LogClimbOutput, error)
	LogSet(ctx context.Context, exerciseID string) (sessiondto.LogSetOutput, error)
	ToggleExpanded(ctx context.Context, exerciseID string, expanded bool) (sessiondto.ExerciseProgressOutput, error)
	Finish(ctx context.Context, details sessiondto.DetailsInput) (sessiondto.FinishOutput, error)
	DismissAchievement(ctx context.Context) []sessiondto.AchievementOutput
}

type TimerPort interface {
	ToggleInterval(ctx context.Context) (timerdto.IntervalOutput, error)
	ResetInterval(ctx context.Context) timerdto.IntervalOutput
	StartRest(ctx context.Context, seconds int) (timerdto.RestOutput, error)
	ToggleRest(ctx context.Context) timerdto.RestOutput
	Snapshot(ctx context.Context) timerdto.SnapshotOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// LoadedMsg carries a live session produced by start or resume.
type LoadedMsg struct {
	Live    sessiondto.LiveOutput
	Started bool
	Err     error
}

type ClimbLoggedMsg struct {
	Out sessiondto.LogClimbOutput
	Err error
}

type SetLoggedMsg struct {
	Out sessiondto.LogSetOutput
	Err error
}

type ExerciseToggledMsg struct {
	Progress sessiondto.ExerciseProgressOutput
	Err      error
}

type AttemptsMsg struct {
	Attempts int
	Err      error
}

type FinishedMsg struct {
	Out sessiondto.FinishOutput
	Err error
}

// SessionDeletedMsg tells the view a stored session was removed elsewhere.
type SessionDeletedMsg struct {
	ID string
}

type DismissedMsg struct {
	Achievements []sessiondto.AchievementOutput
}

// TimerStateMsg refreshes both timer widgets after a user action.
type TimerStateMsg struct {
	Snapshot timerdto.SnapshotOutput
	Err      error
}

// TimerEventMsg wraps one event from the timer subscription.
type TimerEventMsg struct {
	Event timerdto.EventOutput
}

var errNoInterval = errors.New("no interval loaded")

const (
	defaultRestSeconds = 120
	defaultGrade       = "V0"
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	session     SessionPort
	timer       TimerPort
	restPresets []int

	live     sessiondto.LiveOutput
	active   bool
	interval timerdto.IntervalOutput
	rest     timerdto.RestOutput
	elapsed  int

	cursor int
	grades []string
	grade  int
	status string
	width  int
	height int
}

// New builds the live screen. grades is the scale the [ and ] keys step
// through, easiest first; climbs start at V0 when the scale has it.
func New(session SessionPort, timer TimerPort, restPresets []int, grades []string) Model {
	presets := append([]int(nil), restPresets...)
	if len(presets) == 0 {
		presets = []int{60, defaultRestSeconds, 180}
	}
	scale := append([]string(nil), grades...)
	if len(scale) == 0 {
		scale = []string{defaultGrade}
	}
	start := 0
	for idx, g := range scale {
		if g == defaultGrade {
			start = idx
			break
		}
	}
	return Model{
		session:     session,
		timer:       timer,
		restPresets: presets,
		grades:      scale,
		grade:       start,
		status:      "no active session",
	}
}

// Init rebuilds an interrupted session, if any.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		live, err := m.session.Resume(context.Background())
		return LoadedMsg{Live: live, Err: err}
	}
}

func (m Model) Active() bool { return m.active }

func (m Model) Live() sessiondto.LiveOutput { return m.live }

func (m Model) Status() string { return m.status }

// Elapsed is the session clock as last reported by the timer events.
func (m Model) Elapsed() int { return m.elapsed }

// Grade is the grade the next climb is logged at.
func (m Model) Grade() string { return m.grades[m.grade] }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoadedMsg:
		if msg.Err != nil {
			if !errors.Is(msg.Err, apperrors.ErrNoActiveSession) {
				m.status = "session: " + msg.Err.Error()
			}
			return m, nil
		}
		m.live = msg.Live
		m.active = true
		m.elapsed = msg.Live.ElapsedSeconds
		m.cursor = 0
		if msg.Started {
			m.status = "session started"
		} else {
			m.status = "session resumed"
		}
		if name := msg.Live.WorkoutName; name != "" {
			m.status += ": " + name
		}
		return m, m.snapshotCmd()

	case ClimbLoggedMsg:
		if msg.Err != nil {
			m.status = "log climb: " + msg.Err.Error()
			return m, nil
		}
		m.live.Session.Climbs = append([]sessiondto.ClimbOutput{msg.Out.Climb}, m.live.Session.Climbs...)
		m.live.Attempts = 1
		m.live.Achievements = append(m.live.Achievements, msg.Out.Achievements...)
		verb := "attempt"
		if msg.Out.Climb.Sent {
			verb = "send"
		}
		m.status = fmt.Sprintf("%s logged: %s x%d", verb, msg.Out.Climb.Grade, msg.Out.Climb.Attempts)
		if msg.Out.RestStarted {
			return m, m.snapshotCmd()
		}

	case SetLoggedMsg:
		if msg.Err != nil {
			m.status = "log set: " + msg.Err.Error()
			return m, nil
		}
		m.replaceProgress(msg.Out.Progress)
		p := msg.Out.Progress
		if !msg.Out.Changed {
			m.status = fmt.Sprintf("%s already complete", p.ExerciseID)
			return m, nil
		}
		m.status = fmt.Sprintf("%s: %d/%d sets", p.ExerciseID, p.CompletedSets, p.TargetSets)
		if msg.Out.RestStarted {
			return m, m.snapshotCmd()
		}

	case ExerciseToggledMsg:
		if msg.Err != nil {
			m.status = "exercise: " + msg.Err.Error()
			return m, nil
		}
		m.replaceProgress(msg.Progress)

	case AttemptsMsg:
		if msg.Err != nil {
			m.status = "attempts: " + msg.Err.Error()
			return m, nil
		}
		m.live.Attempts = msg.Attempts

	case FinishedMsg:
		if msg.Err != nil {
			m.status = "finish: " + msg.Err.Error()
			return m, nil
		}
		s := msg.Out.Session
		m.reset()
		m.status = fmt.Sprintf("session finished: %dmin, %d climbs", s.DurationMinutes, len(s.Climbs))
		if msg.Out.ScheduleEntryID != "" {
			m.status += ", planned workout completed"
		}

	case SessionDeletedMsg:
		if m.active && m.live.Session.ID == msg.ID {
			m.reset()
			m.status = "active session deleted"
		}

	case DismissedMsg:
		m.live.Achievements = msg.Achievements

	case TimerStateMsg:
		if msg.Err != nil {
			m.status = "timer: " + msg.Err.Error()
			return m, nil
		}
		m.interval = msg.Snapshot.Interval
		m.rest = msg.Snapshot.Rest
		if m.active {
			m.elapsed = msg.Snapshot.ElapsedSeconds
		}

	case TimerEventMsg:
		m.applyEvent(msg.Event)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		if m.active {
			m.status = "session already running"
			return m, nil
		}
		return m, m.StartCmd("")
	case "f":
		if !m.active {
			return m, nil
		}
		return m, m.FinishCmd(sessiondto.DetailsInput{})
	case "t":
		return m, m.toggleIntervalCmd()
	case "R":
		return m, m.resetIntervalCmd()
	case "r":
		if m.rest.Active && !m.rest.Completed {
			return m, m.toggleRestCmd()
		}
		return m, m.StartRestCmd(m.restPresets[0])
	case "1", "2", "3":
		i := int(msg.String()[0] - '1')
		if i >= len(m.restPresets) {
			return m, nil
		}
		return m, m.StartRestCmd(m.restPresets[i])
	case " ":
		if m.interval.Loaded && m.interval.Phase != "done" && !m.rest.Running {
			return m, m.toggleIntervalCmd()
		}
		if m.rest.Active && !m.rest.Completed {
			return m, m.toggleRestCmd()
		}
	case "[":
		m.grade = max(m.grade-1, 0)
	case "]":
		m.grade = min(m.grade+1, len(m.grades)-1)
	case "g":
		return m, m.LogClimbCmd(m.Grade(), true)
	case "G":
		return m, m.LogClimbCmd(m.Grade(), false)
	case "+", "=":
		if m.active {
			return m, m.attemptsCmd(m.live.Attempts + 1)
		}
	case "-":
		if m.active && m.live.Attempts > 1 {
			return m, m.attemptsCmd(m.live.Attempts - 1)
		}
	case "j", "down":
		if m.cursor < len(m.live.Progress)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if p, ok := m.selected(); ok {
			return m, m.LogSetCmd(p.ExerciseID)
		}
	case "e":
		if p, ok := m.selected(); ok {
			return m, m.toggleExpandedCmd(p.ExerciseID, !p.Expanded)
		}
	case "x":
		if len(m.live.Achievements) > 0 {
			return m, m.dismissCmd()
		}
	}
	return m, nil
}

func (m *Model) applyEvent(ev timerdto.EventOutput) {
	switch ev.Source {
	case "interval":
		m.interval = ev.Interval
		if ev.Interval.Phase == "done" {
			m.status = "interval complete"
		}
	case "rest":
		m.rest = ev.Rest
		if ev.Rest.Completed {
			m.status = "rest complete"
		}
	case "clock":
		if m.active {
			m.elapsed = ev.Elapsed
		}
	}
}

func (m *Model) replaceProgress(p sessiondto.ExerciseProgressOutput) {
	for i := range m.live.Progress {
		if m.live.Progress[i].ExerciseID == p.ExerciseID {
			m.live.Progress[i] = p
			return
		}
	}
}

func (m *Model) reset() {
	m.live = sessiondto.LiveOutput{}
	m.active = false
	m.interval = timerdto.IntervalOutput{}
	m.rest = timerdto.RestOutput{}
	m.elapsed = 0
	m.cursor = 0
}

func (m Model) selected() (sessiondto.ExerciseProgressOutput, bool) {
	if !m.active || m.cursor < 0 || m.cursor >= len(m.live.Progress) {
		return sessiondto.ExerciseProgressOutput{}, false
	}
	return m.live.Progress[m.cursor], true
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) StartCmd(workoutID string) tea.Cmd {
	return func() tea.Msg {
		live, err := m.session.Start(context.Background(), workoutID)
		return LoadedMsg{Live: live, Started: true, Err: err}
	}
}

func (m Model) FinishCmd(details sessiondto.DetailsInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Finish(context.Background(), details)
		return FinishedMsg{Out: out, Err: err}
	}
}

func (m Model) LogClimbCmd(grade string, sent bool) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.LogClimb(context.Background(), grade, 0, sent)
		return ClimbLoggedMsg{Out: out, Err: err}
	}
}

func (m Model) LogSetCmd(exerciseID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.LogSet(context.Background(), exerciseID)
		return SetLoggedMsg{Out: out, Err: err}
	}
}

func (m Model) attemptsCmd(n int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.SetAttempts(context.Background(), n)
		return AttemptsMsg{Attempts: out, Err: err}
	}
}

func (m Model) toggleExpandedCmd(exerciseID string, expanded bool) tea.Cmd {
	return func() tea.Msg {
		p, err := m.session.ToggleExpanded(context.Background(), exerciseID, expanded)
		return ExerciseToggledMsg{Progress: p, Err: err}
	}
}

func (m Model) dismissCmd() tea.Cmd {
	return func() tea.Msg {
		return DismissedMsg{Achievements: m.session.DismissAchievement(context.Background())}
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		return TimerStateMsg{Snapshot: m.timer.Snapshot(context.Background())}
	}
}

// toggleIntervalCmd pauses a running rest countdown before resuming the
// interval so only one timer counts down.
func (m Model) toggleIntervalCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		snap := m.timer.Snapshot(ctx)
		if !snap.Interval.Loaded {
			return TimerStateMsg{Err: errNoInterval}
		}
		if !snap.Interval.Running && snap.Rest.Running {
			m.timer.ToggleRest(ctx)
		}
		if _, err := m.timer.ToggleInterval(ctx); err != nil {
			return TimerStateMsg{Err: err}
		}
		return TimerStateMsg{Snapshot: m.timer.Snapshot(ctx)}
	}
}

func (m Model) resetIntervalCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		m.timer.ResetInterval(ctx)
		return TimerStateMsg{Snapshot: m.timer.Snapshot(ctx)}
	}
}

// StartRestCmd pauses a running interval and starts a fresh countdown.
func (m Model) StartRestCmd(seconds int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if snap := m.timer.Snapshot(ctx); snap.Interval.Running {
			if _, err := m.timer.ToggleInterval(ctx); err != nil {
				return TimerStateMsg{Err: err}
			}
		}
		if _, err := m.timer.StartRest(ctx, seconds); err != nil {
			return TimerStateMsg{Err: err}
		}
		return TimerStateMsg{Snapshot: m.timer.Snapshot(ctx)}
	}
}

func (m Model) toggleRestCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		snap := m.timer.Snapshot(ctx)
		if !snap.Rest.Running && snap.Interval.Running {
			if _, err := m.timer.ToggleInterval(ctx); err != nil {
				return TimerStateMsg{Err: err}
			}
		}
		m.timer.ToggleRest(ctx)
		return TimerStateMsg{Snapshot: m.timer.Snapshot(ctx)}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.active {
		return m.renderIdle()
	}
	var sections []string
	if banner := m.renderBanner(); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, m.renderHeader())

	paneW := m.paneWidth()
	timers := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderInterval(paneW),
		m.renderRest(paneW),
	)
	sections = append(sections, timers)

	var panes []string
	if m.live.ShowsClimbLogging {
		panes = append(panes, m.renderClimbs(paneW))
	}
	if len(m.live.Progress) > 0 {
		panes = append(panes, m.renderExercises(paneW))
	}
	if len(panes) > 0 {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) paneWidth() int {
	w := m.width/2 - 2
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) renderIdle() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("No active session") + "\n\n")
	sb.WriteString(theme.Muted.Render("s            start a freeform session") + "\n")
	sb.WriteString(theme.Muted.Render(":start <id>  start a catalog workout") + "\n")
	sb.WriteString(theme.Muted.Render("r / 1 2 3    rest timer") + "\n")
	if m.rest.Active && !m.rest.Completed {
		sb.WriteString("\n" + m.renderRest(m.paneWidth()))
	}
	return theme.Pane.Render(sb.String())
}

func (m Model) renderBanner() string {
	if len(m.live.Achievements) == 0 {
		return ""
	}
	a := m.live.Achievements[0]
	text := "★ Goal achieved: " + a.Title
	if more := len(m.live.Achievements) - 1; more > 0 {
		text += fmt.Sprintf(" (+%d)", more)
	}
	return theme.Banner.Render(text) + theme.Muted.Render("  x:dismiss")
}

func (m Model) renderHeader() string {
	name := m.live.WorkoutName
	if name == "" {
		name = "Freeform"
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		theme.Clock.Render(FormatClock(m.elapsed)),
		"   ",
		theme.Title.Render(name),
		"   ",
		theme.Muted.Render(fmt.Sprintf("attempts %d", m.live.Attempts)),
	)
}

func (m Model) renderInterval(width int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Interval") + "\n")
	iv := m.interval
	switch {
	case !iv.Loaded:
		sb.WriteString(theme.Muted.Render("none"))
	case iv.Phase == "done":
		sb.WriteString(theme.Done.Render("complete") + "  " + theme.Muted.Render("R:reset"))
	default:
		sb.WriteString(phaseStyle(iv.Phase).Render(phaseLabel(iv.Phase)) + "  " + theme.Clock.Render(FormatClock(iv.RemainingSeconds)) + "\n")
		sb.WriteString(fmt.Sprintf("set %d/%d  rep %d/%d", iv.CurrentSet, iv.TotalSets, iv.CurrentRep, iv.RepsPerSet))
		if !iv.Running {
			sb.WriteString("  " + theme.Muted.Render("paused"))
		}
	}
	return theme.Pane.Width(width).Render(sb.String())
}

func (m Model) renderRest(width int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Rest") + "\n")
	r := m.rest
	switch {
	case !r.Active:
		sb.WriteString(theme.Muted.Render("idle"))
	case r.Completed:
		sb.WriteString(theme.Done.Render("done"))
	default:
		sb.WriteString(theme.Resting.Render(FormatClock(r.RemainingSeconds)) + "  " + bar(r.DurationSeconds-r.RemainingSeconds, r.DurationSeconds, width-16))
		if !r.Running {
			sb.WriteString("  " + theme.Muted.Render("paused"))
		}
	}
	return theme.Pane.Width(width).Render(sb.String())
}

func (m Model) renderClimbs(width int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Climbs") + "  " + theme.Hot.Render("["+m.Grade()+"]") + "\n")
	sends := 0
	for _, c := range m.live.Session.Climbs {
		if c.Sent {
			sends++
		}
	}
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d logged, %d sent", len(m.live.Session.Climbs), sends)) + "\n")
	for i, c := range m.live.Session.Climbs {
		if i == 8 {
			sb.WriteString(theme.Muted.Render("…"))
			break
		}
		mark := theme.Muted.Render("✗")
		if c.Sent {
			mark = theme.Done.Render("✓")
		}
		sb.WriteString(fmt.Sprintf("%s %-3s x%d  %s\n", mark, c.Grade, c.Attempts, theme.Muted.Render(c.Timestamp.Local().Format("15:04"))))
	}
	return theme.Pane.Width(width).Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) renderExercises(width int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Exercises") + "\n")
	for i, p := range m.live.Progress {
		cursor := "  "
		line := fmt.Sprintf("%s %d/%d", p.ExerciseID, p.CompletedSets, p.TargetSets)
		switch {
		case i == m.cursor:
			cursor = theme.Selected.Render("> ")
			line = theme.Selected.Render(line)
		case p.Complete:
			line = theme.Done.Render(line)
		}
		sb.WriteString(cursor + line + "\n")
		if p.Expanded {
			sb.WriteString(theme.Muted.Render("    "+exerciseDetail(p)) + "\n")
		}
	}
	return theme.Pane.Width(width).Render(strings.TrimRight(sb.String(), "\n"))
}

func exerciseDetail(p sessiondto.ExerciseProgressOutput) string {
	parts := []string{fmt.Sprintf("reps %d", p.CompletedReps)}
	if p.AddedWeight != nil {
		parts = append(parts, fmt.Sprintf("+%.1f", *p.AddedWeight))
	}
	if p.EdgeDepth != nil {
		parts = append(parts, fmt.Sprintf("%.0fmm", *p.EdgeDepth))
	}
	if p.ResistanceBand != "" {
		parts = append(parts, p.ResistanceBand)
	}
	if p.RPE != nil {
		parts = append(parts, fmt.Sprintf("rpe %d", *p.RPE))
	}
	if p.Notes != "" {
		parts = append(parts, p.Notes)
	}
	return strings.Join(parts, "  ")
}

func phaseLabel(phase string) string {
	switch phase {
	case "work":
		return "WORK"
	case "rest":
		return "REST"
	case "set_rest":
		return "SET REST"
	}
	return strings.ToUpper(phase)
}

func phaseStyle(phase string) lipgloss.Style {
	switch phase {
	case "work":
		return theme.Work
	case "set_rest":
		return theme.SetRest
	}
	return theme.Resting
}

func bar(done, total, width int) string {
	if width < 4 || total <= 0 {
		return ""
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return theme.Resting.Render(strings.Repeat("█", filled)) + theme.Muted.Render(strings.Repeat("░", width-filled))
}

// FormatClock renders seconds as m:ss, or h:mm:ss past the hour.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
