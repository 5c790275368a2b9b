package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "chalkup/internal/modules/session/dto"
	timerdto "chalkup/internal/modules/timer/dto"
	"chalkup/internal/ui/components"
	"chalkup/internal/ui/theme"
	historyview "chalkup/internal/ui/views/history"
	liveview "chalkup/internal/ui/views/live"
	workoutsview "chalkup/internal/ui/views/workouts"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Sub-view ports are defined in their own packages; these add what the
// orchestration layer needs on top.

type SessionPort interface {
	liveview.SessionPort
	historyview.HistoryPort
	UpdateDetails(ctx context.Context, input sessiondto.DetailsInput) (sessiondto.SessionOutput, error)
}

type TimerPort interface {
	liveview.TimerPort
	Subscribe(buffer int) (<-chan timerdto.EventOutput, func())
}

type CatalogPort interface {
	workoutsview.CatalogPort
}

type CuePort interface {
	Test(ctx context.Context, cueType string) error
}

type Deps struct {
	Session     SessionPort
	Timer       TimerPort
	Catalog     CatalogPort
	Cue         CuePort
	RestPresets []int
	Grades      []string
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabLive tabID = iota
	tabWorkouts
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Session", "Workouts", "History"}

// ─── async messages ──────────────────────────────────────────────────────────

type detailsUpdatedMsg struct {
	out sessiondto.SessionOutput
	err error
}

type cueTestedMsg struct {
	cue string
	err error
}

// subscriptionClosedMsg ends the timer event loop.
type subscriptionClosedMsg struct{}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Start    key.Binding
	Finish   key.Binding
	Interval key.Binding
	Rest     key.Binding
	Presets  key.Binding
	Pause    key.Binding
	Send     key.Binding
	Attempt  key.Binding
	Grade    key.Binding
	Attempts key.Binding
	Nav      key.Binding
	LogSet   key.Binding
	Expand   key.Binding
	Dismiss  key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Start:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Finish:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish session")),
		Interval: key.NewBinding(key.WithKeys("t", "R"), key.WithHelp("t/R", "interval start-pause/reset")),
		Rest:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rest timer")),
		Presets:  key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "rest preset")),
		Pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Send:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "log send")),
		Attempt:  key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "log attempt")),
		Grade:    key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "grade")),
		Attempts: key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "attempts")),
		Nav:      key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "select exercise")),
		LogSet:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "log set")),
		Expand:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand exercise")),
		Dismiss:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss banner")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Finish, k.Interval, k.Rest, k.Presets, k.Pause},
		{k.Send, k.Attempt, k.Grade, k.Attempts, k.Dismiss},
		{k.Nav, k.LogSet, k.Expand},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the timer event
// subscription, the help overlay and the command palette. Rendering and
// session actions are delegated to sub-views.
type Model struct {
	session SessionPort
	cue     CuePort

	events      <-chan timerdto.EventOutput
	unsubscribe func()

	liveView     liveview.Model
	workoutsView workoutsview.Model
	historyView  historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

// NewModel subscribes to timer events for the lifetime of ctx.
func NewModel(ctx context.Context, deps Deps) Model {
	events, unsubscribe := deps.Timer.Subscribe(32)
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
	return Model{
		session:      deps.Session,
		cue:          deps.Cue,
		events:       events,
		unsubscribe:  unsubscribe,
		liveView:     liveview.New(deps.Session, deps.Timer, deps.RestPresets, deps.Grades),
		workoutsView: workoutsview.New(deps.Catalog),
		historyView:  historyview.New(deps.Session),
		activeTab:    tabLive,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.liveView.Init(),
		m.workoutsView.Init(),
		m.historyView.Init(),
		waitForEvent(m.events),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case liveview.TimerEventMsg:
		var cmd tea.Cmd
		m.liveView, cmd = m.liveView.Update(msg)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case subscriptionClosedMsg:
		return m, nil

	case liveview.FinishedMsg:
		var cmd tea.Cmd
		m.liveView, cmd = m.liveView.Update(msg)
		m.status = ""
		return m, tea.Batch(cmd, m.historyView.Reload(), m.workoutsView.Reload())

	case liveview.LoadedMsg:
		var cmd tea.Cmd
		m.liveView, cmd = m.liveView.Update(msg)
		m.status = ""
		if msg.Err == nil && msg.Started {
			m.activeTab = tabLive
			cmds = append(cmds, m.historyView.Reload())
		}
		return m, tea.Batch(append(cmds, cmd)...)

	case liveview.ClimbLoggedMsg, liveview.SetLoggedMsg, liveview.ExerciseToggledMsg,
		liveview.AttemptsMsg, liveview.DismissedMsg, liveview.TimerStateMsg:
		var cmd tea.Cmd
		m.liveView, cmd = m.liveView.Update(msg)
		m.status = ""
		return m, cmd

	case historyview.DeletedMsg:
		if msg.Err != nil {
			m.status = "delete: " + msg.Err.Error()
		} else {
			m.status = "session deleted"
			m.liveView, _ = m.liveView.Update(liveview.SessionDeletedMsg{ID: msg.ID})
		}
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case historyview.SessionsLoadedMsg, historyview.DetailLoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case workoutsview.LoadedMsg:
		var cmd tea.Cmd
		m.workoutsView, cmd = m.workoutsView.Update(msg)
		return m, cmd

	case workoutsview.StartWorkoutMsg:
		m.activeTab = tabLive
		return m, m.liveView.StartCmd(msg.WorkoutID)

	case detailsUpdatedMsg:
		if msg.err != nil {
			m.status = "update: " + msg.err.Error()
		} else {
			m.status = "session details saved"
		}
		return m, nil

	case cueTestedMsg:
		if msg.err != nil {
			m.status = "cue: " + msg.err.Error()
		} else {
			m.status = "cue emitted: " + msg.cue
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.unsubscribe()
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	// Everything else goes to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabLive:
		m.liveView, tabCmd = m.liveView.Update(msg)
	case tabWorkouts:
		m.workoutsView, tabCmd = m.workoutsView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabLive:
		return m.liveView.View()
	case tabWorkouts:
		return m.workoutsView.View()
	case tabHistory:
		return m.historyView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "chalkup  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if left == "" {
		left = m.liveView.Status()
	}
	if m.liveView.Active() {
		left = theme.Hot.Render("● "+liveview.FormatClock(m.liveView.Elapsed())) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "start":
		workoutID := ""
		if len(parts) >= 2 {
			workoutID = parts[1]
		}
		return m, m.liveView.StartCmd(workoutID)

	case "finish":
		details, err := parseDetails(parts[1:])
		if err != nil {
			m.status = "usage: finish [rpe] [skin] [sleep] [notes...]"
			return m, nil
		}
		return m, m.liveView.FinishCmd(details)

	case "rpe":
		if len(parts) != 2 {
			m.status = "usage: rpe <1-10>"
			return m, nil
		}
		rpe, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid rpe"
			return m, nil
		}
		return m, m.updateDetailsCmd(sessiondto.DetailsInput{RPE: &rpe})

	case "notes":
		notes := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		return m, m.updateDetailsCmd(sessiondto.DetailsInput{Notes: &notes})

	case "climb":
		if len(parts) < 2 {
			m.status = "usage: climb <grade> [sent|fail]"
			return m, nil
		}
		sent := len(parts) < 3 || parts[2] != "fail"
		m.activeTab = tabLive
		return m, m.liveView.LogClimbCmd(parts[1], sent)

	case "set":
		if len(parts) != 2 {
			m.status = "usage: set <exercise-id>"
			return m, nil
		}
		return m, m.liveView.LogSetCmd(parts[1])

	case "rest":
		seconds := 0
		if len(parts) >= 2 {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				m.status = "invalid seconds"
				return m, nil
			}
			seconds = n
		}
		if seconds <= 0 {
			m.status = "usage: rest <seconds>"
			return m, nil
		}
		return m, m.liveView.StartRestCmd(seconds)

	case "cue":
		if len(parts) != 2 {
			m.status = "usage: cue <type>"
			return m, nil
		}
		return m, m.testCueCmd(parts[1])

	case "reload":
		return m, tea.Batch(m.workoutsView.Reload(), m.historyView.Reload())

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// parseDetails reads "[rpe] [skin] [sleep] [notes...]" in that order.
func parseDetails(args []string) (sessiondto.DetailsInput, error) {
	var in sessiondto.DetailsInput
	if len(args) == 0 {
		return in, nil
	}
	rpe, err := strconv.Atoi(args[0])
	if err != nil {
		return in, err
	}
	in.RPE = &rpe
	if len(args) >= 2 {
		skin := args[1]
		in.SkinCondition = &skin
	}
	if len(args) >= 3 {
		sleep := args[2]
		in.SleepQuality = &sleep
	}
	if len(args) >= 4 {
		notes := strings.Join(args[3:], " ")
		in.Notes = &notes
	}
	return in, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabWorkouts:
		return m.workoutsView.Filtering()
	case tabHistory:
		return m.historyView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.liveView, _ = m.liveView.Update(sz)
	m.workoutsView, _ = m.workoutsView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func waitForEvent(events <-chan timerdto.EventOutput) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return subscriptionClosedMsg{}
		}
		return liveview.TimerEventMsg{Event: ev}
	}
}

func (m Model) updateDetailsCmd(input sessiondto.DetailsInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.UpdateDetails(context.Background(), input)
		return detailsUpdatedMsg{out: out, err: err}
	}
}

func (m Model) testCueCmd(cueType string) tea.Cmd {
	return func() tea.Msg {
		return cueTestedMsg{cue: cueType, err: m.cue.Test(context.Background(), cueType)}
	}
}
