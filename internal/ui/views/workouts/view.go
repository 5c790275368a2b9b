package workouts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "chalkup/internal/modules/catalog/dto"
	"chalkup/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type CatalogPort interface {
	Workouts(ctx context.Context) ([]catalogdto.WorkoutOutput, error)
	Goals(ctx context.Context) ([]catalogdto.GoalOutput, error)
	PlanList(ctx context.Context, from, to string) ([]catalogdto.ScheduleOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Workouts []catalogdto.WorkoutOutput
	Goals    []catalogdto.GoalOutput
	Week     []catalogdto.ScheduleOutput
	Err      error
}

// StartWorkoutMsg asks the app to start a session for the selected workout.
type StartWorkoutMsg struct {
	WorkoutID string
}

// ─── list item ───────────────────────────────────────────────────────────────

type workoutItem struct {
	workout catalogdto.WorkoutOutput
	planned bool
}

func (i workoutItem) Title() string {
	if i.planned {
		return i.workout.Name + "  ◆ today"
	}
	return i.workout.Name
}

func (i workoutItem) Description() string {
	return fmt.Sprintf("%s  %dmin", i.workout.Type, i.workout.DurationMinutes)
}

func (i workoutItem) FilterValue() string { return i.workout.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    CatalogPort
	now     func() time.Time
	list    list.Model
	preview viewport.Model
	goals   []catalogdto.GoalOutput
	week    []catalogdto.ScheduleOutput
	err     error
	width   int
	height  int
}

func New(port CatalogPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Workouts"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{port: port, now: time.Now, list: l, preview: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			m.list.Title = "Workouts: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Workouts"
		m.goals = msg.Goals
		m.week = msg.Week
		today := m.now().Format("2006-01-02")
		planned := map[string]bool{}
		for _, e := range msg.Week {
			if e.Date == today && !e.Completed {
				planned[e.WorkoutID] = true
			}
		}
		items := make([]list.Item, len(msg.Workouts))
		for i, w := range msg.Workouts {
			items[i] = workoutItem{workout: w, planned: planned[w.ID]}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.preview.SetContent(m.renderDetail())

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if item, ok := m.list.SelectedItem().(workoutItem); ok {
				id := item.workout.ID
				return m, func() tea.Msg { return StartWorkoutMsg{WorkoutID: id} }
			}
			return m, nil
		}
	}

	prevIdx := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prevIdx {
		m.preview.SetContent(m.renderDetail())
	}

	var vCmd tea.Cmd
	m.preview, vCmd = m.preview.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is open.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload fetches workouts, goals and the next seven days of the plan.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		workouts, err := m.port.Workouts(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		goals, err := m.port.Goals(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		from := m.now()
		week, err := m.port.PlanList(ctx, from.Format("2006-01-02"), from.AddDate(0, 0, 6).Format("2006-01-02"))
		if err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Workouts: workouts, Goals: goals, Week: week}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	var sb strings.Builder
	if item, ok := m.list.SelectedItem().(workoutItem); ok {
		w := item.workout
		sb.WriteString(theme.Title.Render(w.Name) + "\n\n")
		if w.Description != "" {
			sb.WriteString(w.Description + "\n\n")
		}
		if w.Timer != nil {
			t := w.Timer
			sb.WriteString(fmt.Sprintf("%s%ds on / %ds off x%d, %d sets\n",
				theme.Muted.Render("timer: "), t.WorkSeconds, t.RestSeconds, t.RepsPerSet, t.TotalSets))
		}
		for _, e := range w.Exercises {
			sb.WriteString(fmt.Sprintf("  • %s %dx%d\n", e.ExerciseID, e.Sets, e.Reps))
		}
		for i, step := range w.Steps {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
		sb.WriteString("\n" + theme.Muted.Render("enter: start session") + "\n")
	}

	sb.WriteString("\n" + theme.Title.Render("This week") + "\n")
	if len(m.week) == 0 {
		sb.WriteString(theme.Muted.Render("nothing planned") + "\n")
	}
	for _, e := range m.week {
		mark := "○"
		if e.Completed {
			mark = theme.Done.Render("●")
		}
		sb.WriteString(fmt.Sprintf("%s %s  %s\n", mark, e.Date, e.WorkoutName))
	}

	sb.WriteString("\n" + theme.Title.Render("Goals") + "\n")
	active := 0
	for _, g := range m.goals {
		if g.Status != "active" {
			continue
		}
		active++
		target := g.TargetGrade
		if g.Type == "strength" {
			target = fmt.Sprintf("%s +%.1f", g.ExerciseID, g.TargetWeight)
		}
		sb.WriteString(fmt.Sprintf("  %s  %s\n", g.Title, theme.Muted.Render(target)))
	}
	if active == 0 {
		sb.WriteString(theme.Muted.Render("no active goals") + "\n")
	}
	return sb.String()
}
