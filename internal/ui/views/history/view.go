package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "chalkup/internal/modules/session/dto"
	"chalkup/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	List(ctx context.Context) ([]sessiondto.SessionSummaryOutput, error)
	Get(ctx context.Context, id string) (sessiondto.SessionOutput, error)
	Delete(ctx context.Context, id string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type SessionsLoadedMsg struct {
	Sessions []sessiondto.SessionSummaryOutput
	Err      error
}

type DetailLoadedMsg struct {
	Session sessiondto.SessionOutput
	Err     error
}

type DeletedMsg struct {
	ID  string
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	summary sessiondto.SessionSummaryOutput
}

func (i sessionItem) Title() string {
	title := i.summary.StartTime.Local().Format("Mon 02 Jan 15:04")
	if i.summary.Active {
		title += "  ●"
	}
	return title
}

func (i sessionItem) Description() string {
	workout := i.summary.WorkoutID
	if workout == "" {
		workout = "freeform"
	}
	return fmt.Sprintf("%s  %dmin  %d climbs  %d sends", workout, i.summary.DurationMinutes, i.summary.Climbs, i.summary.Sends)
}

func (i sessionItem) FilterValue() string { return i.summary.WorkoutID }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    HistoryPort
	list    list.Model
	detail  sessiondto.SessionOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port HistoryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SessionsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "History: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "History"
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{summary: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Sessions) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Sessions[0].ID))
		} else {
			m.detail = sessiondto.SessionOutput{}
			m.preview.SetContent(m.renderDetail())
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Session
			m.preview.SetContent(m.renderDetail())
		}

	case DeletedMsg:
		if msg.Err == nil {
			cmds = append(cmds, m.Reload())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if msg.String() == "d" && !m.Filtering() {
			if id, ok := m.SelectedSessionID(); ok {
				return m, m.deleteCmd(id)
			}
			return m, nil
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if id, ok := m.SelectedSessionID(); ok {
				cmds = append(cmds, m.loadDetailCmd(id))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading sessions…")
	}

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

func (m Model) SelectedSessionID() (string, bool) {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.summary.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is open.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload refetches the session list, e.g. after a session finishes.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.port.List(context.Background())
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
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
	s := m.detail
	if s.ID == "" {
		return theme.Muted.Render("No sessions yet")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.StartTime.Local().Format("Monday 02 January 2006")) + "\n\n")
	workout := s.WorkoutID
	if workout == "" {
		workout = "freeform"
	}
	sb.WriteString(theme.Muted.Render("workout:  ") + workout + "\n")
	if s.EndTime == nil {
		sb.WriteString(theme.Muted.Render("status:   ") + theme.Hot.Render("active") + "\n")
	} else {
		sb.WriteString(fmt.Sprintf("%s%dmin\n", theme.Muted.Render("duration: "), s.DurationMinutes))
	}
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("rpe:      "), s.RPE))
	sb.WriteString(theme.Muted.Render("skin:     ") + s.SkinCondition + "\n")
	sb.WriteString(theme.Muted.Render("sleep:    ") + s.SleepQuality + "\n")
	if s.Notes != "" {
		sb.WriteString(theme.Muted.Render("notes:    ") + s.Notes + "\n")
	}
	if len(s.Climbs) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Climbs") + "\n")
		for _, c := range s.Climbs {
			mark := "✗"
			if c.Sent {
				mark = "✓"
			}
			sb.WriteString(fmt.Sprintf("%s %-3s x%d  %s\n", mark, c.Grade, c.Attempts, c.Timestamp.Local().Format("15:04")))
		}
	}
	if len(s.ExerciseLogs) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Exercises") + "\n")
		for _, l := range s.ExerciseLogs {
			line := fmt.Sprintf("%s  %d sets  %d reps", l.ExerciseID, l.CompletedSets, l.CompletedReps)
			if l.AddedWeight != nil {
				line += fmt.Sprintf("  +%.1f", *l.AddedWeight)
			}
			sb.WriteString(line + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("d: delete session  /: filter"))
	return sb.String()
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		s, err := m.port.Get(context.Background(), id)
		return DetailLoadedMsg{Session: s, Err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return DeletedMsg{ID: id, Err: m.port.Delete(context.Background(), id)}
	}
}
