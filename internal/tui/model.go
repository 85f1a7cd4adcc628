package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zootopia/internal/engine"
	"zootopia/internal/storage"
	"zootopia/internal/ui"
)

// board is the slice of engine.Service the board drives.
type board interface {
	GrowthOverview(ctx context.Context) ([]engine.CompanionProgress, error)
	ListTasks(ctx context.Context, opts engine.ListOptions) ([]storage.Task, error)
	TodayMood(ctx context.Context) (*storage.MoodRecord, error)
	CompleteTask(ctx context.Context, id string) (*engine.CompleteResult, error)
	DeleteTask(ctx context.Context, id string) (*engine.DeleteResult, error)
}

type boardModel struct {
	ctx context.Context
	svc board

	width  int
	height int

	zoo   []engine.CompanionProgress
	tasks []storage.Task
	mood  *storage.MoodRecord

	selected int
	bar      progress.Model

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	zoo   []engine.CompanionProgress
	tasks []storage.Task
	mood  *storage.MoodRecord
	err   error
}

type completedMsg struct {
	res *engine.CompleteResult
	err error
}

type deletedMsg struct {
	res *engine.DeleteResult
	err error
}

func newBoardModel(ctx context.Context, svc board) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(10), progress.WithoutPercentage()),
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		zoo, err := m.svc.GrowthOverview(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		tasks, err := m.svc.ListTasks(m.ctx, engine.ListOptions{})
		if err != nil {
			return loadedMsg{err: err}
		}
		mood, err := m.svc.TodayMood(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{zoo: zoo, tasks: tasks, mood: mood}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, id)
		return completedMsg{res: res, err: err}
	}
}

func (m boardModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.DeleteTask(m.ctx, id)
		return deletedMsg{res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.zoo = msg.zoo
		m.tasks = msg.tasks
		m.mood = msg.mood
		if m.selected >= len(m.tasks) {
			m.selected = max(0, len(m.tasks)-1)
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = completeLog(msg.res)
		return m, m.loadCmd()
	case deletedMsg:
		if msg.err != nil {
			m.lastLog = "Delete failed: " + msg.err.Error()
			return m, nil
		}
		if msg.res.Status == engine.StatusAlreadyDeleted {
			m.lastLog = "Already deleted."
		} else {
			m.lastLog = fmt.Sprintf("Deleted %q.", msg.res.Task.Title)
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.tasks)-1 {
				m.selected++
			}
			return m, nil
		case "enter", "d":
			t := m.current()
			if t == nil {
				m.lastLog = "No task selected."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %q…", t.Title)
			return m, m.completeCmd(t.ID)
		case "x":
			t := m.current()
			if t == nil {
				m.lastLog = "No task selected."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Deleting %q…", t.Title)
			return m, m.deleteCmd(t.ID)
		}
	}
	return m, nil
}

func (m boardModel) current() *storage.Task {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.selected]
}

func completeLog(res *engine.CompleteResult) string {
	if res.Status == engine.StatusAlreadyCompleted {
		return "Already completed."
	}
	if res.Animal == nil {
		return fmt.Sprintf("Completed %q.", res.Task.Title)
	}
	line := fmt.Sprintf("Completed %q: %s +%d XP", res.Task.Title, res.Animal.Name, res.XPAwarded)
	if res.TierUp {
		line += fmt.Sprintf(" (tier %d → %d) %s", res.TierBefore, res.TierAfter, ui.BadgeTierUp)
	}
	return line
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	leftW := 34
	if m.width > 0 {
		leftW = max(22, min(leftW, m.width/2))
	}

	left := strings.Split(m.renderZoo(), "\n")
	right := strings.Split(m.renderTasks(), "\n")
	rows := max(len(left), len(right))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}
	return m.renderHeader() + "\n" + body.String() + "\n" + m.lastLog
}

func (m boardModel) renderHeader() string {
	if m.loading && m.zoo == nil {
		return "Zootopia | loading…"
	}
	weather := "not recorded"
	if m.mood != nil {
		weather = ui.WeatherIcon(m.mood.WeatherMood) + " " + string(m.mood.WeatherMood)
	}
	return fmt.Sprintf("Zootopia | %d companions | today: %s", len(m.zoo), weather)
}

func (m boardModel) renderZoo() string {
	lines := []string{"Companions"}
	if len(m.zoo) == 0 {
		lines = append(lines, "(none yet)")
	}
	for _, c := range m.zoo {
		lines = append(lines, fmt.Sprintf("%s %s T%d %s %d%%",
			c.Def.Emoji, c.Animal.Name, c.Growth.Tier, m.bar.ViewAs(float64(c.Growth.ProgressPercent)/100), c.Growth.ProgressPercent))
	}
	lines = append(lines,
		"",
		"Keys",
		"- ↑/↓ or j/k: move",
		"- enter/d: complete",
		"- x: delete",
		"- r: refresh",
		"- q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderTasks() string {
	if m.loading && m.tasks == nil {
		return "Loading…"
	}
	out := []string{"Open tasks"}
	if len(m.tasks) == 0 {
		out = append(out, "(nothing to do, enjoy the garden)")
		return strings.Join(out, "\n")
	}
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		out = append(out, fmt.Sprintf("%s%s [%s] +%d", cursor, t.Title, t.GardenZone.DisplayName(), t.ExperienceReward))
	}
	return strings.Join(out, "\n")
}

// padRight pads to a display width; styled and wide text is measured by cells.
// Longer lines are left as they are.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
