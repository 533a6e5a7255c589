package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/workpulse/workpulse/internal/tracker"
	"github.com/workpulse/workpulse/internal/view"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live timer dashboard",
	Long: `Show a live dashboard with the running timer, today's totals, and
focus metrics. The dashboard refreshes every second and keeps the
auto-pause check running while it is open.

With --plain the dashboard is replaced by a line-based watcher that only
prints notifications (auto-pause, daily reminder), suitable for running
in the background or over a bare terminal.

Keys:
  s        stop the running timer
  p        pause/resume the running timer
  r        resume a paused timer
  q/esc    quit`,
	RunE: runWatch,
}

var watchPlain bool

func init() {
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "Line-based watcher instead of the dashboard")
}

var (
	watchHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1)

	watchRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#04B575")).
				Bold(true)

	watchPausedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F7DC6F")).
				Bold(true)

	watchIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	watchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2).
			MarginBottom(1)

	watchFooterStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#626262"))
)

type watchTickMsg time.Time

func watchTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

type watchModel struct {
	session *tracker.Session
	width   int
	height  int
	notice  string
}

func (m watchModel) Init() tea.Cmd {
	return watchTickCmd()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// A keypress is user activity regardless of which key it was.
		m.session.Touch()
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "s":
			if entry, _ := m.session.StopTimer(); entry != nil {
				m.notice = fmt.Sprintf("Stopped @%s: %s", entry.Client, entry.Task)
			}
		case "p":
			active := m.session.ActiveEntry()
			switch {
			case active == nil:
			case active.IsPaused:
				m.session.ResumeTimer()
				m.notice = "Resumed"
			default:
				m.session.PauseTimer()
				m.notice = "Paused"
			}
		case "r":
			if entry, _ := m.session.ResumeTimer(); entry != nil {
				m.notice = "Resumed"
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case watchTickMsg:
		if paused, _ := m.session.CheckAutoPause(); paused {
			m.notice = fmt.Sprintf("Auto-paused after %d minutes of inactivity",
				m.session.Settings().AutoPauseMinutes)
		}
		return m, watchTickCmd()
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	now := time.Now()
	boxWidth := m.width - 4
	if boxWidth > 72 {
		boxWidth = 72
	}

	header := watchHeaderStyle.Width(m.width).Render(
		fmt.Sprintf("WorkPulse - %s", now.Format("Jan 2, 2006 15:04:05")),
	)

	var timerBox string
	if active := m.session.ActiveEntry(); active != nil {
		state := watchRunningStyle.Render("RUNNING")
		if active.IsPaused {
			state = watchPausedStyle.Render("PAUSED")
		}
		elapsed := formatDuration(time.Duration(m.session.Elapsed()) * time.Millisecond)
		timerBox = watchBoxStyle.Width(boxWidth).Render(fmt.Sprintf(
			"TIMER  %s\n\n@%s: %s\nStarted %s  Elapsed %s",
			state,
			active.Client, active.Task,
			active.StartTime.Format("15:04:05"),
			watchRunningStyle.Render(elapsed),
		))
	} else {
		timerBox = watchBoxStyle.Width(boxWidth).Render(fmt.Sprintf(
			"TIMER  %s\n\nNo timer running. Use \"workpulse start\" to begin.",
			watchIdleStyle.Render("IDLE"),
		))
	}

	entries := m.session.Entries()
	total := view.DailyTotal(entries, now)
	focus := view.Focus(entries, now)

	todayBox := watchBoxStyle.Width(boxWidth).Render(fmt.Sprintf(
		"TODAY\n\nTracked:  %s\nSessions: %d",
		formatDuration(time.Duration(total)*time.Millisecond),
		focus.Sessions,
	))

	var focusBox string
	if focus.Sessions > 0 {
		focusBox = watchBoxStyle.Width(boxWidth).Render(fmt.Sprintf(
			"FOCUS\n\nScore: %d/100\nAvg session: %s  Longest: %s\nUninterrupted: %d%%",
			focus.Score,
			formatDurationShort(time.Duration(focus.AvgSession)*time.Millisecond),
			formatDurationShort(time.Duration(focus.LongestSession)*time.Millisecond),
			focus.UninterruptedPct,
		))
	}

	footer := watchFooterStyle.Width(m.width).Render(
		"s stop • p pause/resume • r resume • q quit",
	)

	sections := []string{header, timerBox, todayBox}
	if focusBox != "" {
		sections = append(sections, focusBox)
	}
	if m.notice != "" {
		sections = append(sections, watchPausedStyle.Render(m.notice))
	}
	sections = append(sections, footer)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if h := lipgloss.Height(content); h < m.height {
		content += strings.Repeat("\n", m.height-h-1)
	}
	return content
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPlain {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Println("Watching. Ctrl+C to stop.")
		session.Watch(ctx, notifier{})
		return nil
	}

	m := watchModel{session: session}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
