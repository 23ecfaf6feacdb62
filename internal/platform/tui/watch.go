package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-invaders/internal/agent"
	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/env"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

// Viewer layout
const (
	panelWidth    = 26
	recentReturns = 10 // Episodes averaged in the side panel
)

// WatchModel is the Bubble Tea model that shows an agent playing through the environment.
// Every finished episode is stored when a store is available.
type WatchModel struct {
	env       *env.Env
	agentName string
	policies  env.PolicyFactory
	policy    env.Policy
	store     *storage.Store
	runID     uuid.UUID
	screen    *core.Screen
	painter   *Painter
	tickRate  int
	width     int
	height    int

	obs        env.Observation
	info       env.Info
	lastAction env.Action
	episode    int
	reward     float64
	returns    []float64
	started    time.Time

	paused     bool
	embedded   bool
	quitting   bool
	backToMenu bool
	err        error
}

// NewWatchModel creates a viewer for the named agent.
func NewWatchModel(agentName string, cfg config.InvadersConfig, store *storage.Store, rt core.RuntimeConfig) (WatchModel, error) {
	policies, err := agent.Factory(agentName)
	if err != nil {
		return WatchModel{}, err
	}

	seed := rt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e, err := env.New(env.WithConfig(cfg), env.WithRenderMode(env.RenderHuman), env.WithSeed(seed))
	if err != nil {
		return WatchModel{}, err
	}

	m := WatchModel{
		env:       e,
		agentName: agentName,
		policies:  policies,
		store:     store,
		runID:     uuid.New(),
		screen:    core.NewScreen(0, 0),
		painter:   defaultPainter,
		tickRate:  rt.TickRate,
		width:     rt.ScreenW,
		height:    rt.ScreenH,
	}
	if err := m.startEpisode(&seed); err != nil {
		return WatchModel{}, err
	}
	return m, nil
}

// embed configures the model to run inside a Session.
func (m WatchModel) embed(p *Painter) WatchModel {
	m.embedded = true
	m.painter = p
	return m
}

// startEpisode resets the environment and builds a policy for the new seed.
func (m *WatchModel) startEpisode(seed *int64) error {
	obs, info, err := m.env.Reset(env.ResetOptions{Seed: seed})
	if err != nil {
		return err
	}
	m.obs, m.info = obs, info
	m.policy = m.policies(m.env.Seed())
	m.reward = 0
	m.lastAction = env.ActionNoop
	m.started = time.Now()
	return nil
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages for the viewer.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "b", "esc":
			m.backToMenu = true
			if !m.embedded {
				m.quitting = true
				return m, tea.Quit
			}
		case "p", " ":
			m.paused = !m.paused
		case "n":
			m.finishEpisode(false, true)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		if m.backToMenu {
			return m, nil
		}
		if !m.paused && m.err == nil {
			m.step()
		}
		return m, tickCmd(m.tickRate)
	}

	return m, nil
}

// step asks the policy for an action and applies it.
func (m *WatchModel) step() {
	m.lastAction = m.policy.Act(m.obs, m.info)
	res, err := m.env.Step(m.lastAction)
	if err != nil {
		m.err = err
		return
	}
	m.obs, m.info = res.Observation, res.Info
	m.reward += res.Reward

	if res.Done() {
		m.finishEpisode(res.Terminated, res.Truncated)
	}
}

// finishEpisode records the current episode and starts the next one.
func (m *WatchModel) finishEpisode(terminated, truncated bool) {
	if m.store != nil {
		//nolint:errcheck // Best-effort save, the viewer keeps running
		m.store.Record(context.Background(), env.EpisodeResult{
			ID:         uuid.New(),
			RunID:      m.runID,
			Agent:      m.agentName,
			Episode:    m.episode,
			Seed:       m.env.Seed(),
			Steps:      m.env.Steps(),
			Reward:     m.reward,
			Score:      m.info.Score,
			Level:      m.info.Level,
			Terminated: terminated,
			Truncated:  truncated,
			Duration:   time.Since(m.started),
			FinishedAt: time.Now(),
		})
	}

	m.returns = append(m.returns, m.reward)
	if len(m.returns) > recentReturns {
		m.returns = m.returns[len(m.returns)-recentReturns:]
	}
	m.episode++

	if err := m.startEpisode(nil); err != nil {
		m.err = err
	}
}

// View renders the playfield with a side panel of episode statistics.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	m.env.Frame(m.screen)
	need := m.screen.Width() + panelWidth + 2
	if m.width > 0 && (m.width < need || m.height < m.screen.Height()) {
		return fmt.Sprintf("Window too small\nNeed %dx%d", need, m.screen.Height())
	}

	field := m.painter.Render(m.screen)
	return lipgloss.JoinHorizontal(lipgloss.Top, field, "  ", m.renderPanel())
}

// renderPanel draws the statistics panel.
func (m WatchModel) renderPanel() string {
	r := m.painter.Renderer()
	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(panelWidth-2).
		Padding(0, 1)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	label := r.NewStyle().Foreground(lipgloss.Color("241"))

	row := func(name, value string) string {
		return label.Render(fmt.Sprintf("%-9s", name)) + value
	}

	lines := []string{
		title.Render("AGENT " + strings.ToUpper(m.agentName)),
		"",
		row("Episode", fmt.Sprintf("%d", m.episode+1)),
		row("Seed", fmt.Sprintf("%d", m.env.Seed())),
		row("Step", fmt.Sprintf("%d", m.env.Steps())),
		row("Action", m.lastAction.String()),
		row("Reward", fmt.Sprintf("%+.0f", m.reward)),
		"",
		row("Score", fmt.Sprintf("%d", m.info.Score)),
		row("Lives", fmt.Sprintf("%d", m.info.PlayerLives)),
		row("Level", fmt.Sprintf("%d", m.info.Level)),
		row("Enemies", fmt.Sprintf("%d", m.info.RemainingEnemies)),
		row("Advance", fmt.Sprintf("%.0f%%", m.info.EnemyAdvance*100)),
		"",
		row("Mean ret", meanReturn(m.returns)),
	}
	if m.paused {
		lines = append(lines, "", title.Render("PAUSED"))
	}
	if m.err != nil {
		lines = append(lines, "", r.NewStyle().Foreground(lipgloss.Color("9")).Render(m.err.Error()))
	}
	lines = append(lines, "", label.Render("p pause  n next\nb back  q quit"))

	return box.Render(strings.Join(lines, "\n"))
}

// meanReturn formats the average of the recent episode returns.
func meanReturn(returns []float64) string {
	if len(returns) == 0 {
		return "-"
	}
	sum := 0.0
	for _, r := range returns {
		sum += r
	}
	return fmt.Sprintf("%.1f (%d)", sum/float64(len(returns)), len(returns))
}

// Episodes returns the number of finished episodes.
func (m WatchModel) Episodes() int {
	return m.episode
}

// IsQuitting returns true if the user requested to quit entirely.
func (m WatchModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to leave the viewer.
func (m WatchModel) BackToMenu() bool {
	return m.backToMenu
}

// RunWatch runs the agent viewer until the user quits.
func RunWatch(agentName string, cfg config.InvadersConfig, store *storage.Store, rt core.RuntimeConfig) error {
	model, err := NewWatchModel(agentName, cfg, store, rt)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
