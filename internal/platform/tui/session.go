package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
	"github.com/vovakirdan/tui-invaders/internal/registry"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

// sessionView is the view a session is showing.
type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewWatch
	viewScores
)

// SessionModel manages the full session flow: menu, then a game, the agent
// viewer, or the scoreboard, then back to the menu.
// It is the top-level model for SSH sessions and the local menu.
type SessionModel struct {
	id       uuid.UUID
	store    *storage.Store
	config   core.RuntimeConfig
	username string
	painter  *Painter
	view     sessionView
	menu     MenuModel
	game     Model
	watch    WatchModel
	scores   ScoreboardModel
	err      string // Last error, shown on the menu
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, username string, painter *Painter) SessionModel {
	if painter == nil {
		painter = defaultPainter
	}
	m := SessionModel{
		id:       uuid.New(),
		store:    store,
		config:   cfg,
		username: username,
		painter:  painter,
	}
	m.menu = m.newMenu()
	return m
}

// ID returns the unique session identifier.
func (m SessionModel) ID() uuid.UUID {
	return m.id
}

// newMenu builds the title menu with the current high score.
func (m SessionModel) newMenu() MenuModel {
	high := 0
	if m.store != nil {
		//nolint:errcheck // A failing store shows no high score
		high, _ = m.store.HighScore(GameID)
	}
	return NewMenuModel(m.config, high)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewWatch:
		return m.updateWatch(msg)
	case viewScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	// The menu's own quit command is dropped; the session keeps running
	m.config = m.menu.Config()
	m.err = ""
	switch selected.Choice {
	case ChoicePlay:
		game, err := registry.Create(GameID)
		if err != nil {
			return m.backToMenu(err)
		}
		m.game = NewModel(game, m.store, m.config).WithPlayer(m.username).embed(m.painter)
		m.view = viewGame
		return m, m.game.Init()

	case ChoiceWatch:
		cfg, err := invaders.LoadConfig()
		if err != nil {
			cfg = config.Default()
		}
		watch, err := NewWatchModel(m.menu.Agent(), cfg, m.store, m.config)
		if err != nil {
			return m.backToMenu(err)
		}
		m.watch = watch.embed(m.painter)
		m.view = viewWatch
		return m, m.watch.Init()

	case ChoiceScores:
		m.scores = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH).embed(m.painter)
		m.view = viewScores
		return m, m.scores.Init()
	}

	return m.backToMenu(nil)
}

// backToMenu returns to a fresh menu, showing err if set.
func (m SessionModel) backToMenu(err error) (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.menu = m.newMenu()
	if err != nil {
		m.err = err.Error()
	}
	return m, m.menu.Init()
}

// updateGame handles updates when a game is running.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.backToMenu(nil)
	}

	return m, cmd
}

// updateWatch handles updates when the agent viewer is running.
func (m SessionModel) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.watch.Update(msg)
	if watchModel, ok := newModel.(WatchModel); ok {
		m.watch = watchModel
	}

	if m.watch.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.watch.BackToMenu() {
		return m.backToMenu(nil)
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if scoresModel, ok := newModel.(ScoreboardModel); ok {
		m.scores = scoresModel
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.backToMenu(nil)
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewWatch:
		return m.watch.View()
	case viewScores:
		return m.scores.View()
	}

	view := m.menu.View()
	if m.err != "" {
		view += "\n" + centerText("Error: "+m.err, m.config.ScreenW) + "\n"
	}
	return view
}

// RunSession runs the menu flow in the local terminal.
func RunSession(store *storage.Store, cfg core.RuntimeConfig, username string) error {
	p := tea.NewProgram(
		NewSessionModel(store, cfg, username, nil),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
