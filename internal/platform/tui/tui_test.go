package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// stubGame records the input it receives.
type stubGame struct {
	resets int
	steps  int
	lastIn []core.Action
	state  core.GameState
	overAt int
}

func (g *stubGame) ID() string    { return "invaders" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
	g.state = core.GameState{Lives: 3, Level: 1}
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	g.lastIn = g.lastIn[:0]
	for a := range in.Actions {
		g.lastIn = append(g.lastIn, a)
	}
	g.state.Score += 5
	if g.overAt > 0 && g.steps >= g.overAt {
		g.state.GameOver = true
	}
	return core.StepResult{State: g.state}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "stub")
}

func (g *stubGame) State() core.GameState { return g.state }

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 120, ScreenH: 40, TickRate: 30, Seed: 1}
}

func TestKeyMapperMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"a", runeKey("a"), core.ActionLeft, false},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"d", runeKey("d"), core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionFire, false},
		{"pause", runeKey("p"), core.ActionPause, false},
		{"restart", runeKey("r"), core.ActionRestart, false},
		{"escape", tea.KeyMsg{Type: tea.KeyEscape}, core.ActionBack, false},
		{"q", runeKey("q"), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey("z"), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action {
				t.Errorf("MapKey() action = %v, expected %v", action, tt.action)
			}
			if quit != tt.quit {
				t.Errorf("MapKey() quit = %v, expected %v", quit, tt.quit)
			}
		})
	}
}

func TestKeyMapperMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg      tea.KeyMsg
		expected MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey("j"), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, MenuActionLeft},
		{runeKey("l"), MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey("b"), MenuActionBack},
		{runeKey("q"), MenuActionQuit},
		{runeKey("x"), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.expected {
			t.Errorf("MapKeyToMenuAction(%q) = %d, expected %d", tt.msg.String(), got, tt.expected)
		}
	}
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColor(0, 0, "ab", core.ColorBrightGreen)
	s.DrawText(2, 0, "cd")
	s.DrawTextColor(0, 1, "xyz", core.ColorOrange)

	// Tests run without a terminal, so no escape codes are emitted
	got := RenderScreen(s)
	if got != s.String() {
		t.Errorf("RenderScreen() = %q, expected %q", got, s.String())
	}
}

func TestModelStepsGameWithInput(t *testing.T) {
	game := &stubGame{}
	m := NewModel(game, nil, testRuntime())
	m.Init()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	next, cmd := m.Update(TickMsg{})
	m = next.(Model)

	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	if game.steps != 1 {
		t.Fatalf("game stepped %d times, expected 1", game.steps)
	}
	if len(game.lastIn) != 1 || game.lastIn[0] != core.ActionFire {
		t.Errorf("game received %v, expected [Fire]", game.lastIn)
	}

	// Input is cleared after each tick
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if len(game.lastIn) != 0 {
		t.Errorf("game received %v on an idle tick, expected nothing", game.lastIn)
	}
	if m.State().Score != 10 {
		t.Errorf("State().Score = %d, expected 10", m.State().Score)
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(&stubGame{}, nil, testRuntime())

	next, cmd := m.Update(runeKey("q"))
	m = next.(Model)
	if !m.IsQuitting() {
		t.Error("q should quit")
	}
	if cmd == nil {
		t.Error("q should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestModelBackOnlyWhenStopped(t *testing.T) {
	game := &stubGame{overAt: 2}
	m := NewModel(game, nil, testRuntime()).embed(defaultPainter)
	m.Init()

	next, _ := m.Update(runeKey("b"))
	m = next.(Model)
	if m.BackToMenu() {
		t.Fatal("back should be ignored while playing")
	}

	for range 2 {
		next, _ = m.Update(TickMsg{})
		m = next.(Model)
	}
	if !m.State().GameOver {
		t.Fatal("game should be over")
	}

	next, _ = m.Update(runeKey("b"))
	m = next.(Model)
	if !m.BackToMenu() {
		t.Error("back should leave a finished game")
	}
	if m.IsQuitting() {
		t.Error("an embedded game should not quit the program")
	}
}

func TestModelSavesScoreOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	game := &stubGame{overAt: 3}
	m := NewModel(game, store, testRuntime()).WithPlayer("ann")
	m.Init()

	for range 5 {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}

	scores, err := store.TopScores(GameID, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("Expected 1 saved score, got %d", len(scores))
	}
	if scores[0].Player != "ann" || scores[0].Level != 1 {
		t.Errorf("saved %+v, expected player ann at level 1", scores[0])
	}
}

func TestModelRestartAfterGameOver(t *testing.T) {
	game := &stubGame{overAt: 1}
	m := NewModel(game, nil, testRuntime())
	m.Init()

	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	next, _ = m.Update(runeKey("r"))
	m = next.(Model)
	next, _ = m.Update(TickMsg{})
	m = next.(Model)

	if game.resets != 2 {
		t.Errorf("game reset %d times, expected 2", game.resets)
	}
	if m.State().GameOver {
		t.Error("restart should clear game over")
	}
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(testRuntime(), 0)

	press := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}

	press(tea.KeyMsg{Type: tea.KeyUp}) // Already at the top
	press(tea.KeyMsg{Type: tea.KeyDown})
	first := m.Agent()
	press(tea.KeyMsg{Type: tea.KeyRight})
	if m.Agent() == first {
		t.Errorf("right on the watch entry should change the agent from %q", first)
	}
	press(tea.KeyMsg{Type: tea.KeyLeft})
	if m.Agent() != first {
		t.Errorf("Agent() = %q, expected %q", m.Agent(), first)
	}

	press(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() == nil || m.Selected().Choice != ChoiceWatch {
		t.Fatalf("Selected() = %v, expected the watch entry", m.Selected())
	}
}

func TestMenuQuitEntry(t *testing.T) {
	m := NewMenuModel(testRuntime(), 0)
	for range len(menuItems) {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(MenuModel)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	if !m.IsQuitting() {
		t.Error("selecting Quit should quit")
	}
	if m.Selected() != nil {
		t.Error("Quit should not count as a selection")
	}
}

func TestMenuViewShowsHighScore(t *testing.T) {
	view := NewMenuModel(testRuntime(), 1234).View()
	for _, want := range []string{"S P A C E", "High score: 1234", "Watch agent: < random >", "High scores"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu view is missing %q", want)
		}
	}
}

func TestWatchModelPlaysAndRecords(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	cfg := config.Default()
	cfg.Env.MaxEpisodeSteps = 5

	m, err := NewWatchModel("tracker", cfg, store, testRuntime())
	if err != nil {
		t.Fatalf("NewWatchModel() failed: %v", err)
	}

	for range 12 {
		next, _ := m.Update(TickMsg{})
		m = next.(WatchModel)
	}

	if m.Episodes() != 2 {
		t.Errorf("Episodes() = %d, expected 2", m.Episodes())
	}

	episodes, err := store.RecentEpisodes(t.Context(), 10)
	if err != nil {
		t.Fatalf("RecentEpisodes() failed: %v", err)
	}
	if len(episodes) != 2 {
		t.Fatalf("Expected 2 recorded episodes, got %d", len(episodes))
	}
	for _, e := range episodes {
		if e.Agent != "tracker" || e.Steps != 5 || !e.Truncated {
			t.Errorf("unexpected episode record %+v", e)
		}
	}

	view := m.View()
	if !strings.Contains(view, "AGENT TRACKER") {
		t.Error("viewer panel is missing the agent name")
	}
}

func TestWatchModelPause(t *testing.T) {
	m, err := NewWatchModel("random", config.Default(), nil, testRuntime())
	if err != nil {
		t.Fatalf("NewWatchModel() failed: %v", err)
	}

	next, _ := m.Update(runeKey("p"))
	m = next.(WatchModel)
	next, _ = m.Update(TickMsg{})
	m = next.(WatchModel)

	if m.env.Steps() != 0 {
		t.Errorf("paused viewer stepped %d times", m.env.Steps())
	}
}

func TestWatchModelUnknownAgent(t *testing.T) {
	if _, err := NewWatchModel("nobody", config.Default(), nil, testRuntime()); err == nil {
		t.Error("expected an error for an unknown agent")
	}
}

func TestScoreboardBoards(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveScore(GameID, 300, 2, "ann")
	store.SaveScore(GameID, 100, 1, "")

	m := NewScoreboardModel(store, 120, 40)
	if rows := m.table.Rows(); len(rows) != 2 || rows[0][1] != "300" || rows[1][3] != "-" {
		t.Errorf("player rows = %v", rows)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.board != boardAgents {
		t.Fatalf("tab should switch to the agent board")
	}
	if !strings.Contains(m.View(), "No agent episodes yet") {
		t.Error("empty agent board should say so")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.board != boardPlayers {
		t.Error("tab should wrap around to the player board")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20)
	if !strings.Contains(m.View(), "Scores are unavailable") {
		t.Error("scoreboard without a store should say scores are unavailable")
	}
}

func TestSessionFlow(t *testing.T) {
	m := NewSessionModel(nil, testRuntime(), "ann", nil)

	update := func(msg tea.Msg) tea.Cmd {
		next, cmd := m.Update(msg)
		m = next.(SessionModel)
		return cmd
	}

	// Play, then pause and go back
	update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewGame {
		t.Fatalf("session view = %d, expected the game", m.view)
	}
	update(runeKey("p"))
	update(TickMsg{})
	update(runeKey("b"))
	if m.view != viewMenu {
		t.Fatalf("session view = %d, expected the menu after back", m.view)
	}

	// Scoreboard via tab, then back
	update(tea.KeyMsg{Type: tea.KeyTab})
	if m.view != viewScores {
		t.Fatalf("session view = %d, expected the scoreboard", m.view)
	}
	update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.view != viewMenu {
		t.Fatalf("session view = %d, expected the menu after leaving scores", m.view)
	}

	// Watch an agent, then back
	update(tea.KeyMsg{Type: tea.KeyDown})
	update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewWatch {
		t.Fatalf("session view = %d, expected the viewer", m.view)
	}
	update(TickMsg{})
	update(runeKey("b"))
	if m.view != viewMenu {
		t.Fatalf("session view = %d, expected the menu after leaving the viewer", m.view)
	}

	if cmd := update(runeKey("q")); cmd == nil || !m.quitting {
		t.Error("q on the menu should quit the session")
	}
}
