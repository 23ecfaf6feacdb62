package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Painter converts screen buffers to styled strings for one output.
// Cell styles use the same RGB values as the environment observations;
// the renderer degrades them to the nearest color its terminal supports.
type Painter struct {
	renderer *lipgloss.Renderer

	mu     sync.Mutex
	styles map[core.Color]lipgloss.Style
}

// NewPainter creates a painter for the given renderer.
// A nil renderer uses the process's standard output.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{
		renderer: r,
		styles:   make(map[core.Color]lipgloss.Style),
	}
}

// Renderer returns the lipgloss renderer used for all output.
func (p *Painter) Renderer() *lipgloss.Renderer {
	return p.renderer
}

// style returns the foreground style of a cell color.
func (p *Painter) style(c core.Color) lipgloss.Style {
	p.mu.Lock()
	defer p.mu.Unlock()

	if style, ok := p.styles[c]; ok {
		return style
	}
	style := p.renderer.NewStyle()
	if c != core.ColorDefault {
		rgb := c.RGBA()
		style = style.Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)))
	}
	p.styles[c] = style
	return style
}

// Render converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (p *Painter) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(p.style(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

var defaultPainter = NewPainter(nil)

// RenderScreen renders a screen for the local terminal.
func RenderScreen(s *core.Screen) string {
	return defaultPainter.Render(s)
}
