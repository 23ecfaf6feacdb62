package env

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
)

// RenderMode selects the observation format.
type RenderMode string

const (
	// RenderHuman produces RGB observations and is meant to be paired with a viewer.
	RenderHuman RenderMode = "human"
	// RenderRGB produces [H, W, 3] observations.
	RenderRGB RenderMode = "rgb_array"
	// RenderGray produces [H, W] observations.
	RenderGray RenderMode = "gray_scale_array"
)

// RenderModes lists the supported modes.
var RenderModes = []RenderMode{RenderHuman, RenderRGB, RenderGray}

// ParseRenderMode validates a render mode name.
func ParseRenderMode(s string) (RenderMode, error) {
	for _, m := range RenderModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("env: unknown render mode %q", s)
}

// Channels returns the number of values per pixel.
func (m RenderMode) Channels() int {
	if m == RenderGray {
		return 1
	}
	return 3
}

// Observation is a row-major uint8 array of shape [H, W, 3] or [H, W].
type Observation struct {
	Shape []int
	Pix   []uint8
}

// Height returns the number of rows.
func (o Observation) Height() int {
	if len(o.Shape) == 0 {
		return 0
	}
	return o.Shape[0]
}

// Width returns the number of columns.
func (o Observation) Width() int {
	if len(o.Shape) < 2 {
		return 0
	}
	return o.Shape[1]
}

// Channels returns 3 for RGB observations and 1 for gray scale.
func (o Observation) Channels() int {
	if len(o.Shape) < 3 {
		return 1
	}
	return o.Shape[2]
}

// At returns channel c of the pixel at (x, y).
func (o Observation) At(x, y, c int) uint8 {
	return o.Pix[(y*o.Width()+x)*o.Channels()+c]
}

// GrayLevel converts a color to its luma value.
func GrayLevel(c color.RGBA) uint8 {
	return uint8(math.Round(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)))
}

// rasterizer turns the playfield into observation images.
// Each cell becomes one pixel, which is then scaled to the observation size.
type rasterizer struct {
	screen *core.Screen
	src    *image.RGBA
	dst    *image.RGBA
	mode   RenderMode
}

func newRasterizer(fieldW, fieldH, obsW, obsH int, mode RenderMode) *rasterizer {
	return &rasterizer{
		screen: core.NewScreen(fieldW, fieldH),
		src:    image.NewRGBA(image.Rect(0, 0, fieldW, fieldH)),
		dst:    image.NewRGBA(image.Rect(0, 0, obsW, obsH)),
		mode:   mode,
	}
}

// space returns the observation space for the configured size and mode.
func (r *rasterizer) space() Box {
	b := r.dst.Bounds()
	shape := []int{b.Dy(), b.Dx()}
	if r.mode.Channels() == 3 {
		shape = append(shape, 3)
	}
	return Box{Low: 0, High: 255, Shape: shape}
}

// observe renders the world and returns a fresh observation.
func (r *rasterizer) observe(w *invaders.World) Observation {
	r.screen.Clear()
	w.Draw(r.screen, 0)

	for y := 0; y < r.screen.Height(); y++ {
		for x := 0; x < r.screen.Width(); x++ {
			c := r.screen.GetCell(x, y)
			if c.Rune == ' ' {
				r.src.SetRGBA(x, y, core.Background)
			} else {
				r.src.SetRGBA(x, y, c.Color.RGBA())
			}
		}
	}

	draw.NearestNeighbor.Scale(r.dst, r.dst.Bounds(), r.src, r.src.Bounds(), draw.Src, nil)

	space := r.space()
	obs := Observation{Shape: space.Shape, Pix: make([]uint8, space.Size())}
	b := r.dst.Bounds()
	i := 0
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			px := r.dst.RGBAAt(x, y)
			if r.mode == RenderGray {
				obs.Pix[i] = GrayLevel(px)
				i++
				continue
			}
			obs.Pix[i], obs.Pix[i+1], obs.Pix[i+2] = px.R, px.G, px.B
			i += 3
		}
	}
	return obs
}
