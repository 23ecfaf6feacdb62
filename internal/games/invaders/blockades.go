package invaders

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-invaders/internal/config"
)

// Offset is a piece position relative to the top-left corner of a shield.
type Offset struct {
	DX, DY int
}

// Shape is a parsed shield mask.
type Shape struct {
	Width   int
	Height  int
	Offsets []Offset
}

// ParseShape parses a mask where '#' marks a piece and '.' a hole.
func ParseShape(rows []string) (Shape, error) {
	if len(rows) == 0 {
		return Shape{}, fmt.Errorf("invaders: empty blockade shape")
	}
	shape := Shape{Width: len(rows[0]), Height: len(rows)}
	for y, row := range rows {
		if len(row) != shape.Width {
			return Shape{}, fmt.Errorf("invaders: blockade shape row %d has width %d, expected %d", y, len(row), shape.Width)
		}
		for x, ch := range row {
			switch ch {
			case '#':
				shape.Offsets = append(shape.Offsets, Offset{DX: x, DY: y})
			case '.':
			default:
				return Shape{}, fmt.Errorf("invaders: blockade shape row %d has invalid character %q", y, ch)
			}
		}
	}
	if len(shape.Offsets) == 0 {
		return Shape{}, fmt.Errorf("invaders: blockade shape %q has no pieces", strings.Join(rows, "/"))
	}
	return shape, nil
}

// BlockadeField holds every shield piece on the playfield.
type BlockadeField struct {
	Pieces []*Blockade

	shape  Shape
	count  int
	margin float64
	spread float64
}

// NewBlockadeField parses the configured mask.
func NewBlockadeField(cfg config.BlockadeConfig) (*BlockadeField, error) {
	field := &BlockadeField{
		count:  cfg.Count,
		margin: cfg.Margin,
		spread: cfg.Spread,
	}
	if cfg.Count == 0 {
		return field, nil
	}
	shape, err := ParseShape(cfg.Shape)
	if err != nil {
		return nil, err
	}
	field.shape = shape
	return field, nil
}

// Build replaces all pieces with fresh shields whose bottom row is baseY.
// Shields are evenly spaced: shield i is centred at margin*W + i*spread*W/(count-1).
func (bf *BlockadeField) Build(width, baseY int) {
	bf.Pieces = make([]*Blockade, 0, bf.count*len(bf.shape.Offsets))
	top := baseY - bf.shape.Height + 1
	for i := 0; i < bf.count; i++ {
		cx := bf.margin * float64(width)
		if bf.count > 1 {
			cx += bf.spread * float64(width) * float64(i) / float64(bf.count-1)
		}
		left := int(math.Round(cx - float64(bf.shape.Width)/2))
		for _, off := range bf.shape.Offsets {
			bf.Pieces = append(bf.Pieces, &Blockade{X: left + off.DX, Y: top + off.DY})
		}
	}
}

// Len returns the number of remaining pieces.
func (bf *BlockadeField) Len() int {
	return len(bf.Pieces)
}

// Shape returns the parsed shield mask.
func (bf *BlockadeField) Shape() Shape {
	return bf.shape
}
