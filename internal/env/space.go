package env

import "fmt"

// Discrete is a space of the integers [0, N).
type Discrete struct {
	N int
}

// Contains reports whether a is a member of the space.
func (d Discrete) Contains(a int) bool {
	return a >= 0 && a < d.N
}

// String returns a short description of the space.
func (d Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}

// Box is a space of uint8 arrays with a fixed shape and bounds.
type Box struct {
	Low   uint8
	High  uint8
	Shape []int
}

// Size returns the number of elements in an array of this shape.
func (b Box) Size() int {
	n := 1
	for _, d := range b.Shape {
		n *= d
	}
	return n
}

// Contains reports whether obs has this shape and every value lies within bounds.
func (b Box) Contains(obs Observation) bool {
	if len(obs.Shape) != len(b.Shape) {
		return false
	}
	for i := range b.Shape {
		if obs.Shape[i] != b.Shape[i] {
			return false
		}
	}
	if len(obs.Pix) != b.Size() {
		return false
	}
	for _, v := range obs.Pix {
		if v < b.Low || v > b.High {
			return false
		}
	}
	return true
}

// String returns a short description of the space.
func (b Box) String() string {
	return fmt.Sprintf("Box(%d, %d, %v, uint8)", b.Low, b.High, b.Shape)
}
