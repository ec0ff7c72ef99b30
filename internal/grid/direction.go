package grid

import (
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

// Directions in fixed iteration order. The advisor breaks ties in this order.
const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists all legal directions in iteration order.
var Directions = [4]Direction{Up, Right, Down, Left}

// Vector is a unit step on the board.
type Vector struct {
	Row int
	Col int
}

var vectors = [4]Vector{
	Up:    {Row: -1, Col: 0},
	Right: {Row: 0, Col: 1},
	Down:  {Row: 1, Col: 0},
	Left:  {Row: 0, Col: -1},
}

// Valid reports whether d is one of the four legal directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}

// Vector returns the unit step for the direction.
func (d Direction) Vector() Vector {
	if !d.Valid() {
		return Vector{}
	}
	return vectors[d]
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Right:
		return "Right"
	case Down:
		return "Down"
	case Left:
		return "Left"
	default:
		return "Unknown"
	}
}

// ParseDirection converts a name ("up", "r", "left", ...) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "right", "r":
		return Right, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	}
	return 0, fmt.Errorf("grid: unknown direction %q", s)
}
