// Package grid implements the 4x4 sliding-tile board: tile placement,
// directional move/merge resolution and terminal-state detection.
package grid

// Size is the board dimension.
const Size = 4

// Position is a cell coordinate on the board.
type Position struct {
	Row int
	Col int
}

// InBounds reports whether the position lies on the board.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Add returns the position shifted by one step of the vector.
func (p Position) Add(v Vector) Position {
	return Position{Row: p.Row + v.Row, Col: p.Col + v.Col}
}

// Tile is a single power-of-two tile. Tiles are stored by value in the grid;
// a zero Value marks an empty cell.
type Tile struct {
	Row   int
	Col   int
	Value int

	// Previous is where the tile started the last move. Only meaningful
	// when HasPrevious is set.
	Previous    Position
	HasPrevious bool

	// Merged is set on tiles produced by a merge during the last move.
	Merged bool
}

// NewTile creates a fresh tile at the given cell.
func NewTile(row, col, value int) Tile {
	return Tile{Row: row, Col: col, Value: value}
}

// Pos returns the tile's current position.
func (t Tile) Pos() Position {
	return Position{Row: t.Row, Col: t.Col}
}

// Empty reports whether the slot holds no tile.
func (t Tile) Empty() bool {
	return t.Value == 0
}

// savePosition resets per-move bookkeeping before a move is resolved.
func (t *Tile) savePosition() {
	t.Previous = t.Pos()
	t.HasPrevious = true
	t.Merged = false
}
