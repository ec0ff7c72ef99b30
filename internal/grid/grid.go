package grid

// Rand is the random source used for tile insertion. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// DefaultSpawn4Prob is the probability that an inserted tile is a 4.
const DefaultSpawn4Prob = 0.10

// MoveResult describes the effect of a successful move.
type MoveResult struct {
	Moved bool // Some tile changed position or merged
	Score int  // Sum of values of tiles created by merges
}

// Grid is the 4x4 board. The zero value is an empty board.
// Copying a Grid by value yields a fully independent board.
type Grid struct {
	cells [Size][Size]Tile
}

// New returns an empty grid.
func New() *Grid {
	return &Grid{}
}

// FromValues builds a grid from a row-major value matrix. Zero means empty.
func FromValues(values [Size][Size]int) *Grid {
	g := New()
	for row := range Size {
		for col := range Size {
			if values[row][col] != 0 {
				g.InsertTile(NewTile(row, col, values[row][col]))
			}
		}
	}
	return g
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	c := *g
	return &c
}

// InsertTile places a tile at its own position, replacing anything there.
func (g *Grid) InsertTile(t Tile) {
	if !t.Pos().InBounds() {
		return
	}
	g.cells[t.Row][t.Col] = t
}

// RemoveTile empties the cell at pos.
func (g *Grid) RemoveTile(pos Position) {
	if !pos.InBounds() {
		return
	}
	g.cells[pos.Row][pos.Col] = Tile{}
}

// Tile returns the tile at pos and whether the cell is occupied.
func (g *Grid) Tile(pos Position) (Tile, bool) {
	if !pos.InBounds() {
		return Tile{}, false
	}
	t := g.cells[pos.Row][pos.Col]
	return t, !t.Empty()
}

// CellEmpty reports whether pos is on the board and unoccupied.
func (g *Grid) CellEmpty(pos Position) bool {
	return pos.InBounds() && g.cells[pos.Row][pos.Col].Empty()
}

// Tiles returns all tiles in row-major order.
func (g *Grid) Tiles() []Tile {
	tiles := make([]Tile, 0, Size*Size)
	for row := range Size {
		for col := range Size {
			if t := g.cells[row][col]; !t.Empty() {
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}

// Values returns the board as a row-major value matrix.
func (g *Grid) Values() [Size][Size]int {
	var values [Size][Size]int
	for row := range Size {
		for col := range Size {
			values[row][col] = g.cells[row][col].Value
		}
	}
	return values
}

// EmptyCells returns the positions of all empty cells in row-major order.
func (g *Grid) EmptyCells() []Position {
	var cells []Position
	for row := range Size {
		for col := range Size {
			if g.cells[row][col].Empty() {
				cells = append(cells, Position{Row: row, Col: col})
			}
		}
	}
	return cells
}

// RandomEmptyCell picks an empty cell uniformly at random.
// Returns false if the board is full.
func (g *Grid) RandomEmptyCell(rng Rand) (Position, bool) {
	cells := g.EmptyCells()
	if len(cells) == 0 {
		return Position{}, false
	}
	return cells[rng.Intn(len(cells))], true
}

// AddRandomTile inserts a 2 (or a 4 with probability spawn4) into a random
// empty cell. Returns the inserted tile, or false if the board is full.
func (g *Grid) AddRandomTile(rng Rand, spawn4 float64) (Tile, bool) {
	pos, ok := g.RandomEmptyCell(rng)
	if !ok {
		return Tile{}, false
	}

	value := 2
	if rng.Float64() < spawn4 {
		value = 4
	}

	t := NewTile(pos.Row, pos.Col, value)
	g.InsertTile(t)
	return t, true
}

// MaxTile returns the highest tile value on the board.
func (g *Grid) MaxTile() int {
	maxVal := 0
	for row := range Size {
		for col := range Size {
			if v := g.cells[row][col].Value; v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}
