package grid

// traversals holds the row and column visiting order for a move.
type traversals struct {
	rows [Size]int
	cols [Size]int
}

// buildTraversals orders cells so those farthest along the vector come first.
func buildTraversals(v Vector) traversals {
	var t traversals
	for i := range Size {
		t.rows[i] = i
		t.cols[i] = i
		if v.Row == 1 {
			t.rows[i] = Size - 1 - i
		}
		if v.Col == 1 {
			t.cols[i] = Size - 1 - i
		}
	}
	return t
}

// findFarthest walks from pos one cell at a time until the board edge or an
// occupied cell. It returns the last empty cell reached (pos itself if the
// first step is blocked) and the blocking cell, which may be off the board.
func (g *Grid) findFarthest(pos Position, v Vector) (farthest, next Position) {
	next = pos
	for {
		farthest = next
		next = farthest.Add(v)
		if !g.CellEmpty(next) {
			return farthest, next
		}
	}
}

// Move slides every tile in the given direction, merging equal neighbours
// at most once per tile. It returns false when the direction has no legal
// effect; the board, including tile bookkeeping, is then left untouched.
func (g *Grid) Move(dir Direction) (MoveResult, bool) {
	if !g.MoveAvailable(dir) {
		return MoveResult{}, false
	}

	g.saveTiles()

	vec := dir.Vector()
	order := buildTraversals(vec)
	var res MoveResult

	for _, row := range order.rows {
		for _, col := range order.cols {
			cur := Position{Row: row, Col: col}
			tile := g.cells[row][col]
			if tile.Empty() {
				continue
			}

			farthest, next := g.findFarthest(cur, vec)

			if other, ok := g.Tile(next); ok && other.Value == tile.Value && !other.Merged {
				merged := NewTile(next.Row, next.Col, tile.Value*2)
				merged.Merged = true

				g.RemoveTile(cur)
				g.InsertTile(merged)

				res.Score += merged.Value
				res.Moved = true
				continue
			}

			if farthest != cur {
				g.RemoveTile(cur)
				tile.Row, tile.Col = farthest.Row, farthest.Col
				g.InsertTile(tile)
				res.Moved = true
			}
		}
	}

	return res, true
}

// saveTiles records each tile's position as its previous one and clears
// merge flags from the last move.
func (g *Grid) saveTiles() {
	for row := range Size {
		for col := range Size {
			if !g.cells[row][col].Empty() {
				g.cells[row][col].savePosition()
			}
		}
	}
}

// MoveAvailable reports whether moving in dir would change the board.
// It never mutates the grid.
func (g *Grid) MoveAvailable(dir Direction) bool {
	if !dir.Valid() {
		return false
	}
	return g.spaceAvailable(dir) || g.sameTileAvailable(dir)
}

// spaceAvailable reports whether any tile has an empty neighbour in dir.
func (g *Grid) spaceAvailable(dir Direction) bool {
	vec := dir.Vector()
	for row := range Size {
		for col := range Size {
			if g.cells[row][col].Empty() {
				continue
			}
			if g.CellEmpty(Position{Row: row, Col: col}.Add(vec)) {
				return true
			}
		}
	}
	return false
}

// sameTileAvailable reports whether any tile reaches an equal-valued tile
// by walking over empty cells in dir.
func (g *Grid) sameTileAvailable(dir Direction) bool {
	vec := dir.Vector()
	for row := range Size {
		for col := range Size {
			tile := g.cells[row][col]
			if tile.Empty() {
				continue
			}
			_, next := g.findFarthest(tile.Pos(), vec)
			if other, ok := g.Tile(next); ok && other.Value == tile.Value {
				return true
			}
		}
	}
	return false
}

// Dead reports whether no direction has a legal move.
func (g *Grid) Dead() bool {
	for _, dir := range Directions {
		if g.MoveAvailable(dir) {
			return false
		}
	}
	return true
}
