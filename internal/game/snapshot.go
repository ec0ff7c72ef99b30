package game

import "github.com/vovakirdan/mc2048/internal/grid"

// TileView is a read-only description of one tile for renderers.
type TileView struct {
	Row   int
	Col   int
	Value int

	IsNew    bool           // Inserted after the last move (or at game start)
	Merged   bool           // Produced by a merge in the last move
	Previous *grid.Position // Where the tile was before the last move, if it existed
}

// Snapshot captures everything a renderer needs. It shares no memory with
// the engine.
type Snapshot struct {
	ID        string
	Tiles     []TileView
	Score     int
	LastDelta int
	Moves     int
	MaxTile   int
	Died      bool
	Won       bool
	State     State
}

// Snapshot returns the current game snapshot.
func (e *Engine) Snapshot() Snapshot {
	tiles := e.grid.Tiles()
	views := make([]TileView, 0, len(tiles))

	for _, t := range tiles {
		v := TileView{
			Row:    t.Row,
			Col:    t.Col,
			Value:  t.Value,
			Merged: t.Merged,
			IsNew:  !t.HasPrevious && !t.Merged,
		}
		if t.HasPrevious {
			prev := t.Previous
			v.Previous = &prev
		}
		views = append(views, v)
	}

	return Snapshot{
		ID:        e.id,
		Tiles:     views,
		Score:     e.score,
		LastDelta: e.lastDelta,
		Moves:     e.moves,
		MaxTile:   e.grid.MaxTile(),
		Died:      e.died,
		Won:       e.won,
		State:     e.State(),
	}
}

// Board returns the snapshot as a row-major value matrix.
func (s Snapshot) Board() [grid.Size][grid.Size]int {
	var b [grid.Size][grid.Size]int
	for _, t := range s.Tiles {
		b[t.Row][t.Col] = t.Value
	}
	return b
}
