package grid

import (
	"math/rand"
	"testing"
)

func rowGrid(row [Size]int) *Grid {
	var values [Size][Size]int
	values[0] = row
	return FromValues(values)
}

func TestMoveLeftRow(t *testing.T) {
	tests := []struct {
		name     string
		input    [Size]int
		expected [Size]int
		score    int
		noop     bool
	}{
		{
			name:     "simple merge",
			input:    [Size]int{2, 2, 0, 0},
			expected: [Size]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "merge with trailing tile",
			input:    [Size]int{2, 2, 2, 0},
			expected: [Size]int{4, 2, 0, 0},
			score:    4,
		},
		{
			name:     "double merge",
			input:    [Size]int{2, 2, 2, 2},
			expected: [Size]int{4, 4, 0, 0},
			score:    8,
		},
		{
			name:     "merged tile does not merge again",
			input:    [Size]int{4, 4, 8, 0},
			expected: [Size]int{8, 8, 0, 0},
			score:    8,
		},
		{
			name:     "no merge possible",
			input:    [Size]int{2, 4, 8, 16},
			expected: [Size]int{2, 4, 8, 16},
			noop:     true,
		},
		{
			name:     "slide with gap",
			input:    [Size]int{0, 0, 2, 2},
			expected: [Size]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "merge across gaps",
			input:    [Size]int{2, 0, 0, 2},
			expected: [Size]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "already packed",
			input:    [Size]int{4, 2, 0, 0},
			expected: [Size]int{4, 2, 0, 0},
			noop:     true,
		},
		{
			name:     "single tile",
			input:    [Size]int{0, 4, 0, 0},
			expected: [Size]int{4, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := rowGrid(tt.input)
			res, ok := g.Move(Left)

			if ok == tt.noop {
				t.Fatalf("Move(Left) ok = %v, want %v", ok, !tt.noop)
			}
			if got := g.Values()[0]; got != tt.expected {
				t.Errorf("row after Move(Left) = %v, want %v", got, tt.expected)
			}
			if res.Score != tt.score {
				t.Errorf("score = %d, want %d", res.Score, tt.score)
			}
			if ok && !res.Moved {
				t.Error("successful move should report Moved")
			}
		})
	}
}

func TestMoveBoards(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		board    [Size][Size]int
		expected [Size][Size]int
		score    int
	}{
		{
			name: "left",
			dir:  Left,
			board: [Size][Size]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			expected: [Size][Size]int{
				{4, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 4, 0, 0},
				{2, 0, 0, 0},
			},
			score: 20,
		},
		{
			name: "right",
			dir:  Right,
			board: [Size][Size]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			expected: [Size][Size]int{
				{0, 0, 0, 4},
				{0, 0, 0, 8},
				{0, 0, 4, 4},
				{0, 0, 0, 2},
			},
			score: 20,
		},
		{
			name: "up",
			dir:  Up,
			board: [Size][Size]int{
				{2, 4, 2, 0},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 2},
			},
			expected: [Size][Size]int{
				{4, 8, 4, 2},
				{0, 0, 4, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			score: 20,
		},
		{
			name: "down",
			dir:  Down,
			board: [Size][Size]int{
				{2, 4, 2, 2},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 0},
			},
			expected: [Size][Size]int{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 4, 0},
				{4, 8, 4, 2},
			},
			score: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := FromValues(tt.board)
			res, ok := g.Move(tt.dir)
			if !ok || !res.Moved {
				t.Fatalf("Move(%v) = %+v, %v; want a successful move", tt.dir, res, ok)
			}
			if got := g.Values(); got != tt.expected {
				t.Errorf("Move(%v): got\n%v\nwant\n%v", tt.dir, got, tt.expected)
			}
			if res.Score != tt.score {
				t.Errorf("Move(%v) score = %d, want %d", tt.dir, res.Score, tt.score)
			}
		})
	}
}

func TestMoveScenarios(t *testing.T) {
	t.Run("pair merges left", func(t *testing.T) {
		g := New()
		g.InsertTile(NewTile(0, 0, 2))
		g.InsertTile(NewTile(0, 1, 2))

		res, ok := g.Move(Left)
		if !ok || !res.Moved || res.Score != 4 {
			t.Fatalf("Move(Left) = %+v, %v; want moved with score 4", res, ok)
		}
		tile, occupied := g.Tile(Position{0, 0})
		if !occupied || tile.Value != 4 {
			t.Errorf("(0,0) = %+v, want value 4", tile)
		}
		if len(g.Tiles()) != 1 {
			t.Errorf("tile count = %d, want 1", len(g.Tiles()))
		}
	})

	t.Run("blocked slide right", func(t *testing.T) {
		g := New()
		g.InsertTile(NewTile(0, 0, 2))
		g.InsertTile(NewTile(0, 3, 4))

		res, ok := g.Move(Right)
		if !ok || !res.Moved || res.Score != 0 {
			t.Fatalf("Move(Right) = %+v, %v; want moved with score 0", res, ok)
		}
		want := [Size]int{0, 0, 2, 4}
		if got := g.Values()[0]; got != want {
			t.Errorf("row 0 = %v, want %v", got, want)
		}
	})
}

func TestMoveBookkeeping(t *testing.T) {
	g := rowGrid([Size]int{2, 2, 8, 0})
	g.InsertTile(NewTile(3, 3, 8))

	if _, ok := g.Move(Left); !ok {
		t.Fatal("Move(Left) should succeed")
	}

	merged, _ := g.Tile(Position{0, 0})
	if !merged.Merged || merged.HasPrevious {
		t.Errorf("merged tile bookkeeping = %+v, want Merged and no previous", merged)
	}

	slid, _ := g.Tile(Position{0, 1})
	if slid.Value != 8 || !slid.HasPrevious || slid.Previous != (Position{0, 2}) {
		t.Errorf("slid tile = %+v, want value 8 from (0,2)", slid)
	}

	moved, _ := g.Tile(Position{3, 0})
	if !moved.HasPrevious || moved.Previous != (Position{3, 3}) {
		t.Errorf("moved tile = %+v, want previous (3,3)", moved)
	}

	// A no-op leaves bookkeeping from the last move in place.
	before := *g
	if _, ok := g.Move(Left); ok {
		t.Fatal("second Move(Left) should be a no-op")
	}
	if *g != before {
		t.Error("no-op move mutated the grid")
	}
}

func TestDeadBoard(t *testing.T) {
	g := FromValues([Size][Size]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})

	for _, dir := range Directions {
		if g.MoveAvailable(dir) {
			t.Errorf("MoveAvailable(%v) = true on a locked board", dir)
		}
	}
	if !g.Dead() {
		t.Error("Dead() = false on a locked board")
	}

	g.RemoveTile(Position{1, 1})
	if g.Dead() {
		t.Error("Dead() = true with an empty cell")
	}
}

func TestFullBoardWithMergeIsAlive(t *testing.T) {
	g := FromValues([Size][Size]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 8, 8},
	})

	if g.Dead() {
		t.Fatal("Dead() = true, but (3,2) and (3,3) can merge")
	}
	if g.MoveAvailable(Up) || g.MoveAvailable(Down) {
		t.Error("vertical moves should be unavailable")
	}
	if !g.MoveAvailable(Left) || !g.MoveAvailable(Right) {
		t.Error("horizontal moves should be available")
	}
}

func TestInvalidDirection(t *testing.T) {
	g := rowGrid([Size]int{2, 2, 0, 0})
	if g.MoveAvailable(Direction(7)) {
		t.Error("MoveAvailable accepted an invalid direction")
	}
	if _, ok := g.Move(Direction(-1)); ok {
		t.Error("Move accepted an invalid direction")
	}
}

func TestCloneIndependence(t *testing.T) {
	g := FromValues([Size][Size]int{
		{2, 2, 0, 0},
		{0, 4, 0, 4},
		{0, 0, 0, 0},
		{8, 0, 0, 8},
	})
	original := g.Values()

	c := g.Clone()
	c.Move(Left)
	c.AddRandomTile(rand.New(rand.NewSource(1)), DefaultSpawn4Prob)
	c.RemoveTile(Position{3, 0})

	if got := g.Values(); got != original {
		t.Errorf("original changed after mutating clone:\n%v\nwant\n%v", got, original)
	}
}

// slideRowRef is a write-pointer reference implementation of a left slide.
func slideRowRef(row [Size]int) (result [Size]int, score int) {
	writePos := 0
	lastMerged := -1
	for i := range Size {
		if row[i] == 0 {
			continue
		}
		if writePos > 0 && result[writePos-1] == row[i] && lastMerged != writePos-1 {
			result[writePos-1] *= 2
			score += result[writePos-1]
			lastMerged = writePos - 1
		} else {
			result[writePos] = row[i]
			writePos++
		}
	}
	return result, score
}

// moveRef applies slideRowRef along dir by reading each line toward the wall.
func moveRef(values [Size][Size]int, dir Direction) ([Size][Size]int, int) {
	var out [Size][Size]int
	total := 0
	for line := range Size {
		var cells [Size]Position
		for i := range Size {
			switch dir {
			case Left:
				cells[i] = Position{line, i}
			case Right:
				cells[i] = Position{line, Size - 1 - i}
			case Up:
				cells[i] = Position{i, line}
			case Down:
				cells[i] = Position{Size - 1 - i, line}
			}
		}
		var row [Size]int
		for i, p := range cells {
			row[i] = values[p.Row][p.Col]
		}
		slid, score := slideRowRef(row)
		total += score
		for i, p := range cells {
			out[p.Row][p.Col] = slid[i]
		}
	}
	return out, total
}

func randomBoard(rng *rand.Rand) *Grid {
	choices := []int{0, 0, 0, 2, 2, 4, 4, 8, 16}
	var values [Size][Size]int
	for row := range Size {
		for col := range Size {
			values[row][col] = choices[rng.Intn(len(choices))]
		}
	}
	return FromValues(values)
}

func TestMoveMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		g := randomBoard(rng)
		for _, dir := range Directions {
			c := g.Clone()
			before := c.Values()
			wantValues, wantScore := moveRef(before, dir)

			available := c.MoveAvailable(dir)
			res, ok := c.Move(dir)

			if available != ok {
				t.Fatalf("board %s dir %v: MoveAvailable = %v but Move ok = %v", g.Notation(), dir, available, ok)
			}
			if !ok {
				if wantValues != before {
					t.Fatalf("board %s dir %v: no-op but reference changes the board", g.Notation(), dir)
				}
				if c.Values() != before {
					t.Fatalf("board %s dir %v: no-op mutated the board", g.Notation(), dir)
				}
				continue
			}

			if !res.Moved {
				t.Fatalf("board %s dir %v: ok but not moved", g.Notation(), dir)
			}
			if got := c.Values(); got != wantValues {
				t.Fatalf("board %s dir %v: got %v want %v", g.Notation(), dir, got, wantValues)
			}
			if res.Score != wantScore {
				t.Fatalf("board %s dir %v: score %d want %d", g.Notation(), dir, res.Score, wantScore)
			}

			mergedSum := 0
			for _, tile := range c.Tiles() {
				if tile.Merged {
					mergedSum += tile.Value
				}
			}
			if mergedSum != res.Score {
				t.Fatalf("board %s dir %v: merged tiles sum %d, score %d", g.Notation(), dir, mergedSum, res.Score)
			}
		}
	}
}

func TestTilePositionsMatchSlots(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := New()
	g.AddRandomTile(rng, DefaultSpawn4Prob)
	g.AddRandomTile(rng, DefaultSpawn4Prob)

	for !g.Dead() {
		if _, ok := g.Move(Directions[rng.Intn(4)]); ok {
			g.AddRandomTile(rng, DefaultSpawn4Prob)
		}
		for row := range Size {
			for col := range Size {
				if tile, ok := g.Tile(Position{row, col}); ok && (tile.Row != row || tile.Col != col) {
					t.Fatalf("tile %+v stored at (%d,%d)", tile, row, col)
				}
			}
		}
	}
}

func TestAddRandomTileDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(2048))
	const n = 20000
	fours := 0

	for i := 0; i < n; i++ {
		g := New()
		tile, ok := g.AddRandomTile(rng, DefaultSpawn4Prob)
		if !ok {
			t.Fatal("AddRandomTile failed on empty board")
		}
		switch tile.Value {
		case 4:
			fours++
		case 2:
		default:
			t.Fatalf("unexpected tile value %d", tile.Value)
		}
	}

	freq := float64(fours) / n
	if freq < 0.08 || freq > 0.12 {
		t.Errorf("4-tile frequency = %.3f, want about 0.10", freq)
	}
}

func TestAddRandomTileFullBoard(t *testing.T) {
	g := FromValues([Size][Size]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	if _, ok := g.AddRandomTile(rand.New(rand.NewSource(1)), DefaultSpawn4Prob); ok {
		t.Error("AddRandomTile succeeded on a full board")
	}
}

func TestParseNotation(t *testing.T) {
	g, err := Parse("2,2,.,./0,0,0,0/0,4,0,0/0,0,0,2048")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if got, want := g.Notation(), "2,2,0,0/0,0,0,0/0,4,0,0/0,0,0,2048"; got != want {
		t.Errorf("Notation() = %q, want %q", got, want)
	}
	if g.MaxTile() != 2048 {
		t.Errorf("MaxTile() = %d, want 2048", g.MaxTile())
	}

	bad := []string{
		"2,2,0,0/0,0,0,0/0,0,0,0",
		"2,2,0/0,0,0,0/0,0,0,0/0,0,0,0",
		"3,0,0,0/0,0,0,0/0,0,0,0/0,0,0,0",
		"x,0,0,0/0,0,0,0/0,0,0,0/0,0,0,0",
	}
	for _, s := range bad {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", s)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, dir := range Directions {
		got, err := ParseDirection(dir.String())
		if err != nil || got != dir {
			t.Errorf("ParseDirection(%q) = %v, %v", dir.String(), got, err)
		}
	}
	if _, err := ParseDirection("diagonal"); err == nil {
		t.Error("ParseDirection accepted an unknown name")
	}
}
