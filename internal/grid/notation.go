package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a board written as rows separated by '/' and cells by ','.
// Empty cells are written as 0 or '.'. Example: "2,2,.,./.,.,.,./0,0,0,0/4,0,0,0".
func Parse(s string) (*Grid, error) {
	rows := strings.Split(strings.TrimSpace(s), "/")
	if len(rows) != Size {
		return nil, fmt.Errorf("grid: expected %d rows, got %d", Size, len(rows))
	}

	var values [Size][Size]int
	for r, line := range rows {
		cells := strings.Split(line, ",")
		if len(cells) != Size {
			return nil, fmt.Errorf("grid: row %d: expected %d cells, got %d", r, Size, len(cells))
		}
		for c, cell := range cells {
			cell = strings.TrimSpace(cell)
			if cell == "." || cell == "" {
				continue
			}
			v, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("grid: row %d col %d: %w", r, c, err)
			}
			if v != 0 && (v < 2 || v&(v-1) != 0) {
				return nil, fmt.Errorf("grid: row %d col %d: %d is not a power of two", r, c, v)
			}
			values[r][c] = v
		}
	}

	return FromValues(values), nil
}

// Notation returns the board in the form accepted by Parse.
func (g *Grid) Notation() string {
	var b strings.Builder
	for row := range Size {
		if row > 0 {
			b.WriteByte('/')
		}
		for col := range Size {
			if col > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(g.cells[row][col].Value))
		}
	}
	return b.String()
}

// String renders the board as a right-aligned text table.
func (g *Grid) String() string {
	var b strings.Builder
	for row := range Size {
		for col := range Size {
			if v := g.cells[row][col].Value; v == 0 {
				fmt.Fprintf(&b, "%6s", ".")
			} else {
				fmt.Fprintf(&b, "%6d", v)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
