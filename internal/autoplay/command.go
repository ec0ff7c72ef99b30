// Package autoplay drives a game engine from discrete commands and runs the
// advisor-controlled auto-play loop.
package autoplay

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/mc2048/internal/grid"
)

// Command is a single user or automation request.
type Command int

const (
	CmdNone Command = iota
	CmdUp
	CmdRight
	CmdDown
	CmdLeft
	CmdRestart
	CmdStep  // Apply one advised move
	CmdRun   // Start auto-play
	CmdPause // Stop auto-play after the current move
)

var commandNames = map[Command]string{
	CmdNone:    "none",
	CmdUp:      "up",
	CmdRight:   "right",
	CmdDown:    "down",
	CmdLeft:    "left",
	CmdRestart: "restart",
	CmdStep:    "step",
	CmdRun:     "run",
	CmdPause:   "pause",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Direction returns the move a directional command stands for.
func (c Command) Direction() (grid.Direction, bool) {
	switch c {
	case CmdUp:
		return grid.Up, true
	case CmdRight:
		return grid.Right, true
	case CmdDown:
		return grid.Down, true
	case CmdLeft:
		return grid.Left, true
	}
	return 0, false
}

// ParseCommand resolves a command by name.
func ParseCommand(s string) (Command, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range commandNames {
		if n == name && c != CmdNone {
			return c, nil
		}
	}
	return CmdNone, fmt.Errorf("autoplay: unknown command %q", s)
}
