package autoplay

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mc2048/internal/game"
	"github.com/vovakirdan/mc2048/internal/search"
)

// Settings describes a complete game: board rules, advisor and seed.
type Settings struct {
	Seed       int64
	Spawn4Prob float64
	Search     search.Config
}

// advisorSalt separates the advisor stream from the board stream.
const advisorSalt = 0x5DEECE66D

// NewGame builds an engine with an advisor and wraps it in a driver. Both
// random streams derive from s.Seed, so a seed replays the same game.
func NewGame(s Settings, logger *log.Logger) *Driver {
	searchCfg := s.Search
	searchCfg.Spawn4Prob = s.Spawn4Prob

	adv := search.New(searchCfg, rand.New(rand.NewSource(s.Seed^advisorSalt)), logger)
	engine := game.New(
		game.Config{Spawn4Prob: s.Spawn4Prob},
		rand.New(rand.NewSource(s.Seed)),
		adv,
	)
	return New(engine, logger)
}
