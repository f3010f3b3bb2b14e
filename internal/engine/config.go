package engine

import (
	"github.com/example/learnengine/internal/bkt"
)

// Bandit policy names accepted by Config.Policy
const (
	PolicyThompson = "thompson"
	PolicyUCB1     = "ucb1"
)

// DefaultFormats are the content-format arms used when none are configured
var DefaultFormats = []string{"video", "reading", "interactive", "quiz", "flashcards"}

// DefaultMasteredThreshold is the graph mastery at which a concept stops
// being recommended as new material
const DefaultMasteredThreshold = 80.0

// Config tunes a LearningEngine. Zero values fall back to the documented
// defaults, so Config{} is a valid configuration.
type Config struct {
	// BKT parameters; zero fields use bkt.DefaultConfig
	BKT bkt.Config
	// Content-format arms for the bandits; nil uses DefaultFormats
	Formats []string
	// Bandit policy driving format selection; "" uses Thompson Sampling
	Policy string
	// Mastery (0-100) at which a concept counts as mastered for lesson
	// selection; zero uses DefaultMasteredThreshold
	MasteredThreshold float64
	// Seed for the engine's random source; zero derives one from the clock.
	// Fix it in tests for reproducible Thompson draws.
	Seed int64
}

func (c Config) withDefaults() Config {
	if c.Formats == nil {
		c.Formats = DefaultFormats
	}
	if c.Policy == "" {
		c.Policy = PolicyThompson
	}
	if c.MasteredThreshold <= 0 {
		c.MasteredThreshold = DefaultMasteredThreshold
	}
	return c
}
