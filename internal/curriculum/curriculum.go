// Package curriculum defines and loads concept curricula. A curriculum is
// authored once and handed to the engine at startup; the graph built from it
// is acyclic by authoring convention.
package curriculum

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Concept is one authored curriculum entry
type Concept struct {
	ID              string   `yaml:"id" json:"id"`
	Category        string   `yaml:"category" json:"category"`
	Prerequisites   []string `yaml:"prerequisites" json:"prerequisites"`
	Difficulty      float64  `yaml:"difficulty" json:"difficulty"` // 0.0-1.0
	DurationMinutes int      `yaml:"duration_minutes" json:"duration_minutes"`
}

// Curriculum is an ordered list of concepts; order fixes the mastery-vector
// layout shared by every learner
type Curriculum struct {
	Name     string    `yaml:"name" json:"name"`
	Concepts []Concept `yaml:"concepts" json:"concepts"`
}

// LoadFile reads a YAML curriculum file and validates it
func LoadFile(path string) (*Curriculum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curriculum file: %v", err)
	}
	var c Curriculum
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse curriculum file: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks for duplicate ids, dangling prerequisite references and
// out-of-range difficulties
func (c *Curriculum) Validate() error {
	if len(c.Concepts) == 0 {
		return fmt.Errorf("curriculum has no concepts")
	}
	ids := make(map[string]bool, len(c.Concepts))
	for _, concept := range c.Concepts {
		if concept.ID == "" {
			return fmt.Errorf("curriculum concept with empty id")
		}
		if ids[concept.ID] {
			return fmt.Errorf("duplicate concept id %q", concept.ID)
		}
		ids[concept.ID] = true
		if concept.Difficulty < 0 || concept.Difficulty > 1 {
			return fmt.Errorf("concept %q difficulty %v out of range [0,1]", concept.ID, concept.Difficulty)
		}
	}
	for _, concept := range c.Concepts {
		for _, pre := range concept.Prerequisites {
			if !ids[pre] {
				return fmt.Errorf("concept %q references unknown prerequisite %q", concept.ID, pre)
			}
		}
	}
	return nil
}

// Default returns the built-in trading-education curriculum, used when no
// curriculum file is configured and as the recovery fallback for a corrupt
// profile store.
func Default() *Curriculum {
	return &Curriculum{
		Name: "trading-foundations",
		Concepts: []Concept{
			{ID: "markets", Category: "basics", Difficulty: 0.10, DurationMinutes: 20},
			{ID: "assets", Category: "basics", Difficulty: 0.15, DurationMinutes: 20},
			{ID: "orders", Category: "basics", Prerequisites: []string{"markets"}, Difficulty: 0.20, DurationMinutes: 25},
			{ID: "charts", Category: "technical", Prerequisites: []string{"markets"}, Difficulty: 0.30, DurationMinutes: 25},
			{ID: "trends", Category: "technical", Prerequisites: []string{"charts"}, Difficulty: 0.40, DurationMinutes: 30},
			{ID: "support-resistance", Category: "technical", Prerequisites: []string{"charts"}, Difficulty: 0.45, DurationMinutes: 30},
			{ID: "indicators", Category: "technical", Prerequisites: []string{"trends"}, Difficulty: 0.60, DurationMinutes: 35},
			{ID: "chart-patterns", Category: "technical", Prerequisites: []string{"trends", "support-resistance"}, Difficulty: 0.65, DurationMinutes: 35},
			{ID: "position-sizing", Category: "risk", Prerequisites: []string{"orders"}, Difficulty: 0.50, DurationMinutes: 30},
			{ID: "stop-losses", Category: "risk", Prerequisites: []string{"orders", "support-resistance"}, Difficulty: 0.55, DurationMinutes: 30},
			{ID: "portfolio-theory", Category: "risk", Prerequisites: []string{"position-sizing"}, Difficulty: 0.75, DurationMinutes: 40},
			{ID: "trading-psychology", Category: "psychology", Prerequisites: []string{"position-sizing"}, Difficulty: 0.70, DurationMinutes: 35},
			{ID: "backtesting", Category: "strategy", Prerequisites: []string{"indicators", "portfolio-theory"}, Difficulty: 0.85, DurationMinutes: 45},
		},
	}
}
