// Package transfer estimates how mastery of related concepts carries over to
// a target concept, and uses that benefit to order candidate lessons.
package transfer

import (
	"math"
	"sort"

	"github.com/example/learnengine/internal/graph"
)

// Transfer weights by relation kind
const (
	PrerequisiteWeight = 0.3
	DependentWeight    = 0.5
	SiblingWeight      = 0.2
)

// Estimator computes transfer benefits over a knowledge graph
type Estimator struct {
	g *graph.KnowledgeGraph
}

// NewEstimator creates an estimator bound to a graph
func NewEstimator(g *graph.KnowledgeGraph) *Estimator {
	return &Estimator{g: g}
}

// TransferBenefit sums mastery-weighted transfer from the concept's
// prerequisites, dependents and same-category siblings, capped at 1.0.
// Unknown ids return 0.
func (e *Estimator) TransferBenefit(conceptID string) float64 {
	c := e.g.Concept(conceptID)
	if c == nil {
		return 0
	}

	benefit := 0.0
	seen := map[string]bool{conceptID: true}

	for _, id := range c.Prerequisites {
		if pre := e.g.Concept(id); pre != nil && !seen[id] {
			benefit += pre.Mastery / 100 * PrerequisiteWeight
			seen[id] = true
		}
	}
	for _, id := range e.g.Dependents(conceptID) {
		if dep := e.g.Concept(id); dep != nil && !seen[id] {
			benefit += dep.Mastery / 100 * DependentWeight
			seen[id] = true
		}
	}
	for _, sib := range e.g.Concepts() {
		if sib.Category == c.Category && !seen[sib.ID] {
			benefit += sib.Mastery / 100 * SiblingWeight
			seen[sib.ID] = true
		}
	}

	return math.Min(1.0, benefit)
}

// EffectiveDifficulty discounts a concept's difficulty by its transfer
// benefit: a fully transferred concept feels half as hard
func (e *Estimator) EffectiveDifficulty(conceptID string) float64 {
	c := e.g.Concept(conceptID)
	if c == nil {
		return 0
	}
	return math.Max(0.05, c.Difficulty*(1-0.5*e.TransferBenefit(conceptID)))
}

// RecommendLearningOrder ranks candidate ids by transfer benefit divided by
// difficulty, descending: cheap wins with heavy transfer come first
func (e *Estimator) RecommendLearningOrder(candidates []string) []string {
	type scored struct {
		id    string
		score float64
	}
	var ranked []scored
	for _, id := range candidates {
		c := e.g.Concept(id)
		if c == nil {
			continue
		}
		ranked = append(ranked, scored{
			id:    id,
			score: e.TransferBenefit(id) / math.Max(0.1, c.Difficulty),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.id
	}
	return out
}
