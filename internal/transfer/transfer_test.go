package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/learnengine/internal/graph"
)

func buildGraph() *graph.KnowledgeGraph {
	g := graph.New()
	g.AddConcept("charts", "technical", nil, 0.3, 20)
	g.AddConcept("trends", "technical", []string{"charts"}, 0.4, 25)
	g.AddConcept("indicators", "technical", []string{"trends"}, 0.6, 30)
	g.AddConcept("position-sizing", "risk", nil, 0.5, 20)
	return g
}

func practiceToMastery(g *graph.KnowledgeGraph, id string) {
	for i := 0; i < 20; i++ {
		g.RecordPractice(id, true)
	}
}

func TestTransferBenefitFromPrerequisite(t *testing.T) {
	g := buildGraph()
	e := NewEstimator(g)

	base := e.TransferBenefit("trends")
	practiceToMastery(g, "charts")
	assert.Greater(t, e.TransferBenefit("trends"), base)
}

func TestTransferBenefitCapped(t *testing.T) {
	g := buildGraph()
	e := NewEstimator(g)
	for _, id := range []string{"charts", "trends", "indicators", "position-sizing"} {
		practiceToMastery(g, id)
	}
	for _, id := range []string{"charts", "trends", "indicators"} {
		b := e.TransferBenefit(id)
		assert.LessOrEqual(t, b, 1.0)
		assert.Greater(t, b, 0.0)
	}
}

func TestUnknownConceptHasNoBenefit(t *testing.T) {
	e := NewEstimator(buildGraph())
	assert.Zero(t, e.TransferBenefit("nope"))
	assert.Zero(t, e.EffectiveDifficulty("nope"))
}

func TestEffectiveDifficultyDiscount(t *testing.T) {
	g := buildGraph()
	e := NewEstimator(g)

	raw := g.Concept("trends").Difficulty
	before := e.EffectiveDifficulty("trends")
	practiceToMastery(g, "charts")
	after := e.EffectiveDifficulty("trends")

	assert.LessOrEqual(t, before, raw)
	assert.Less(t, after, before)
	assert.GreaterOrEqual(t, after, 0.05)
}

func TestRecommendLearningOrder(t *testing.T) {
	g := buildGraph()
	e := NewEstimator(g)
	practiceToMastery(g, "charts")

	// "trends" gains prerequisite plus sibling transfer and is easier than
	// "indicators"; "position-sizing" has no mastered relatives.
	order := e.RecommendLearningOrder([]string{"position-sizing", "indicators", "trends"})
	assert.Equal(t, "trends", order[0])
	assert.Equal(t, "position-sizing", order[len(order)-1])
}
