package cogload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntrinsicLoadScalesWithElements(t *testing.T) {
	e := NewEstimator()
	small := e.Estimate(1, 0.5, 1.0, Presentation{})
	large := e.Estimate(6, 0.5, 1.0, Presentation{})
	assert.Greater(t, large.Intrinsic, small.Intrinsic)

	// Element interactivity saturates at working-memory capacity.
	at := e.Estimate(7, 0.5, 1.0, Presentation{})
	beyond := e.Estimate(20, 0.5, 1.0, Presentation{})
	assert.Equal(t, at.Intrinsic, beyond.Intrinsic)
}

func TestExtraneousPenaltiesAdd(t *testing.T) {
	e := NewEstimator()
	clean := e.Estimate(3, 0.5, 0.5, Presentation{})
	assert.Zero(t, clean.Extraneous)

	messy := e.Estimate(3, 0.5, 0.5, Presentation{
		SplitAttention:   true,
		Redundancy:       true,
		SingleModality:   true,
		IrrelevantDetail: true,
	})
	assert.InDelta(t, 0.45, messy.Extraneous, 1e-12)
}

func TestGermaneFromNoveltyAndDesign(t *testing.T) {
	e := NewEstimator()
	novel := e.Estimate(3, 0.5, 0.0, Presentation{BuildsConnections: true, WellStructured: true})
	assert.InDelta(t, 0.8, novel.Germane, 1e-12)

	familiar := e.Estimate(3, 0.5, 1.0, Presentation{})
	assert.Zero(t, familiar.Germane)
}

func TestAssessBands(t *testing.T) {
	e := NewEstimator()
	assert.Equal(t, "overloaded", e.Assess(Load{Intrinsic: 0.6, Extraneous: 0.45, Germane: 0.3}).Status)
	assert.Equal(t, "underloaded", e.Assess(Load{Intrinsic: 0.1, Germane: 0.1}).Status)
	assert.Equal(t, "optimal", e.Assess(Load{Intrinsic: 0.4, Germane: 0.3}).Status)
	assert.Equal(t, "acceptable", e.Assess(Load{Intrinsic: 0.2, Germane: 0.2}).Status)
}

func TestWorkedExampleRatioExpertiseReversal(t *testing.T) {
	e := NewEstimator()
	novice := e.WorkedExampleRatio(0.1, 0.8)
	expert := e.WorkedExampleRatio(0.9, 0.8)
	assert.Greater(t, novice, expert)
	assert.GreaterOrEqual(t, expert, 0.0)
	assert.LessOrEqual(t, novice, 1.0)
}
