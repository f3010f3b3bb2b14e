// Package cogload scores candidate activities against Sweller's cognitive
// load taxonomy: intrinsic load from element interactivity, extraneous load
// from presentation defects, germane load from schema building.
package cogload

import "math"

// WorkingMemoryCapacity is the element-interactivity normalizer
const WorkingMemoryCapacity = 7.0

// Assessment thresholds on total load
const (
	OverloadThreshold   = 1.0
	UnderloadThreshold  = 0.3
	OptimalLowerBound   = 0.5
	OptimalUpperBound   = 0.9
)

// Presentation flags the quality of a candidate activity's presentation.
// Each defect adds a fixed extraneous penalty; the two positive flags add
// germane bonuses.
type Presentation struct {
	SplitAttention   bool
	Redundancy       bool
	SingleModality   bool
	IrrelevantDetail bool

	BuildsConnections bool
	WellStructured    bool
}

// Load is the additive three-component score of one activity
type Load struct {
	Intrinsic  float64
	Extraneous float64
	Germane    float64
}

// Total returns the combined load
func (l Load) Total() float64 {
	return l.Intrinsic + l.Extraneous + l.Germane
}

// Estimator computes activity load scores
type Estimator struct{}

// NewEstimator creates an estimator
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Estimate scores an activity. interactingElements is the count of
// prerequisites plus related concepts the activity touches; difficulty is the
// concept's 0-1 difficulty; familiarity is the learner's 0-1 familiarity with
// the concept.
func (e *Estimator) Estimate(interactingElements int, difficulty, familiarity float64, pres Presentation) Load {
	difficulty = clamp01(difficulty)
	familiarity = clamp01(familiarity)

	elements := math.Min(1.0, float64(interactingElements)/WorkingMemoryCapacity)
	intrinsic := elements * (0.5 + 0.5*difficulty)

	extraneous := 0.0
	if pres.SplitAttention {
		extraneous += 0.15
	}
	if pres.Redundancy {
		extraneous += 0.10
	}
	if pres.SingleModality {
		extraneous += 0.10
	}
	if pres.IrrelevantDetail {
		extraneous += 0.10
	}

	germane := (1 - familiarity) * 0.5
	if pres.BuildsConnections {
		germane += 0.2
	}
	if pres.WellStructured {
		germane += 0.1
	}

	return Load{Intrinsic: intrinsic, Extraneous: extraneous, Germane: germane}
}

// Assessment labels a total load and suggests an adjustment
type Assessment struct {
	Status         string
	Recommendation string
}

// Assess classifies the total load
func (e *Estimator) Assess(l Load) Assessment {
	total := l.Total()
	switch {
	case total > OverloadThreshold:
		return Assessment{Status: "overloaded", Recommendation: "chunk the material or simplify the presentation"}
	case total < UnderloadThreshold:
		return Assessment{Status: "underloaded", Recommendation: "add germane activities such as self-explanation"}
	case total >= OptimalLowerBound && total <= OptimalUpperBound:
		return Assessment{Status: "optimal", Recommendation: "keep the current activity design"}
	default:
		return Assessment{Status: "acceptable", Recommendation: "no change required"}
	}
}

// WorkedExampleRatio recommends the fraction of worked examples versus
// problem solving for a learner. Novices on hard material get mostly worked
// examples; experts get mostly problems (the expertise-reversal effect).
func (e *Estimator) WorkedExampleRatio(expertise, difficulty float64) float64 {
	expertise = clamp01(expertise)
	difficulty = clamp01(difficulty)
	return clamp01((1-expertise)*0.6 + difficulty*0.4)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
