// Package irt implements a three-parameter logistic item response model for
// one learner: a scalar ability estimate refined by Newton-Raphson steps and
// per-concept item parameters with a lightweight recalibration heuristic.
package irt

import (
	"math"

	"github.com/example/learnengine/pkg/models"
)

// Default item parameters for a concept with no calibration history
const (
	DefaultDiscrimination = 1.0
	DefaultDifficulty     = 0.0
	DefaultGuessing       = 0.2
)

// minInformation floors the Fisher information in the ability update so a
// near-flat likelihood cannot blow up the Newton step
const minInformation = 0.01

// responseLogCap bounds the stored response history used by parameter
// recalibration
const responseLogCap = 500

type response struct {
	ConceptID string  `json:"concept_id"`
	Correct   bool    `json:"correct"`
	Theta     float64 `json:"theta"` // ability at response time
}

// Model is the per-learner IRT state. Item parameters are learner-scoped;
// they are recalibrated from this learner's own response history and
// serialize inside the learner profile.
type Model struct {
	theta     float64
	responses []response
	// responses observed before the last restore; the log itself is not
	// persisted but the running total is
	priorResponses int
	items          map[string]*models.ItemParameters
}

// NewModel creates a model with ability zero and no item history
func NewModel() *Model {
	return &Model{items: make(map[string]*models.ItemParameters)}
}

// Theta returns the current ability estimate
func (m *Model) Theta() float64 {
	return m.theta
}

func (m *Model) item(conceptID string) *models.ItemParameters {
	it, ok := m.items[conceptID]
	if !ok {
		it = &models.ItemParameters{
			ConceptID:      conceptID,
			Discrimination: DefaultDiscrimination,
			Difficulty:     DefaultDifficulty,
			Guessing:       DefaultGuessing,
		}
		m.items[conceptID] = it
	}
	return it
}

// Item returns the current parameters for a concept, initializing defaults
// on first access
func (m *Model) Item(conceptID string) models.ItemParameters {
	return *m.item(conceptID)
}

// Probability returns the 3PL probability of a correct response:
//
//	P = c + (1-c) / (1 + e^(-a(theta-b)))
func (m *Model) Probability(conceptID string) float64 {
	it := m.item(conceptID)
	return probability(m.theta, it)
}

func probability(theta float64, it *models.ItemParameters) float64 {
	return it.Guessing + (1-it.Guessing)/(1+math.Exp(-it.Discrimination*(theta-it.Difficulty)))
}

// Information returns the Fisher information of a concept's item at the
// learner's current ability
func (m *Model) Information(conceptID string) float64 {
	it := m.item(conceptID)
	return information(m.theta, it)
}

func information(theta float64, it *models.ItemParameters) float64 {
	p := probability(theta, it)
	a, c := it.Discrimination, it.Guessing
	den := p*(1-c) + c
	if den <= 0 {
		return 0
	}
	return a * a * (1 - c) * (1 - c) * p * (1 - p) / (den * den)
}

// UpdateAbility applies one Newton-Raphson step to the ability estimate from
// a single observed response and records the response for recalibration.
// Returns the new theta.
func (m *Model) UpdateAbility(conceptID string, correct bool) float64 {
	it := m.item(conceptID)
	p := probability(m.theta, it)
	a, c := it.Discrimination, it.Guessing

	y := 0.0
	if correct {
		y = 1
	}

	den := p*(1-c) + c
	score := 0.0
	if den > 0 {
		score = a * (1 - c) * (y - p) / den
	}
	info := information(m.theta, it)
	m.theta += score / math.Max(info, minInformation)

	it.Count++
	if correct {
		it.Correct++
	}
	m.responses = append(m.responses, response{ConceptID: conceptID, Correct: correct, Theta: m.theta})
	if len(m.responses) > responseLogCap {
		m.responses = m.responses[len(m.responses)-responseLogCap:]
	}
	return m.theta
}

// SelectNextItem returns the candidate concept whose item carries maximum
// information at the current ability: the uncertainty-sampling choice that
// will most precisely refine the estimate. Returns "" for no candidates.
func (m *Model) SelectNextItem(candidates []string) string {
	best := ""
	bestInfo := math.Inf(-1)
	for _, id := range candidates {
		if info := m.Information(id); info > bestInfo {
			best, bestInfo = id, info
		}
	}
	return best
}

// EstimateParameters recalibrates a concept's difficulty from its aggregate
// correctness and its discrimination from the spread of abilities seen in the
// response history. This is a cheap moment-matching heuristic, not
// maximum-likelihood fitting; it needs a handful of observations before it
// moves anything.
func (m *Model) EstimateParameters(conceptID string) models.ItemParameters {
	it := m.item(conceptID)
	if it.Count < 5 {
		return *it
	}

	rate := float64(it.Correct) / float64(it.Count)
	// Strip the guessing floor, then invert the logistic around the mean
	// ability observed for this concept.
	adjusted := (rate - it.Guessing) / (1 - it.Guessing)
	adjusted = math.Max(0.05, math.Min(0.95, adjusted))

	meanTheta, variance := m.abilityMoments(conceptID)
	it.Difficulty = meanTheta - math.Log(adjusted/(1-adjusted))

	// Tight ability spread among responders implies a sharply discriminating
	// item; wide spread implies a flat one.
	it.Discrimination = math.Max(0.5, math.Min(2.5, 1/math.Sqrt(math.Max(variance, 0.16))))
	return *it
}

// abilityMoments returns the mean and variance of recorded abilities for a
// concept, with zero-variance guarded by the caller's floor
func (m *Model) abilityMoments(conceptID string) (mean, variance float64) {
	var thetas []float64
	for _, r := range m.responses {
		if r.ConceptID == conceptID {
			thetas = append(thetas, r.Theta)
		}
	}
	if len(thetas) == 0 {
		return m.theta, 0
	}
	for _, v := range thetas {
		mean += v
	}
	mean /= float64(len(thetas))
	for _, v := range thetas {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(thetas))
	return mean, variance
}

// Export snapshots ability and item parameters for persistence
func (m *Model) Export() (models.AbilityEstimate, map[string]*models.ItemParameters) {
	items := make(map[string]*models.ItemParameters, len(m.items))
	for id, it := range m.items {
		copied := *it
		items[id] = &copied
	}
	return models.AbilityEstimate{Theta: m.theta, Responses: m.priorResponses + len(m.responses)}, items
}

// Restore applies persisted ability and item parameters
func (m *Model) Restore(ability models.AbilityEstimate, items map[string]*models.ItemParameters) {
	m.theta = ability.Theta
	m.priorResponses = ability.Responses
	m.responses = nil
	m.items = make(map[string]*models.ItemParameters, len(items))
	for id, it := range items {
		if it == nil {
			continue
		}
		copied := *it
		m.items[id] = &copied
	}
}
