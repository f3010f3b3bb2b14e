// Package bkt implements Bayesian Knowledge Tracing: a two-state hidden
// Markov filter estimating the probability a learner has mastered a concept
// from a sequence of correct/incorrect observations.
package bkt

import (
	"math"

	"github.com/example/learnengine/pkg/models"
)

// MasteryThreshold is the P(learned) above which a concept counts as mastered
const MasteryThreshold = 0.95

// ConfidenceThreshold is the P(learned) above which a learner is confident
const ConfidenceThreshold = 0.80

// Config holds the four BKT parameters. Defaults are deployment-wide
// constants; per-deployment overrides go through NewTracer.
type Config struct {
	PInit  float64 // prior probability the concept is already known
	PLearn float64 // probability of transitioning to known after a practice
	PSlip  float64 // probability of answering wrong despite knowing
	PGuess float64 // probability of answering right without knowing
}

// DefaultConfig returns the standard parameterization
func DefaultConfig() Config {
	return Config{
		PInit:  0.1,
		PLearn: 0.2,
		PSlip:  0.1,
		PGuess: 0.2,
	}
}

// Tracer maintains per-concept knowledge states for one learner
type Tracer struct {
	cfg    Config
	states map[string]*models.KnowledgeState
}

// NewTracer creates a tracer. Zero-value config fields fall back to defaults.
func NewTracer(cfg Config) *Tracer {
	def := DefaultConfig()
	if cfg.PInit <= 0 {
		cfg.PInit = def.PInit
	}
	if cfg.PLearn <= 0 {
		cfg.PLearn = def.PLearn
	}
	if cfg.PSlip <= 0 {
		cfg.PSlip = def.PSlip
	}
	if cfg.PGuess <= 0 {
		cfg.PGuess = def.PGuess
	}
	return &Tracer{cfg: cfg, states: make(map[string]*models.KnowledgeState)}
}

func (t *Tracer) state(conceptID string) *models.KnowledgeState {
	s, ok := t.states[conceptID]
	if !ok {
		s = &models.KnowledgeState{ConceptID: conceptID, Probability: t.cfg.PInit}
		t.states[conceptID] = s
	}
	return s
}

// Probability returns the current P(learned) for a concept; unseen concepts
// sit at the prior
func (t *Tracer) Probability(conceptID string) float64 {
	if s, ok := t.states[conceptID]; ok {
		return s.Probability
	}
	return t.cfg.PInit
}

// Update applies Bayes' rule for one observation and then the learning
// transition, returning the new P(learned)
func (t *Tracer) Update(conceptID string, correct bool) float64 {
	s := t.state(conceptID)
	p := s.Probability

	var conditioned float64
	if correct {
		num := (1 - t.cfg.PSlip) * p
		den := num + t.cfg.PGuess*(1-p)
		conditioned = safeDiv(num, den, p)
	} else {
		num := t.cfg.PSlip * p
		den := num + (1-t.cfg.PGuess)*(1-p)
		conditioned = safeDiv(num, den, p)
	}

	s.Probability = clamp01(conditioned + (1-conditioned)*t.cfg.PLearn)
	s.Observations++
	return s.Probability
}

// PredictCorrect returns the probability the learner answers the next item
// on this concept correctly
func (t *Tracer) PredictCorrect(conceptID string) float64 {
	p := t.Probability(conceptID)
	return (1-t.cfg.PSlip)*p + t.cfg.PGuess*(1-p)
}

// IsMastered reports whether P(learned) exceeds the mastery threshold
func (t *Tracer) IsMastered(conceptID string) bool {
	return t.Probability(conceptID) > MasteryThreshold
}

// Level buckets the current estimate into mastered, confident, learning or
// struggling
func (t *Tracer) Level(conceptID string) string {
	p := t.Probability(conceptID)
	switch {
	case p > MasteryThreshold:
		return "mastered"
	case p > ConfidenceThreshold:
		return "confident"
	case p >= 0.3:
		return "learning"
	default:
		return "struggling"
	}
}

// TrialsToMastery simulates always-correct responses forward and returns the
// number of practices needed to cross the threshold, capped at 100
func (t *Tracer) TrialsToMastery(conceptID string, threshold float64) int {
	if threshold <= 0 || threshold > 1 {
		threshold = MasteryThreshold
	}
	p := t.Probability(conceptID)
	for trials := 0; trials < 100; trials++ {
		if p > threshold {
			return trials
		}
		num := (1 - t.cfg.PSlip) * p
		den := num + t.cfg.PGuess*(1-p)
		cond := safeDiv(num, den, p)
		p = clamp01(cond + (1-cond)*t.cfg.PLearn)
	}
	return 100
}

// Export snapshots all knowledge states for persistence
func (t *Tracer) Export() map[string]*models.KnowledgeState {
	out := make(map[string]*models.KnowledgeState, len(t.states))
	for id, s := range t.states {
		copied := *s
		out[id] = &copied
	}
	return out
}

// Restore replaces the tracer's states with persisted ones
func (t *Tracer) Restore(states map[string]*models.KnowledgeState) {
	t.states = make(map[string]*models.KnowledgeState, len(states))
	for id, s := range states {
		if s == nil {
			continue
		}
		copied := *s
		copied.Probability = clamp01(copied.Probability)
		t.states[id] = &copied
	}
}

func safeDiv(num, den, fallback float64) float64 {
	if den <= 0 {
		return fallback
	}
	return num / den
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
