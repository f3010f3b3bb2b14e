// Package analytics derives longitudinal summaries from the accumulated
// event history: forgetting-curve fits, learning velocity, study-pattern
// consistency and strength/weakness partitions.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/example/learnengine/pkg/models"
)

// SessionLogCap bounds the retained session history
const SessionLogCap = 1000

// retentionLogCap bounds per-concept retention measurements
const retentionLogCap = 200

// Strength/weakness partition thresholds
const (
	StrengthMastery   = 80.0
	WeaknessMastery   = 50.0
	StaleMastery      = 90.0
	StaleAfterDays    = 7.0
)

// defaultVelocityWindow is the trailing window for learning velocity
const defaultVelocityWindow = 28 * 24 * time.Hour

// Curve describes a fitted exponential forgetting curve
// R(t) = exp(-t/Stability).
type Curve struct {
	Stability float64 // days
	HalfLife  float64 // days until retention drops to 0.5
	Samples   int
}

// Partition groups concepts by performance
type Partition struct {
	Mastered   []string // mastery >= 80
	Struggling []string // practiced but mastery < 50
	Stale      []string // no practice in > 7 days, mastery < 90
}

// Engine accumulates sessions and retention measurements for one learner
type Engine struct {
	sessions  []models.SessionRecord
	retention map[string][]models.RetentionPoint
	now       func() time.Time
}

// NewEngine creates an empty analytics engine
func NewEngine() *Engine {
	return &Engine{
		retention: make(map[string][]models.RetentionPoint),
		now:       time.Now,
	}
}

// SetClock overrides the time source, used by tests
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// RecordSession appends a session to the capped log
func (e *Engine) RecordSession(rec models.SessionRecord) {
	e.sessions = append(e.sessions, rec)
	if len(e.sessions) > SessionLogCap {
		e.sessions = e.sessions[len(e.sessions)-SessionLogCap:]
	}
}

// Sessions returns the retained session log
func (e *Engine) Sessions() []models.SessionRecord {
	return append([]models.SessionRecord(nil), e.sessions...)
}

// RecordRetention adds one retention measurement for a concept
func (e *Engine) RecordRetention(conceptID string, elapsedDays, retention float64) {
	if elapsedDays < 0 || retention <= 0 || retention > 1 {
		return
	}
	pts := append(e.retention[conceptID], models.RetentionPoint{ElapsedDays: elapsedDays, Retention: retention})
	if len(pts) > retentionLogCap {
		pts = pts[len(pts)-retentionLogCap:]
	}
	e.retention[conceptID] = pts
}

// FitForgettingCurve fits R(t) = exp(-t/S) by linear regression of ln(R)
// against elapsed days. It needs at least two measurements with a negative
// trend; otherwise ok is false.
func (e *Engine) FitForgettingCurve(conceptID string) (Curve, bool) {
	pts := e.retention[conceptID]
	if len(pts) < 2 {
		return Curve{}, false
	}

	// Least-squares slope of ln(retention) over elapsed days.
	var sumX, sumY, sumXY, sumXX float64
	n := float64(len(pts))
	for _, p := range pts {
		y := math.Log(p.Retention)
		sumX += p.ElapsedDays
		sumY += y
		sumXY += p.ElapsedDays * y
		sumXX += p.ElapsedDays * p.ElapsedDays
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return Curve{}, false
	}
	slope := (n*sumXY - sumX*sumY) / den
	if slope >= 0 {
		// No measurable decay.
		return Curve{}, false
	}

	stability := -1 / slope
	return Curve{
		Stability: stability,
		HalfLife:  stability * math.Ln2,
		Samples:   len(pts),
	}, true
}

// LearningVelocity returns distinct concepts mastered per week over the
// trailing window
func (e *Engine) LearningVelocity() float64 {
	cutoff := e.now().Add(-defaultVelocityWindow)
	mastered := make(map[string]bool)
	for _, s := range e.sessions {
		if s.StartedAt.Before(cutoff) {
			continue
		}
		for _, id := range s.MasteredConcepts {
			mastered[id] = true
		}
	}
	weeks := defaultVelocityWindow.Hours() / 24 / 7
	return float64(len(mastered)) / weeks
}

// PredictTimeToMastery extrapolates the weeks needed to close the remaining
// mastery gap at the current velocity. Velocity is floored so a cold start
// yields a finite, pessimistic estimate.
func (e *Engine) PredictTimeToMastery(currentMastery float64, remainingConcepts int) float64 {
	if remainingConcepts <= 0 {
		return 0
	}
	gap := math.Max(0, 100-currentMastery) / 100
	remaining := float64(remainingConcepts) * gap
	return remaining / math.Max(e.LearningVelocity(), 0.1)
}

// IdentifyStrengthsWeaknesses partitions concepts into mastered, struggling
// and stale-but-incomplete buckets
func (e *Engine) IdentifyStrengthsWeaknesses(concepts []*models.ConceptNode) Partition {
	now := e.now()
	var p Partition
	for _, c := range concepts {
		switch {
		case c.Mastery >= StrengthMastery:
			p.Mastered = append(p.Mastered, c.ID)
		case c.PracticeCount > 0 && c.Mastery < WeaknessMastery:
			p.Struggling = append(p.Struggling, c.ID)
		}
		if c.PracticeCount > 0 && c.Mastery < StaleMastery &&
			now.Sub(c.LastPracticed).Hours()/24 > StaleAfterDays {
			p.Stale = append(p.Stale, c.ID)
		}
	}
	return p
}

// StudyConsistency scores how evenly study time spreads across active days,
// 1.0 for perfectly even, approaching 0 as the pattern gets spikier. No
// sessions scores 0.
func (e *Engine) StudyConsistency() float64 {
	perDay := make(map[string]float64)
	for _, s := range e.sessions {
		day := s.StartedAt.Format("2006-01-02")
		perDay[day] += float64(s.DurationMinutes)
	}
	if len(perDay) == 0 {
		return 0
	}
	if len(perDay) == 1 {
		return 1
	}

	var minutes []float64
	for _, m := range perDay {
		minutes = append(minutes, m)
	}
	sort.Float64s(minutes)

	var mean float64
	for _, m := range minutes {
		mean += m
	}
	mean /= float64(len(minutes))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, m := range minutes {
		variance += (m - mean) * (m - mean)
	}
	variance /= float64(len(minutes))

	// Coefficient of variation folded into (0, 1].
	return 1 / (1 + math.Sqrt(variance)/mean)
}

// Export snapshots the session log and retention history for persistence
func (e *Engine) Export() ([]models.SessionRecord, map[string][]models.RetentionPoint) {
	sessions := append([]models.SessionRecord(nil), e.sessions...)
	retention := make(map[string][]models.RetentionPoint, len(e.retention))
	for id, pts := range e.retention {
		retention[id] = append([]models.RetentionPoint(nil), pts...)
	}
	return sessions, retention
}

// Restore replaces the engine's history with persisted data
func (e *Engine) Restore(sessions []models.SessionRecord, retention map[string][]models.RetentionPoint) {
	e.sessions = append([]models.SessionRecord(nil), sessions...)
	if len(e.sessions) > SessionLogCap {
		e.sessions = e.sessions[len(e.sessions)-SessionLogCap:]
	}
	e.retention = make(map[string][]models.RetentionPoint, len(retention))
	for id, pts := range retention {
		e.retention[id] = append([]models.RetentionPoint(nil), pts...)
	}
}
