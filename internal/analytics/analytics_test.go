package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/learnengine/pkg/models"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newEngine() *Engine {
	e := NewEngine()
	e.SetClock(func() time.Time { return now })
	return e
}

func TestFitForgettingCurveRecoversStability(t *testing.T) {
	e := newEngine()
	// Synthesize clean exponential decay with stability 10 days.
	stability := 10.0
	for _, days := range []float64{0.5, 1, 2, 4, 8, 16} {
		e.RecordRetention("trends", days, math.Exp(-days/stability))
	}

	curve, ok := e.FitForgettingCurve("trends")
	require.True(t, ok)
	assert.InDelta(t, stability, curve.Stability, 0.01)
	assert.InDelta(t, stability*math.Ln2, curve.HalfLife, 0.01)
	assert.Equal(t, 6, curve.Samples)
}

func TestFitForgettingCurveNeedsDecay(t *testing.T) {
	e := newEngine()
	_, ok := e.FitForgettingCurve("empty")
	assert.False(t, ok)

	// Flat retention has no measurable decay.
	e.RecordRetention("flat", 1, 0.9)
	e.RecordRetention("flat", 5, 0.9)
	_, ok = e.FitForgettingCurve("flat")
	assert.False(t, ok)
}

func TestRecordRetentionRejectsDegenerate(t *testing.T) {
	e := newEngine()
	e.RecordRetention("x", -1, 0.5)
	e.RecordRetention("x", 1, 0)
	e.RecordRetention("x", 1, 1.5)
	_, ok := e.FitForgettingCurve("x")
	assert.False(t, ok)
}

func TestLearningVelocity(t *testing.T) {
	e := newEngine()
	e.RecordSession(models.SessionRecord{
		ID: "s1", StartedAt: now.AddDate(0, 0, -3), DurationMinutes: 30,
		MasteredConcepts: []string{"markets", "charts"},
	})
	e.RecordSession(models.SessionRecord{
		ID: "s2", StartedAt: now.AddDate(0, 0, -10), DurationMinutes: 30,
		MasteredConcepts: []string{"charts", "trends"}, // "charts" counted once
	})
	e.RecordSession(models.SessionRecord{
		ID: "s3", StartedAt: now.AddDate(0, 0, -60), DurationMinutes: 30,
		MasteredConcepts: []string{"old"}, // outside the window
	})

	assert.InDelta(t, 3.0/4.0, e.LearningVelocity(), 1e-9)
}

func TestPredictTimeToMastery(t *testing.T) {
	e := newEngine()
	// Cold start: velocity floored at 0.1 concepts/week.
	weeks := e.PredictTimeToMastery(50, 4)
	assert.InDelta(t, 4*0.5/0.1, weeks, 1e-9)

	assert.Zero(t, e.PredictTimeToMastery(50, 0))
}

func TestStrengthsWeaknessesPartition(t *testing.T) {
	e := newEngine()
	concepts := []*models.ConceptNode{
		{ID: "strong", Mastery: 85, PracticeCount: 10, LastPracticed: now.AddDate(0, 0, -1)},
		{ID: "weak", Mastery: 30, PracticeCount: 3, LastPracticed: now.AddDate(0, 0, -2)},
		{ID: "stale", Mastery: 60, PracticeCount: 5, LastPracticed: now.AddDate(0, 0, -14)},
		{ID: "untouched", Mastery: 0, PracticeCount: 0},
	}

	p := e.IdentifyStrengthsWeaknesses(concepts)
	assert.Equal(t, []string{"strong"}, p.Mastered)
	assert.Contains(t, p.Struggling, "weak")
	assert.NotContains(t, p.Struggling, "untouched") // never practiced
	assert.Equal(t, []string{"stale"}, p.Stale)
}

func TestStudyConsistency(t *testing.T) {
	even := newEngine()
	for d := 0; d < 5; d++ {
		even.RecordSession(models.SessionRecord{
			StartedAt: now.AddDate(0, 0, -d), DurationMinutes: 30,
		})
	}

	spiky := newEngine()
	spiky.RecordSession(models.SessionRecord{StartedAt: now, DurationMinutes: 240})
	spiky.RecordSession(models.SessionRecord{StartedAt: now.AddDate(0, 0, -1), DurationMinutes: 5})

	assert.InDelta(t, 1.0, even.StudyConsistency(), 1e-9)
	assert.Greater(t, even.StudyConsistency(), spiky.StudyConsistency())
	assert.Zero(t, newEngine().StudyConsistency())
}

func TestSessionLogCapped(t *testing.T) {
	e := newEngine()
	for i := 0; i < SessionLogCap+50; i++ {
		e.RecordSession(models.SessionRecord{StartedAt: now, DurationMinutes: 1})
	}
	assert.Len(t, e.Sessions(), SessionLogCap)
}

func TestExportRestoreRoundTrip(t *testing.T) {
	e := newEngine()
	e.RecordSession(models.SessionRecord{ID: "s1", StartedAt: now, DurationMinutes: 30})
	e.RecordRetention("trends", 2, 0.8)

	restored := newEngine()
	restored.Restore(e.Export())

	s1, r1 := e.Export()
	s2, r2 := restored.Export()
	assert.Equal(t, s1, s2)
	assert.Equal(t, r1, r2)
}
