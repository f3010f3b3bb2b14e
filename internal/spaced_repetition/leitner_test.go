package spaced_repetition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/learnengine/pkg/models"
)

func TestPromotionSequence(t *testing.T) {
	l := NewLeitner()
	a := NewAssignment("trends")

	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for want := 1; want <= 3; want++ {
		l.Review(a, true, now)
		assert.Equal(t, want, a.Box)
		now = now.AddDate(0, 0, l.IntervalDays(a.Box))
	}
}

func TestFailureDemotesToBoxZero(t *testing.T) {
	l := NewLeitner()
	a := NewAssignment("x")
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		l.Review(a, true, now)
	}
	require.Equal(t, 3, a.Box)

	l.Review(a, false, now)
	assert.Equal(t, 0, a.Box)
}

func TestBoxClampedAtTop(t *testing.T) {
	l := NewLeitner()
	a := NewAssignment("x")
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		l.Review(a, true, now)
	}
	assert.Equal(t, l.Boxes-1, a.Box)
}

func TestDoublingIntervals(t *testing.T) {
	l := NewLeitner()
	want := []int{1, 2, 4, 8, 16}
	for box, days := range want {
		assert.Equal(t, days, l.IntervalDays(box))
	}
	// Out-of-range indexes clamp.
	assert.Equal(t, 1, l.IntervalDays(-3))
	assert.Equal(t, 16, l.IntervalDays(99))
}

func TestDueAssignmentsOrderedByOverdue(t *testing.T) {
	l := NewLeitner()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	stale := NewAssignment("stale")
	l.Review(stale, true, now.AddDate(0, 0, -10)) // box 1, interval 2, 8 days overdue

	fresh := NewAssignment("fresh")
	l.Review(fresh, true, now.AddDate(0, 0, -3)) // box 1, interval 2, 1 day overdue

	notDue := NewAssignment("not-due")
	l.Review(notDue, true, now) // reviewed just now

	due := l.DueAssignments(map[string]*models.LeitnerAssignment{
		"stale": stale, "fresh": fresh, "not-due": notDue,
	}, now)
	require.Len(t, due, 2)
	assert.Equal(t, "stale", due[0].ConceptID)
	assert.Equal(t, "fresh", due[1].ConceptID)
}
