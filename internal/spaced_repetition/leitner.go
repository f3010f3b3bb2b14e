package spaced_repetition

import (
	"sort"
	"time"

	"github.com/example/learnengine/pkg/models"
)

// Leitner tracks concepts in numbered boxes with doubling review intervals.
// It runs independently of SM-2 and serves as an alternate due-date source.
type Leitner struct {
	// Number of boxes; box indexes are clamped to [0, Boxes-1]
	Boxes int
	// Review interval of box 0 in days; each box doubles it (1, 2, 4, ...)
	BaseIntervalDays int
}

// NewLeitner creates a tracker with five boxes and a one-day base interval
func NewLeitner() *Leitner {
	return &Leitner{Boxes: 5, BaseIntervalDays: 1}
}

// NewAssignment places a concept in box 0
func NewAssignment(conceptID string) *models.LeitnerAssignment {
	return &models.LeitnerAssignment{ConceptID: conceptID}
}

// IntervalDays returns the review interval for a box index
func (l *Leitner) IntervalDays(box int) int {
	if box < 0 {
		box = 0
	}
	if box >= l.Boxes {
		box = l.Boxes - 1
	}
	return l.BaseIntervalDays << box
}

// Review promotes the assignment on success and demotes it to box 0 on
// failure
func (l *Leitner) Review(a *models.LeitnerAssignment, correct bool, now time.Time) {
	if correct {
		if a.Box < l.Boxes-1 {
			a.Box++
		}
	} else {
		a.Box = 0
	}
	a.LastReview = now
}

// IsDue reports whether the assignment's box interval has elapsed since its
// last review. Never-reviewed assignments are always due.
func (l *Leitner) IsDue(a *models.LeitnerAssignment, now time.Time) bool {
	if a.LastReview.IsZero() {
		return true
	}
	elapsed := now.Sub(a.LastReview).Hours() / 24.0
	return elapsed >= float64(l.IntervalDays(a.Box))
}

// DaysOverdue returns how far past its box interval the assignment is
func (l *Leitner) DaysOverdue(a *models.LeitnerAssignment, now time.Time) float64 {
	if a.LastReview.IsZero() {
		return 0
	}
	elapsed := now.Sub(a.LastReview).Hours() / 24.0
	overdue := elapsed - float64(l.IntervalDays(a.Box))
	if overdue < 0 {
		return 0
	}
	return overdue
}

// DueAssignments returns all due assignments ordered by days overdue,
// descending
func (l *Leitner) DueAssignments(assignments map[string]*models.LeitnerAssignment, now time.Time) []*models.LeitnerAssignment {
	var due []*models.LeitnerAssignment
	for _, a := range assignments {
		if l.IsDue(a, now) {
			due = append(due, a)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		oi, oj := l.DaysOverdue(due[i], now), l.DaysOverdue(due[j], now)
		if oi != oj {
			return oi > oj
		}
		return due[i].ConceptID < due[j].ConceptID
	})
	return due
}
