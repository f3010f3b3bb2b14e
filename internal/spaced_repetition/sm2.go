package spaced_repetition

import (
	"math"
	"sort"
	"time"

	"github.com/example/learnengine/pkg/models"
)

// SM2 implements the SuperMemo-2 algorithm over per-concept review cards
type SM2 struct {
	// Quality at or above this threshold counts as a correct recall
	PassThreshold int
	// Maximum review interval in days
	MaxInterval int
	// Easiness factor bounds; the lower bound is the classic 1.3 floor
	MinEasiness float64
	MaxEasiness float64
}

// NewSM2 creates an SM2 instance with the standard settings
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold: 3,
		MaxInterval:   365, // one year cap
		MinEasiness:   1.3,
		MaxEasiness:   2.5,
	}
}

// NewCard creates a fresh review card for a concept
func NewCard(conceptID string) *models.ReviewCard {
	return &models.ReviewCard{
		ConceptID:      conceptID,
		EasinessFactor: 2.5,
		Interval:       1,
	}
}

// Review applies the SM-2 algorithm to a card for a 0-5 quality response.
// Intervals only grow while recall stays correct (1, 6, then round(i*EF));
// a failed recall resets repetitions and the interval to 1.
func (sm *SM2) Review(card *models.ReviewCard, quality int, now time.Time) {
	if quality < 0 {
		quality = 0
	}
	if quality > 5 {
		quality = 5
	}

	if quality >= sm.PassThreshold {
		var next int
		switch card.Repetitions {
		case 0:
			next = 1
		case 1:
			next = 6
		default:
			next = int(math.Round(float64(card.Interval) * card.EasinessFactor))
		}
		if next > sm.MaxInterval {
			next = sm.MaxInterval
		}
		card.Interval = next
		card.Repetitions++
		card.CorrectReviews++
	} else {
		card.Repetitions = 0
		card.Interval = 1
	}

	// Easiness update happens on every review, after the interval decision.
	q := float64(quality)
	ef := card.EasinessFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < sm.MinEasiness {
		ef = sm.MinEasiness
	}
	if ef > sm.MaxEasiness {
		ef = sm.MaxEasiness
	}
	card.EasinessFactor = ef

	card.LastQuality = quality
	card.TotalReviews++
	card.LastReview = now
	card.NextReview = now.AddDate(0, 0, card.Interval)
}

// IsDue reports whether the card's next review date has passed
func (sm *SM2) IsDue(card *models.ReviewCard, now time.Time) bool {
	return !card.NextReview.After(now)
}

// DueCards returns all due cards, most overdue first; ties prefer the lower
// easiness factor (the harder material)
func (sm *SM2) DueCards(cards map[string]*models.ReviewCard, now time.Time) []*models.ReviewCard {
	var due []*models.ReviewCard
	for _, c := range cards {
		if sm.IsDue(c, now) {
			due = append(due, c)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].NextReview.Equal(due[j].NextReview) {
			return due[i].NextReview.Before(due[j].NextReview)
		}
		if due[i].EasinessFactor != due[j].EasinessFactor {
			return due[i].EasinessFactor < due[j].EasinessFactor
		}
		return due[i].ConceptID < due[j].ConceptID
	})
	return due
}

// DaysOverdue returns how many days past due the card is, zero if not due
func (sm *SM2) DaysOverdue(card *models.ReviewCard, now time.Time) float64 {
	if !sm.IsDue(card, now) {
		return 0
	}
	return now.Sub(card.NextReview).Hours() / 24.0
}
