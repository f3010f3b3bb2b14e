package models

import "time"

// ReviewCard tracks a learner's SM-2 state for a single concept
type ReviewCard struct {
	ConceptID      string    `json:"concept_id"`
	Repetitions    int       `json:"repetitions"`
	Interval       int       `json:"interval"` // Current interval in days
	EasinessFactor float64   `json:"easiness_factor"`
	LastReview     time.Time `json:"last_review"`
	NextReview     time.Time `json:"next_review"`
	LastQuality    int       `json:"last_quality"` // 0-5 rating of last recall
	TotalReviews   int       `json:"total_reviews"`
	CorrectReviews int       `json:"correct_reviews"`
}

// LeitnerAssignment tracks a concept's Leitner box independently of its review card
type LeitnerAssignment struct {
	ConceptID  string    `json:"concept_id"`
	Box        int       `json:"box"`
	LastReview time.Time `json:"last_review"`
}

// ReviewSource identifies which scheduler marked a concept as due
type ReviewSource string

const (
	// ReviewSourceSM2 marks a review produced by the SM-2 interval scheduler
	ReviewSourceSM2 ReviewSource = "sm2"
	// ReviewSourceLeitner marks a review produced only by the Leitner tracker
	ReviewSourceLeitner ReviewSource = "leitner"
)

// Review is one entry in the due-review queue
type Review struct {
	ConceptID   string       `json:"concept_id"`
	DaysOverdue float64      `json:"days_overdue"`
	Source      ReviewSource `json:"source"`
}
