package models

import "time"

// SessionRecord is one completed study session in the analytics log
type SessionRecord struct {
	ID               string    `json:"id"`
	StartedAt        time.Time `json:"started_at"`
	DurationMinutes  int       `json:"duration_minutes"`
	MasteredConcepts []string  `json:"mastered_concepts"`
}

// RetentionPoint is one retention measurement for the forgetting-curve fit
type RetentionPoint struct {
	ElapsedDays float64 `json:"elapsed_days"`
	Retention   float64 `json:"retention"` // 0.0-1.0
}

// Streak tracks consecutive study days
type Streak struct {
	Current       int    `json:"current"`
	Longest       int    `json:"longest"`
	LastStudyDate string `json:"last_study_date"` // YYYY-MM-DD, empty if never studied
}
