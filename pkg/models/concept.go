package models

import "time"

// ConceptNode represents a single concept in the curriculum graph
type ConceptNode struct {
	ID                  string    `json:"id"`
	Category            string    `json:"category"`
	Prerequisites       []string  `json:"prerequisites"`
	Difficulty          float64   `json:"difficulty"` // 0.0-1.0 scale
	DurationMinutes     int       `json:"duration_minutes"`
	Mastery             float64   `json:"mastery"` // 0-100 scale
	PracticeCount       int       `json:"practice_count"`
	LastPracticed       time.Time `json:"last_practiced"` // zero value means never practiced
	TotalAttempts       int       `json:"total_attempts"`
	SuccessfulAttempts  int       `json:"successful_attempts"`
}

// SuccessRate returns the fraction of successful attempts
func (c *ConceptNode) SuccessRate() float64 {
	if c.TotalAttempts == 0 {
		return 0
	}
	return float64(c.SuccessfulAttempts) / float64(c.TotalAttempts)
}

// ConceptProgress is the persisted per-concept learner state
type ConceptProgress struct {
	Mastery            float64   `json:"mastery"`
	PracticeCount      int       `json:"practice_count"`
	LastPracticed      time.Time `json:"last_practiced"`
	TotalAttempts      int       `json:"total_attempts"`
	SuccessfulAttempts int       `json:"successful_attempts"`
}
