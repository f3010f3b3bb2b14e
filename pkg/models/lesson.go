package models

import "time"

// LessonType classifies what the engine recommends next
type LessonType string

const (
	// LessonReview recommends reviewing a previously studied concept
	LessonReview LessonType = "review"
	// LessonNew recommends studying a new concept
	LessonNew LessonType = "new"
	// LessonComplete means the curriculum has been exhausted
	LessonComplete LessonType = "complete"
)

// Lesson is the engine's next-activity recommendation
type Lesson struct {
	Type      LessonType `json:"type"`
	ConceptID string     `json:"concept_id,omitempty"`
	Format    string     `json:"format,omitempty"`
	Reason    string     `json:"reason"`
}

// PracticeResult summarizes the state changes caused by one practice event
type PracticeResult struct {
	ConceptID    string    `json:"concept_id"`
	Mastery      float64   `json:"mastery"`
	Probability  float64   `json:"probability"` // BKT P(learned) after the update
	Theta        float64   `json:"theta"`
	Interval     int       `json:"interval"` // SM-2 interval in days
	NextReview   time.Time `json:"next_review"`
	Box          int       `json:"box"` // Leitner box after the update
	Mastered     bool      `json:"mastered"`
}

// DashboardSnapshot is the aggregate view exposed to the session layer
type DashboardSnapshot struct {
	LearnerID         string   `json:"learner_id"`
	OverallMastery    float64  `json:"overall_mastery"` // 0-100
	CurrentStreak     int      `json:"current_streak"`
	LongestStreak     int      `json:"longest_streak"`
	DueReviews        int      `json:"due_reviews"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	StaleConcepts     []string `json:"stale_concepts"`
	Consistency       float64  `json:"consistency"` // 0.0-1.0
	LearningVelocity  float64  `json:"learning_velocity"` // concepts mastered per week
	LearningStyle     string   `json:"learning_style"`
	KolbStyle         string   `json:"kolb_style"`
	NextLesson        Lesson   `json:"next_lesson"`
	TotalStudyMinutes int      `json:"total_study_minutes"`
}
