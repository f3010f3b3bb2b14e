package models

// ProfileVersion is the current serialization version of LearnerProfile
const ProfileVersion = 1

// LearnerProfile is the complete persisted state for one learner.
// It round-trips through JSON: loading a saved profile must reproduce the
// in-memory state exactly.
type LearnerProfile struct {
	Version           int                            `json:"version"`
	LearnerID         string                         `json:"learner_id"`
	Concepts          map[string]*ConceptProgress    `json:"concepts"`
	ReviewCards       map[string]*ReviewCard         `json:"review_cards"`
	Leitner           map[string]*LeitnerAssignment  `json:"leitner"`
	Knowledge         map[string]*KnowledgeState     `json:"knowledge"`
	Ability           AbilityEstimate                `json:"ability"`
	Items             map[string]*ItemParameters     `json:"items"`
	UCBArms           map[string]*BanditArmStats     `json:"ucb_arms"`
	ThompsonArms      map[string]*BanditArmStats     `json:"thompson_arms"`
	Engagement        map[string]*FormatEngagement   `json:"engagement"`
	Retention         map[string][]RetentionPoint    `json:"retention"`
	Sessions          []SessionRecord                `json:"sessions"`
	Streak            Streak                         `json:"streak"`
	TotalStudyMinutes int                            `json:"total_study_minutes"`
}

// NewLearnerProfile returns an empty profile for the given learner
func NewLearnerProfile(learnerID string) *LearnerProfile {
	return &LearnerProfile{
		Version:      ProfileVersion,
		LearnerID:    learnerID,
		Concepts:     make(map[string]*ConceptProgress),
		ReviewCards:  make(map[string]*ReviewCard),
		Leitner:      make(map[string]*LeitnerAssignment),
		Knowledge:    make(map[string]*KnowledgeState),
		Items:        make(map[string]*ItemParameters),
		UCBArms:      make(map[string]*BanditArmStats),
		ThompsonArms: make(map[string]*BanditArmStats),
		Engagement:   make(map[string]*FormatEngagement),
		Retention:    make(map[string][]RetentionPoint),
	}
}
