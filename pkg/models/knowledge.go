package models

// KnowledgeState holds the Bayesian knowledge tracing estimate for one concept
type KnowledgeState struct {
	ConceptID    string  `json:"concept_id"`
	Probability  float64 `json:"probability"` // P(learned), 0.0-1.0
	Observations int     `json:"observations"`
}

// AbilityEstimate is the learner's IRT ability parameter
type AbilityEstimate struct {
	Theta     float64 `json:"theta"`
	Responses int     `json:"responses"`
}

// ItemParameters are the 3PL item parameters for one concept
type ItemParameters struct {
	ConceptID      string  `json:"concept_id"`
	Discrimination float64 `json:"discrimination"` // a
	Difficulty     float64 `json:"difficulty"`     // b
	Guessing       float64 `json:"guessing"`       // c, lower asymptote
	Count          int     `json:"count"`
	Correct        int     `json:"correct"`
}
