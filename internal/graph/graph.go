package graph

import (
	"math"
	"sort"
	"time"

	"github.com/example/learnengine/pkg/models"
)

// AvailabilityThreshold is the mastery a prerequisite must reach before its
// dependents become available for study.
const AvailabilityThreshold = 70.0

// KnowledgeGraph is the curriculum DAG with per-concept mastery state.
// Concepts are added once at initialization; mastery is mutated only through
// RecordPractice. The graph is per-learner.
type KnowledgeGraph struct {
	concepts   map[string]*models.ConceptNode
	order      []string // insertion order, fixed for mastery vectors
	dependents map[string][]string
	now        func() time.Time
}

// New creates an empty knowledge graph
func New() *KnowledgeGraph {
	return &KnowledgeGraph{
		concepts:   make(map[string]*models.ConceptNode),
		dependents: make(map[string][]string),
		now:        time.Now,
	}
}

// SetClock overrides the time source, used by tests
func (g *KnowledgeGraph) SetClock(now func() time.Time) {
	g.now = now
}

// AddConcept registers a concept. Prerequisite edges point at already-known
// concept ids; acyclicity is a curriculum authoring invariant.
func (g *KnowledgeGraph) AddConcept(id, category string, prerequisites []string, difficulty float64, durationMinutes int) {
	if _, exists := g.concepts[id]; exists {
		return
	}
	g.concepts[id] = &models.ConceptNode{
		ID:              id,
		Category:        category,
		Prerequisites:   append([]string(nil), prerequisites...),
		Difficulty:      clamp01(difficulty),
		DurationMinutes: durationMinutes,
	}
	g.order = append(g.order, id)
	for _, p := range prerequisites {
		g.dependents[p] = append(g.dependents[p], id)
	}
}

// Concept returns the node for the given id, or nil if unknown
func (g *KnowledgeGraph) Concept(id string) *models.ConceptNode {
	return g.concepts[id]
}

// ConceptIDs returns all concept ids in insertion order
func (g *KnowledgeGraph) ConceptIDs() []string {
	return append([]string(nil), g.order...)
}

// Dependents returns the concepts that list id as a prerequisite
func (g *KnowledgeGraph) Dependents(id string) []string {
	return append([]string(nil), g.dependents[id]...)
}

// RecordPractice updates a concept's mastery from one practice outcome.
// Mastery blends practice volume, success rate and recency:
//
//	mastery = (0.4*practiceFactor + 0.4*successRate + 0.2*recencyFactor) * 100
//
// where practiceFactor = min(1, count/10) and recencyFactor decays with a
// seven-day time constant from the previous practice. Returns false for an
// unknown concept id.
func (g *KnowledgeGraph) RecordPractice(id string, success bool) bool {
	c, ok := g.concepts[id]
	if !ok {
		return false
	}

	now := g.now()
	days := 0.0
	if !c.LastPracticed.IsZero() {
		days = now.Sub(c.LastPracticed).Hours() / 24.0
	}

	c.PracticeCount++
	c.TotalAttempts++
	if success {
		c.SuccessfulAttempts++
	}
	c.LastPracticed = now

	practiceFactor := math.Min(1.0, float64(c.PracticeCount)/10.0)
	recencyFactor := math.Exp(-days / 7.0)
	c.Mastery = clampMastery((0.4*practiceFactor + 0.4*c.SuccessRate() + 0.2*recencyFactor) * 100)
	return true
}

// Available reports whether every prerequisite of the concept has reached
// the availability threshold. Unknown ids are never available.
func (g *KnowledgeGraph) Available(id string) bool {
	c, ok := g.concepts[id]
	if !ok {
		return false
	}
	for _, p := range c.Prerequisites {
		pre, ok := g.concepts[p]
		if !ok || pre.Mastery < AvailabilityThreshold {
			return false
		}
	}
	return true
}

// AvailableConcepts returns every concept whose prerequisites all have
// mastery at or above the availability threshold
func (g *KnowledgeGraph) AvailableConcepts() []*models.ConceptNode {
	var out []*models.ConceptNode
	for _, id := range g.order {
		if g.Available(id) {
			out = append(out, g.concepts[id])
		}
	}
	return out
}

// NextConcepts returns available concepts not in the mastered set, sorted by
// ascending difficulty
func (g *KnowledgeGraph) NextConcepts(mastered map[string]bool) []*models.ConceptNode {
	var out []*models.ConceptNode
	for _, id := range g.order {
		if mastered[id] {
			continue
		}
		if g.Available(id) {
			out = append(out, g.concepts[id])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Difficulty < out[j].Difficulty
	})
	return out
}

// LearningPath returns the shortest prerequisite chain from start to end
// using breadth-first search over dependency edges. Returns nil when either
// id is unknown or no path exists.
func (g *KnowledgeGraph) LearningPath(start, end string) []string {
	if _, ok := g.concepts[start]; !ok {
		return nil
	}
	if _, ok := g.concepts[end]; !ok {
		return nil
	}
	if start == end {
		return []string{start}
	}

	prev := map[string]string{start: ""}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.dependents[cur] {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur
			if next == end {
				// Walk back to reconstruct the path
				path := []string{end}
				for at := cur; at != ""; at = prev[at] {
					path = append([]string{at}, path...)
				}
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// MasteryVector returns per-concept mastery in fixed insertion order
func (g *KnowledgeGraph) MasteryVector() []float64 {
	v := make([]float64, len(g.order))
	for i, id := range g.order {
		v[i] = g.concepts[id].Mastery
	}
	return v
}

// Concepts returns all nodes in insertion order
func (g *KnowledgeGraph) Concepts() []*models.ConceptNode {
	out := make([]*models.ConceptNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.concepts[id])
	}
	return out
}

// ExportProgress snapshots per-concept learner state for persistence
func (g *KnowledgeGraph) ExportProgress() map[string]*models.ConceptProgress {
	out := make(map[string]*models.ConceptProgress, len(g.concepts))
	for id, c := range g.concepts {
		if c.PracticeCount == 0 {
			continue
		}
		out[id] = &models.ConceptProgress{
			Mastery:            c.Mastery,
			PracticeCount:      c.PracticeCount,
			LastPracticed:      c.LastPracticed,
			TotalAttempts:      c.TotalAttempts,
			SuccessfulAttempts: c.SuccessfulAttempts,
		}
	}
	return out
}

// RestoreProgress replaces all per-concept learner state with the persisted
// snapshot. Unknown ids are ignored so a curriculum change cannot fail a
// load.
func (g *KnowledgeGraph) RestoreProgress(progress map[string]*models.ConceptProgress) {
	for _, c := range g.concepts {
		c.Mastery = 0
		c.PracticeCount = 0
		c.LastPracticed = time.Time{}
		c.TotalAttempts = 0
		c.SuccessfulAttempts = 0
	}
	for id, p := range progress {
		c, ok := g.concepts[id]
		if !ok || p == nil {
			continue
		}
		c.Mastery = clampMastery(p.Mastery)
		c.PracticeCount = p.PracticeCount
		c.LastPracticed = p.LastPracticed
		c.TotalAttempts = p.TotalAttempts
		c.SuccessfulAttempts = p.SuccessfulAttempts
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampMastery(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
