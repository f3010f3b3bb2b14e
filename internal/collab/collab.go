// Package collab implements cosine-similarity peer matching over mastery
// vectors. The index is read-mostly: the scheduler rebuilds it periodically
// from all known learner profiles.
package collab

import (
	"math"
	"sort"
	"sync"
)

// MasteredThreshold is the mastery a peer must hold on a concept for it to
// count as a recommendation source
const MasteredThreshold = 70.0

// neighborhood is how many most-similar peers contribute to recommendations
const neighborhood = 10

// Scored is one recommended concept with its aggregate peer score
type Scored struct {
	ConceptID string
	Score     float64
}

// Recommender is a rebuildable index of learner mastery vectors sharing one
// fixed concept ordering
type Recommender struct {
	mu           sync.RWMutex
	conceptOrder []string
	vectors      map[string][]float64
}

// NewRecommender creates an index over the given fixed concept ordering
func NewRecommender(conceptOrder []string) *Recommender {
	return &Recommender{
		conceptOrder: append([]string(nil), conceptOrder...),
		vectors:      make(map[string][]float64),
	}
}

// SetLearner inserts or replaces a learner's mastery vector. Vectors of the
// wrong length are ignored.
func (r *Recommender) SetLearner(learnerID string, mastery []float64) {
	if len(mastery) != len(r.conceptOrder) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vectors[learnerID] = append([]float64(nil), mastery...)
}

// Learners returns the number of indexed learners
func (r *Recommender) Learners() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vectors)
}

// Similarity returns the cosine similarity of two indexed learners, zero for
// unknown learners or zero-norm vectors
func (r *Recommender) Similarity(a, b string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	va, ok := r.vectors[a]
	if !ok {
		return 0
	}
	vb, ok := r.vectors[b]
	if !ok {
		return 0
	}
	return cosine(va, vb)
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// RecommendConcepts aggregates, weighted by similarity, concepts the most
// similar peers have mastered but the target learner has not, returning the
// top k by aggregate score. Unknown learners get an empty result.
func (r *Recommender) RecommendConcepts(learnerID string, k int) []Scored {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target, ok := r.vectors[learnerID]
	if !ok || k <= 0 {
		return nil
	}

	type peer struct {
		id  string
		sim float64
	}
	var peers []peer
	for id, v := range r.vectors {
		if id == learnerID {
			continue
		}
		if sim := cosine(target, v); sim > 0 {
			peers = append(peers, peer{id, sim})
		}
	}
	sort.SliceStable(peers, func(i, j int) bool {
		if peers[i].sim != peers[j].sim {
			return peers[i].sim > peers[j].sim
		}
		return peers[i].id < peers[j].id
	})
	if len(peers) > neighborhood {
		peers = peers[:neighborhood]
	}

	scores := make(map[string]float64)
	for _, p := range peers {
		v := r.vectors[p.id]
		for i, conceptID := range r.conceptOrder {
			if target[i] >= MasteredThreshold || v[i] < MasteredThreshold {
				continue
			}
			scores[conceptID] += p.sim * v[i] / 100
		}
	}

	out := make([]Scored, 0, len(scores))
	for id, s := range scores {
		out = append(out, Scored{ConceptID: id, Score: s})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ConceptID < out[j].ConceptID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
