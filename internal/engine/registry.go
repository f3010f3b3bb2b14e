package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/example/learnengine/internal/collab"
	"github.com/example/learnengine/internal/curriculum"
)

// Registry holds one engine per learner over a shared curriculum and keeps
// the collaborative index in sync with their mastery vectors.
type Registry struct {
	mu sync.RWMutex

	curriculum *curriculum.Curriculum
	store      ProfileStore
	cfg        Config
	log        *zap.Logger

	engines     map[string]*Engine
	recommender *collab.Recommender
}

// NewRegistry creates a registry for the given curriculum
func NewRegistry(cur *curriculum.Curriculum, store ProfileStore, cfg Config, logger *zap.Logger) (*Registry, error) {
	if cur == nil {
		return nil, fmt.Errorf("registry requires a curriculum")
	}
	if err := cur.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate curriculum: %v", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	order := make([]string, len(cur.Concepts))
	for i, c := range cur.Concepts {
		order[i] = c.ID
	}
	return &Registry{
		curriculum:  cur,
		store:       store,
		cfg:         cfg,
		log:         logger,
		engines:     make(map[string]*Engine),
		recommender: collab.NewRecommender(order),
	}, nil
}

// Engine returns the engine for a learner, creating and loading it on first
// use.
func (r *Registry) Engine(ctx context.Context, learnerID string) (*Engine, error) {
	r.mu.RLock()
	e, ok := r.engines[learnerID]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok = r.engines[learnerID]; ok {
		return e, nil
	}

	e, err := New(ctx, learnerID, r.curriculum, r.store, r.cfg, r.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine for %s: %v", learnerID, err)
	}
	r.engines[learnerID] = e
	r.recommender.SetLearner(learnerID, e.MasteryVector())
	return e, nil
}

// LearnerIDs lists the learners with an active engine
func (r *Registry) LearnerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.engines))
	for id := range r.engines {
		ids = append(ids, id)
	}
	return ids
}

// RebuildIndex refreshes every learner's mastery vector in the
// collaborative index. The scheduler calls this periodically.
func (r *Registry) RebuildIndex() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, e := range r.engines {
		r.recommender.SetLearner(id, e.MasteryVector())
	}
}

// PeerRecommendations suggests concepts that similar learners have mastered
// but this learner has not
func (r *Registry) PeerRecommendations(learnerID string, k int) []collab.Scored {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.recommender.RecommendConcepts(learnerID, k)
}

// Similarity returns the cosine similarity between two learners' mastery
// vectors
func (r *Registry) Similarity(a, b string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.recommender.Similarity(a, b)
}
