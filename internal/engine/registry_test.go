package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/learnengine/internal/curriculum"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(curriculum.Default(), nil, Config{Seed: 7}, nil)
	require.NoError(t, err)
	return r
}

func TestRegistryRejectsInvalidCurriculum(t *testing.T) {
	bad := &curriculum.Curriculum{
		Name: "broken",
		Concepts: []curriculum.Concept{
			{ID: "a", Prerequisites: []string{"missing"}, Difficulty: 0.5},
		},
	}
	_, err := NewRegistry(bad, nil, Config{}, nil)
	assert.Error(t, err)
}

func TestRegistryCachesEngines(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	a, err := r.Engine(ctx, "alice")
	require.NoError(t, err)
	again, err := r.Engine(ctx, "alice")
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.ElementsMatch(t, []string{"alice"}, r.LearnerIDs())
}

func TestPeerRecommendations(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	alice, err := r.Engine(ctx, "alice")
	require.NoError(t, err)
	bob, err := r.Engine(ctx, "bob")
	require.NoError(t, err)

	// Both know the basics; alice is ahead on charts.
	masterConcept(t, alice, "markets")
	masterConcept(t, alice, "charts")
	masterConcept(t, bob, "markets")
	r.RebuildIndex()

	assert.Greater(t, r.Similarity("alice", "bob"), 0.0)

	recs := r.PeerRecommendations("bob", 3)
	require.NotEmpty(t, recs)
	assert.Equal(t, "charts", recs[0].ConceptID)

	// Alice already knows everything her peers do.
	for _, rec := range r.PeerRecommendations("alice", 3) {
		assert.NotEqual(t, "markets", rec.ConceptID)
	}
}
