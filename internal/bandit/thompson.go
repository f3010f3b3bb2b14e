package bandit

import (
	"math/rand"

	"github.com/example/learnengine/pkg/models"
)

// Thompson is the Thompson Sampling policy: each arm keeps a Beta(alpha,
// beta) posterior over its success rate and the arm with the highest
// posterior sample wins.
type Thompson struct {
	arms  map[string]*models.BanditArmStats
	order []string
	rng   *rand.Rand
}

// NewThompson creates a policy over the given format arms with uniform
// Beta(1,1) priors. The RNG is injected so selections are reproducible under
// a fixed seed.
func NewThompson(formats []string, rng *rand.Rand) *Thompson {
	t := &Thompson{arms: make(map[string]*models.BanditArmStats), rng: rng}
	for _, f := range formats {
		if _, dup := t.arms[f]; dup {
			continue
		}
		t.arms[f] = &models.BanditArmStats{Format: f, Alpha: 1, Beta: 1}
		t.order = append(t.order, f)
	}
	return t
}

// Select draws one sample from each arm's posterior and returns the arm with
// the highest draw
func (t *Thompson) Select() string {
	best := ""
	bestSample := -1.0
	for _, f := range t.order {
		arm := t.arms[f]
		if s := sampleBeta(t.rng, arm.Alpha, arm.Beta); s > bestSample {
			best, bestSample = f, s
		}
	}
	return best
}

// Update shifts an arm's posterior: success increments alpha, failure
// increments beta. Unknown formats are ignored.
func (t *Thompson) Update(format string, success bool) {
	arm, ok := t.arms[format]
	if !ok {
		return
	}
	if success {
		arm.Alpha++
	} else {
		arm.Beta++
	}
	arm.Pulls++
}

// Arm returns a copy of one arm's statistics; ok is false for an unknown
// format
func (t *Thompson) Arm(format string) (models.BanditArmStats, bool) {
	arm, ok := t.arms[format]
	if !ok {
		return models.BanditArmStats{}, false
	}
	return *arm, true
}

// Export snapshots arm posteriors for persistence
func (t *Thompson) Export() map[string]*models.BanditArmStats {
	out := make(map[string]*models.BanditArmStats, len(t.arms))
	for f, arm := range t.arms {
		copied := *arm
		out[f] = &copied
	}
	return out
}

// Restore applies persisted posteriors for known formats
func (t *Thompson) Restore(arms map[string]*models.BanditArmStats) {
	for _, arm := range t.arms {
		arm.Alpha = 1
		arm.Beta = 1
		arm.Pulls = 0
	}
	for f, saved := range arms {
		arm, ok := t.arms[f]
		if !ok || saved == nil {
			continue
		}
		if saved.Alpha >= 1 {
			arm.Alpha = saved.Alpha
		}
		if saved.Beta >= 1 {
			arm.Beta = saved.Beta
		}
		arm.Pulls = saved.Pulls
	}
}
