// Package bandit implements multi-armed bandit policies over content
// formats. Arms are presentation formats, not concepts; rewards come from
// observed engagement and performance.
package bandit

import (
	"math"

	"github.com/example/learnengine/pkg/models"
)

// UCB1 is the upper-confidence-bound policy: untried arms are forced first,
// then the arm maximizing mean + sqrt(2*ln(total)/count) wins.
type UCB1 struct {
	arms  map[string]*models.BanditArmStats
	order []string
	total int
}

// NewUCB1 creates a policy over the given format arms
func NewUCB1(formats []string) *UCB1 {
	u := &UCB1{arms: make(map[string]*models.BanditArmStats)}
	for _, f := range formats {
		if _, dup := u.arms[f]; dup {
			continue
		}
		u.arms[f] = &models.BanditArmStats{Format: f}
		u.order = append(u.order, f)
	}
	return u
}

// Select returns the arm to pull next. Cold start: every untried arm is
// explored once, in registration order, before any ranking decision.
func (u *UCB1) Select() string {
	for _, f := range u.order {
		if u.arms[f].Pulls == 0 {
			return f
		}
	}
	best := ""
	bestScore := math.Inf(-1)
	for _, f := range u.order {
		arm := u.arms[f]
		score := arm.MeanReward + math.Sqrt(2*math.Log(float64(u.total))/float64(arm.Pulls))
		if score > bestScore {
			best, bestScore = f, score
		}
	}
	return best
}

// Update records an observed reward in [0,1] for an arm. Unknown formats are
// ignored.
func (u *UCB1) Update(format string, reward float64) {
	arm, ok := u.arms[format]
	if !ok {
		return
	}
	reward = math.Max(0, math.Min(1, reward))
	arm.Pulls++
	u.total++
	// Incremental running mean.
	arm.MeanReward += (reward - arm.MeanReward) / float64(arm.Pulls)
}

// TotalPulls returns the number of recorded pulls across all arms
func (u *UCB1) TotalPulls() int {
	return u.total
}

// Arm returns a copy of one arm's statistics; ok is false for an unknown
// format
func (u *UCB1) Arm(format string) (models.BanditArmStats, bool) {
	arm, ok := u.arms[format]
	if !ok {
		return models.BanditArmStats{}, false
	}
	return *arm, true
}

// Export snapshots arm statistics for persistence
func (u *UCB1) Export() map[string]*models.BanditArmStats {
	out := make(map[string]*models.BanditArmStats, len(u.arms))
	for f, arm := range u.arms {
		copied := *arm
		out[f] = &copied
	}
	return out
}

// Restore applies persisted arm statistics for known formats
func (u *UCB1) Restore(arms map[string]*models.BanditArmStats) {
	u.total = 0
	for _, arm := range u.arms {
		arm.Pulls = 0
		arm.MeanReward = 0
	}
	for f, saved := range arms {
		arm, ok := u.arms[f]
		if !ok || saved == nil {
			continue
		}
		arm.Pulls = saved.Pulls
		arm.MeanReward = saved.MeanReward
		u.total += saved.Pulls
	}
}
