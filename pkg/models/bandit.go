package models

// BanditArmStats holds the accumulated statistics for one content-format arm.
// UCB1 uses Pulls and MeanReward; Thompson Sampling uses Alpha and Beta.
type BanditArmStats struct {
	Format     string  `json:"format"`
	Pulls      int     `json:"pulls"`
	MeanReward float64 `json:"mean_reward"`
	Alpha      float64 `json:"alpha"`
	Beta       float64 `json:"beta"`
}

// FormatEngagement accumulates observed engagement for one content format,
// used by the learning-style profiler
type FormatEngagement struct {
	Format      string  `json:"format"`
	Exposures   int     `json:"exposures"`
	TotalReward float64 `json:"total_reward"`
}
