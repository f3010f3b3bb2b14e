package bandit

import (
	"math"
	"math/rand"
)

// sampleBeta draws from Beta(a, b) via two gamma draws:
// X ~ Gamma(a), Y ~ Gamma(b), X/(X+Y) ~ Beta(a, b).
func sampleBeta(rng *rand.Rand, a, b float64) float64 {
	if a <= 0 {
		a = 1
	}
	if b <= 0 {
		b = 1
	}
	x := sampleGamma(rng, a)
	y := sampleGamma(rng, b)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// sampleGamma draws from Gamma(shape, 1) using the Marsaglia-Tsang squeeze
// method. Shapes below one are boosted through Gamma(shape+1) and scaled by
// U^(1/shape).
func sampleGamma(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		return sampleGamma(rng, shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if u > 0 && math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
