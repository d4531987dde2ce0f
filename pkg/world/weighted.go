package world

import "math/rand"

// WeightedPick selects one name by roulette-wheel selection over the
// given weights. Weights are normalized to sum to 1; non-positive
// weights are treated as zero. When every weight is zero the pick is
// uniform. Returns "" for an empty list.
func WeightedPick(r *rand.Rand, names []string, weight func(name string) float64) string {
	if len(names) == 0 {
		return ""
	}

	total := 0.0
	weights := make([]float64, len(names))
	for i, name := range names {
		w := weight(name)
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return UniformPick(r, names)
	}

	roll := r.Float64()
	cumulative := 0.0
	for i, name := range names {
		cumulative += weights[i] / total
		if roll <= cumulative {
			return name
		}
	}
	// Floating point shortfall lands on the last candidate.
	return names[len(names)-1]
}

// UniformPick selects one name uniformly at random. Returns "" for an
// empty list.
func UniformPick(r *rand.Rand, names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[r.Intn(len(names))]
}
