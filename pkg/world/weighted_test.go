package world

import (
	"math/rand"
	"testing"
)

func TestWeightedPick(t *testing.T) {
	names := []string{"a", "b", "c"}
	weights := map[string]float64{"a": 1.0, "b": 2.0, "c": 0.5}

	r := rand.New(rand.NewSource(42))
	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		pick := WeightedPick(r, names, func(n string) float64 { return weights[n] })
		counts[pick]++
	}

	for _, name := range names {
		if counts[name] == 0 {
			t.Errorf("expected %q to be picked at least once", name)
		}
	}
	if counts["b"] <= counts["c"] {
		t.Errorf("expected b (weight 2.0) picked more than c (weight 0.5), got b=%d c=%d", counts["b"], counts["c"])
	}
}

func TestWeightedPickAllZero(t *testing.T) {
	names := []string{"a", "b"}
	r := rand.New(rand.NewSource(1))

	pick := WeightedPick(r, names, func(string) float64 { return 0 })
	if pick != "a" && pick != "b" {
		t.Errorf("expected uniform fallback pick, got %q", pick)
	}
}

func TestWeightedPickNegativeWeightsTreatedAsZero(t *testing.T) {
	names := []string{"a", "b"}
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		pick := WeightedPick(r, names, func(n string) float64 {
			if n == "a" {
				return -5.0
			}
			return 1.0
		})
		if pick != "b" {
			t.Fatalf("expected only b with a's weight negative, got %q", pick)
		}
	}
}

func TestWeightedPickEmpty(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	if pick := WeightedPick(r, nil, func(string) float64 { return 1 }); pick != "" {
		t.Errorf("expected empty string for empty list, got %q", pick)
	}
	if pick := UniformPick(r, nil); pick != "" {
		t.Errorf("expected empty string for empty list, got %q", pick)
	}
}
