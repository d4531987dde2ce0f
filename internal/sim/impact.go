package sim

import "strings"

// Adjustment is a directed relationship delta to apply after an
// interaction between two characters.
type Adjustment struct {
	From          string
	To            string
	TrustDelta    float64
	AffinityDelta float64
}

// reverseImpactRatio scales the delta applied in the observed
// character's direction back toward the actor.
const reverseImpactRatio = 0.8

type impactRule struct {
	keyword       string
	trustDelta    float64
	affinityDelta float64
}

// Keyword order matters: the first matching rule wins, and the more
// specific "disagrees with" must not be shadowed by broader negatives.
var impactRules = []impactRule{
	{"disagrees with", -0.02, -0.01},
	{"helps", 0.05, 0.02},
	{"thanks", 0.05, 0.02},
	{"praises", 0.05, 0.02},
	{"agrees with", 0.05, 0.02},
	{"comforts", 0.05, 0.02},
	{"saves", 0.05, 0.02},
	{"attacks", -0.1, -0.05},
	{"insults", -0.1, -0.05},
	{"threatens", -0.1, -0.05},
	{"accuses", -0.1, -0.05},
	{"ignores", -0.1, -0.05},
	{"betrays", -0.1, -0.05},
}

// OutcomeAdjustments derives relationship deltas from an outcome's
// wording. The full delta applies from the actor toward the other
// character; the reverse direction receives 80% of it. An outcome
// matching no keyword yields no adjustments.
func OutcomeAdjustments(actor, other, outcome string) []Adjustment {
	lower := strings.ToLower(outcome)
	for _, rule := range impactRules {
		if !strings.Contains(lower, rule.keyword) {
			continue
		}
		return []Adjustment{
			{From: actor, To: other, TrustDelta: rule.trustDelta, AffinityDelta: rule.affinityDelta},
			{From: other, To: actor, TrustDelta: rule.trustDelta * reverseImpactRatio, AffinityDelta: rule.affinityDelta * reverseImpactRatio},
		}
	}
	return nil
}
