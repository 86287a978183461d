package routing

import "fmt"

// Tier is a cost/capability profile a node executes under. Higher tiers
// buy more capable models at a higher per-token rate.
type Tier string

const (
	// TierLite is the cheapest tier, for exploration and bulk work.
	TierLite Tier = "lite"
	// TierStandard is the balanced default.
	TierStandard Tier = "standard"
	// TierPremium is the high-capability tier for deep reasoning and
	// generation.
	TierPremium Tier = "premium"
)

// Tiers returns all tiers in ascending capability order.
func Tiers() []Tier {
	return []Tier{TierLite, TierStandard, TierPremium}
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierLite, TierStandard, TierPremium:
		return true
	}
	return false
}

// ParseTier converts a string into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("routing: unknown tier %q", s)
	}
	return t, nil
}

// Complexity is a caller-supplied difficulty signal for a run.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityNormal Complexity = "normal"
	ComplexityHigh   Complexity = "high"
)

// ParseComplexity converts a string into a Complexity. The empty string
// is normal.
func ParseComplexity(s string) (Complexity, error) {
	switch Complexity(s) {
	case "":
		return ComplexityNormal, nil
	case ComplexityLow, ComplexityNormal, ComplexityHigh:
		return Complexity(s), nil
	}
	return "", fmt.Errorf("routing: unknown complexity %q", s)
}
