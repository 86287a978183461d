package routing

// EstimateTokens approximates the token-equivalent count of a text.
// Four characters per token is the usual rough heuristic for prose.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// EstimateCost prices a workload on a tier: tokens times the tier's
// rates, in USD. Unknown tiers price at zero; Validate catches those
// before a router is built.
func (c *Config) EstimateCost(tier Tier, inputTokens, outputTokens int) float64 {
	spec, ok := c.Tiers[tier]
	if !ok {
		return 0
	}
	return (float64(inputTokens)*spec.InputRate + float64(outputTokens)*spec.OutputRate) / 1_000_000
}

// Comparison is the cost difference between two tiers for one workload.
// It feeds reports and the tiers CLI command; routing decisions never
// consult it.
type Comparison struct {
	A, B         Tier    `json:"-"`
	CostA        float64 `json:"cost_a"`
	CostB        float64 `json:"cost_b"`
	AbsoluteDiff float64 `json:"absolute_diff"`
	PercentDiff  float64 `json:"percent_diff"`
}

// Compare prices the same workload on two tiers. AbsoluteDiff and
// PercentDiff are B relative to A; PercentDiff is zero when A costs
// nothing.
func (c *Config) Compare(a, b Tier, inputTokens, outputTokens int) Comparison {
	costA := c.EstimateCost(a, inputTokens, outputTokens)
	costB := c.EstimateCost(b, inputTokens, outputTokens)
	cmp := Comparison{
		A: a, B: b,
		CostA:        costA,
		CostB:        costB,
		AbsoluteDiff: costB - costA,
	}
	if costA != 0 {
		cmp.PercentDiff = (costB - costA) / costA * 100
	}
	return cmp
}
