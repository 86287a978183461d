package routing

import (
	"fmt"

	"github.com/kbukum/agentflow/errors"
	"github.com/kbukum/agentflow/graph"
)

// TierSpec is the model and pricing behind one tier. Rates are USD per
// million token-equivalents.
type TierSpec struct {
	Model      string  `yaml:"model" json:"model" mapstructure:"model"`
	InputRate  float64 `yaml:"input_rate" json:"input_rate" mapstructure:"input_rate"`
	OutputRate float64 `yaml:"output_rate" json:"output_rate" mapstructure:"output_rate"`
}

// Config is the injected routing table: tier pricing, per-kind default
// tiers and the heuristic thresholds. Deployments swap it wholesale;
// nothing in this package mutates a Config after construction.
type Config struct {
	// Tiers maps each tier to its model and rates.
	Tiers map[Tier]TierSpec `yaml:"tiers" json:"tiers" mapstructure:"tiers"`
	// KindDefaults is the fallback tier per node kind when no routing
	// rule matches.
	KindDefaults map[graph.Kind]Tier `yaml:"kind_defaults" json:"kind_defaults" mapstructure:"kind_defaults"`
	// BulkItemThreshold is the item count above which a task routes to
	// the low-cost tier for throughput.
	BulkItemThreshold int `yaml:"bulk_item_threshold" json:"bulk_item_threshold" mapstructure:"bulk_item_threshold"`
	// DefaultOutputTokens sizes the output side of a cost estimate made
	// before any output exists.
	DefaultOutputTokens int `yaml:"default_output_tokens" json:"default_output_tokens" mapstructure:"default_output_tokens"`
}

// DefaultConfig returns the built-in routing table.
func DefaultConfig() Config {
	return Config{
		Tiers: map[Tier]TierSpec{
			TierLite:     {Model: "haiku", InputRate: 0.80, OutputRate: 4.00},
			TierStandard: {Model: "sonnet", InputRate: 3.00, OutputRate: 15.00},
			TierPremium:  {Model: "opus", InputRate: 15.00, OutputRate: 75.00},
		},
		KindDefaults: map[graph.Kind]Tier{
			graph.KindExplore:  TierLite,
			graph.KindVerify:   TierLite,
			graph.KindPlan:     TierStandard,
			graph.KindGenerate: TierStandard,
			graph.KindGeneral:  TierStandard,
			graph.KindAnalyze:  TierPremium,
		},
		BulkItemThreshold:   50,
		DefaultOutputTokens: 512,
	}
}

// ApplyDefaults fills unset fields from the built-in table.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if len(c.Tiers) == 0 {
		c.Tiers = def.Tiers
	}
	if len(c.KindDefaults) == 0 {
		c.KindDefaults = def.KindDefaults
	}
	if c.BulkItemThreshold <= 0 {
		c.BulkItemThreshold = def.BulkItemThreshold
	}
	if c.DefaultOutputTokens <= 0 {
		c.DefaultOutputTokens = def.DefaultOutputTokens
	}
}

// Validate checks the table for internal consistency.
func (c *Config) Validate() error {
	for _, tier := range Tiers() {
		spec, ok := c.Tiers[tier]
		if !ok {
			return errors.InvalidConfig(fmt.Sprintf("routing: tier %q has no spec", tier))
		}
		if spec.Model == "" {
			return errors.InvalidConfig(fmt.Sprintf("routing: tier %q has no model", tier))
		}
		if spec.InputRate < 0 || spec.OutputRate < 0 {
			return errors.InvalidConfig(fmt.Sprintf("routing: tier %q has a negative rate", tier))
		}
	}
	for tier := range c.Tiers {
		if !tier.Valid() {
			return errors.InvalidConfig(fmt.Sprintf("routing: unknown tier %q in table", tier))
		}
	}
	for kind, tier := range c.KindDefaults {
		if !kind.Valid() {
			return errors.InvalidConfig(fmt.Sprintf("routing: unknown kind %q in defaults", kind))
		}
		if !tier.Valid() {
			return errors.InvalidConfig(fmt.Sprintf("routing: kind %q defaults to unknown tier %q", kind, tier))
		}
	}
	if c.BulkItemThreshold <= 0 {
		return errors.InvalidConfig("routing: bulk item threshold must be positive")
	}
	if c.DefaultOutputTokens <= 0 {
		return errors.InvalidConfig("routing: default output tokens must be positive")
	}
	return nil
}
