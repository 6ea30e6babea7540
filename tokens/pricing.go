package tokens

import (
	"strings"
)

// DefaultModel is the model assumed when the agent is not configured with
// one.
const DefaultModel = "claude-3-7-sonnet-20250219"

const tokensPerMillion = 1_000_000

// Pricing holds the published USD rates of a model family, per million
// tokens. Cache writes are billed at 1.25x the input rate and cache reads
// at 0.1x.
type Pricing struct {
	InputPerMTok      float64
	OutputPerMTok     float64
	CacheWritePerMTok float64
	CacheReadPerMTok  float64
}

// modelPricing maps model name prefixes to published rates.
// Longer prefixes win, so family aliases and dated snapshots both resolve.
var modelPricing = map[string]Pricing{
	"claude-3-7-sonnet": {InputPerMTok: 3.0, OutputPerMTok: 15.0, CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30},
	"claude-3-5-sonnet": {InputPerMTok: 3.0, OutputPerMTok: 15.0, CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30},
	"claude-sonnet-4":   {InputPerMTok: 3.0, OutputPerMTok: 15.0, CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30},
	"claude-opus-4":     {InputPerMTok: 15.0, OutputPerMTok: 75.0, CacheWritePerMTok: 18.75, CacheReadPerMTok: 1.50},
	"claude-3-opus":     {InputPerMTok: 15.0, OutputPerMTok: 75.0, CacheWritePerMTok: 18.75, CacheReadPerMTok: 1.50},
	"claude-3-5-haiku":  {InputPerMTok: 0.80, OutputPerMTok: 4.0, CacheWritePerMTok: 1.0, CacheReadPerMTok: 0.08},
	"claude-haiku-4":    {InputPerMTok: 1.0, OutputPerMTok: 5.0, CacheWritePerMTok: 1.25, CacheReadPerMTok: 0.10},
}

// PricingForModel resolves the rates for a model by longest prefix match.
// The second return value is false when the model is unknown and the
// claude-3-7-sonnet rates are returned as an estimate.
func PricingForModel(model string) (Pricing, bool) {
	var best string
	for prefix := range modelPricing {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		return modelPricing[best], true
	}
	return modelPricing["claude-3-7-sonnet"], false
}

// Cost is the derived cost of a usage figure, in USD.
type Cost struct {
	InputCost      float64 `json:"input_cost"`
	OutputCost     float64 `json:"output_cost"`
	CacheWriteCost float64 `json:"cache_write_cost"`
	CacheReadCost  float64 `json:"cache_read_cost"`
	TotalCost      float64 `json:"total_cost"`
	Unit           string  `json:"unit"`
}

// Cost computes the cost of a usage figure at these rates.
func (p Pricing) Cost(u TokenUsage) Cost {
	c := Cost{
		InputCost:      float64(u.InputTokens) * p.InputPerMTok / tokensPerMillion,
		OutputCost:     float64(u.OutputTokens) * p.OutputPerMTok / tokensPerMillion,
		CacheWriteCost: float64(u.CacheCreationInputTokens) * p.CacheWritePerMTok / tokensPerMillion,
		CacheReadCost:  float64(u.CacheReadInputTokens) * p.CacheReadPerMTok / tokensPerMillion,
		Unit:           "USD",
	}
	c.TotalCost = c.InputCost + c.OutputCost + c.CacheWriteCost + c.CacheReadCost
	return c
}

// CostInfo is the consolidated cost of a conversation.
type CostInfo struct {
	// Model the rates were resolved for.
	Model string `json:"model"`
	// Estimated is set when the model had no published rates and the
	// default sonnet rates were used.
	Estimated bool `json:"estimated,omitempty"`

	Text   Cost            `json:"text_cost"`
	Tools  Cost            `json:"tools_cost"`
	Total  Cost            `json:"total_cost"`
	ByTool map[string]Cost `json:"by_tool,omitempty"`
}

// Cost derives the cost of this usage at the rates of the given model.
func (i UsageInfo) Cost(model string) CostInfo {
	if model == "" {
		model = DefaultModel
	}
	pricing, known := PricingForModel(model)

	info := CostInfo{
		Model:     model,
		Estimated: !known,
		Text:      pricing.Cost(i.Text),
		Tools:     pricing.Cost(i.Tools),
		Total:     pricing.Cost(i.Total()),
	}
	if len(i.ByTool) > 0 {
		info.ByTool = make(map[string]Cost, len(i.ByTool))
		for name, usage := range i.ByTool {
			info.ByTool[name] = pricing.Cost(usage)
		}
	}
	return info
}
