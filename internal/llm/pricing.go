package llm

import "strings"

// ModelCost holds pricing in USD per one million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// OpenRouter IDs ("anthropic/claude-3-haiku") fall back to the bare vendor
// model name.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	if _, bare, ok := strings.Cut(modelID, "/"); ok {
		if c, ok := modelCosts[bare]; ok {
			return &c
		}
	}
	return nil
}

// Prices from models.dev, 2026-02-15.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-3-haiku":             {0.25, 1.25},
	"claude-3-haiku-20240307":    {0.25, 1.25},
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-3.5-haiku":           {0.8, 4},
	"claude-3-5-sonnet-20241022": {3, 15},
	"claude-3.5-sonnet":          {3, 15},
	"claude-3-7-sonnet-20250219": {3, 15},
	"claude-haiku-4-5":           {1, 5},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},
	"claude-opus-4-5":            {5, 25},

	// OpenAI
	"gpt-3.5-turbo": {0.5, 1.5},
	"gpt-4o":        {2.5, 10},
	"gpt-4o-mini":   {0.15, 0.6},
	"gpt-4.1":       {2, 8},
	"gpt-4.1-mini":  {0.4, 1.6},
	"gpt-4.1-nano":  {0.1, 0.4},
	"gpt-5":         {1.25, 10},
	"gpt-5-mini":    {0.25, 2},
	"gpt-5-nano":    {0.05, 0.4},
	"o3-mini":       {1.1, 4.4},
	"o4-mini":       {1.1, 4.4},

	// Google
	"gemini-1.5-flash":      {0.075, 0.3},
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},

	// Meta / Mistral via OpenRouter
	"llama-3.1-8b-instruct": {0.02, 0.03},
	"mistral-7b-instruct":   {0.03, 0.05},
}
