package ai

// Pricing is the USD cost per one million tokens for a model.
type Pricing struct {
	Prompt     float64
	Completion float64
}

// modelPricing covers the models the CLI knows how to price. Prices drift;
// these are indicative, for the end-of-run cost summary only.
var modelPricing = map[string]Pricing{
	"gemini-2.0-flash":      {Prompt: 0.10, Completion: 0.40},
	"gemini-2.0-flash-lite": {Prompt: 0.075, Completion: 0.30},
	"gemini-1.5-pro":        {Prompt: 1.25, Completion: 5.00},
	"gpt-4o":                {Prompt: 2.50, Completion: 10.00},
	"gpt-4o-mini":           {Prompt: 0.15, Completion: 0.60},
	"gpt-4.1":               {Prompt: 2.00, Completion: 8.00},
	"gpt-4.1-mini":          {Prompt: 0.40, Completion: 1.60},
}

// EstimateCost returns the estimated USD cost of usage for model.
// The second return is false when the model has no known pricing.
func EstimateCost(model string, u Usage) (float64, bool) {
	p, ok := modelPricing[model]
	if !ok {
		return 0, false
	}
	cost := float64(u.PromptTokens)/1e6*p.Prompt + float64(u.CompletionTokens)/1e6*p.Completion
	return cost, true
}
