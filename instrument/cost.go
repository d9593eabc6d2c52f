package instrument

import (
	"math"
	"strings"
)

// tokenPricing holds USD prices per million tokens, keyed by model-name
// substring. Longest matching key wins so "gpt-4o-mini" is not priced as
// "gpt-4o".
var tokenPricing = map[string]struct{ input, output float64 }{
	"gpt-4o":            {2.50, 10.00},
	"gpt-4o-mini":       {0.15, 0.60},
	"gpt-4-turbo":       {10.00, 30.00},
	"gpt-4":             {30.00, 60.00},
	"gpt-3.5-turbo":     {0.50, 1.50},
	"claude-3-opus":     {15.00, 75.00},
	"claude-3-sonnet":   {3.00, 15.00},
	"claude-3-haiku":    {0.25, 1.25},
	"claude-3.5-sonnet": {3.00, 15.00},
	"claude-4-sonnet":   {3.00, 15.00},
	"claude-4-opus":     {15.00, 75.00},
}

// EstimateCost returns the estimated USD cost of a model call, rounded to six
// decimal places. ok is false when the model matches no pricing entry.
func EstimateCost(model string, inputTokens, outputTokens int) (cost float64, ok bool) {
	lower := strings.ToLower(model)
	bestLen := 0
	var best struct{ input, output float64 }
	for key, pricing := range tokenPricing {
		if strings.Contains(lower, key) && len(key) > bestLen {
			bestLen = len(key)
			best = pricing
		}
	}
	if bestLen == 0 {
		return 0, false
	}
	cost = float64(inputTokens)/1e6*best.input + float64(outputTokens)/1e6*best.output
	return math.Round(cost*1e6) / 1e6, true
}
