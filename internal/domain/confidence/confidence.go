// Package confidence estimates classification certainty for a
// prediction. The current rules are a deterministic stand-in for a
// model-derived signal; the contract (text plus label in, [0,1] out)
// is stable even if the internals change.
package confidence

import (
	"strings"

	"github.com/zerotrustai/modelgate/internal/domain/model"
)

// Score constants for the current rule set.
const (
	shortInputScore = 0.6
	keywordScore    = 0.9
	defaultScore    = 0.75

	shortInputRunes = 5
)

// strongKeywords mark inputs the classifier is most certain about.
var strongKeywords = []string{"urgente", "crítico", "importante"}

// Estimate returns a confidence score in [0,1] for the given input and
// its predicted label. Pure and deterministic; the label is accepted to
// keep the contract stable for future estimators.
func Estimate(text string, _ model.PriorityLabel) float64 {
	lowered := strings.ToLower(text)
	if len([]rune(lowered)) < shortInputRunes {
		return shortInputScore
	}
	for _, kw := range strongKeywords {
		if strings.Contains(lowered, kw) {
			return keywordScore
		}
	}
	return defaultScore
}
