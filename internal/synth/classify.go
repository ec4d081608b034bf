package synth

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	decisionWords = []string{"decision", "if", "choice", "branch", "condition"}
	multiWords    = []string{"multiple", "several", "many", "steps"}
)

// Signals are the shape hints read from a description.
type Signals struct {
	HasDecision      bool
	HasMultipleSteps bool
}

// Classify looks for signal words anywhere in the lower-cased description.
// Matching is by substring, so "conditioning" counts as "condition" and
// "gift" counts as "if".
func Classify(description string) Signals {
	l := cases.Lower(language.Und).String(description)
	return Signals{
		HasDecision:      containsAny(l, decisionWords),
		HasMultipleSteps: containsAny(l, multiWords),
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
