// Package statement evaluates assertions of the form "X is Y." and
// "X is not Y." against a fact store.
package statement

import (
	"strings"

	"github.com/jrsteele09/go-aletheia/facts"
)

const (
	negatedSeparator = " is not "
	plainSeparator   = " is "
	terminator       = "."
)

// FactChecker answers whether subject currently has value.
type FactChecker interface {
	Holds(subject, value string) bool
}

// Assertion is a parsed statement.
type Assertion struct {
	Subject string
	Value   string
	Negated bool
}

// Parse recognises the two accepted statement forms. Separators split on
// their first occurrence, so a value may not itself contain " is ".
func Parse(text string) (Assertion, bool) {
	normalized := facts.Normalize(text)
	if !strings.HasSuffix(normalized, terminator) {
		return Assertion{}, false
	}
	normalized = strings.TrimSpace(strings.TrimSuffix(normalized, terminator))

	// " is not " contains " is ", so it has to be tried first.
	for _, sep := range []string{negatedSeparator, plainSeparator} {
		subject, value, found := strings.Cut(normalized, sep)
		if !found {
			continue
		}
		subject, value = strings.TrimSpace(subject), strings.TrimSpace(value)
		if subject == "" || value == "" {
			return Assertion{}, false
		}
		return Assertion{Subject: subject, Value: value, Negated: sep == negatedSeparator}, true
	}
	return Assertion{}, false
}

type Evaluator struct {
	facts FactChecker
}

func NewEvaluator(facts FactChecker) *Evaluator {
	return &Evaluator{facts: facts}
}

// Evaluate reports whether text holds. Anything that does not parse is false.
func (e *Evaluator) Evaluate(text string) bool {
	a, ok := Parse(text)
	if !ok {
		return false
	}
	holds := e.facts.Holds(a.Subject, a.Value)
	if a.Negated {
		return !holds
	}
	return holds
}
