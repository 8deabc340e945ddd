package processor

import "fmt"

// Outcome is the terminal state of one matched element after processing.
type Outcome uint8

const (
	// maximumOutcomeValue is the value of the highest currently known Outcome.
	maximumOutcomeValue = 3

	// OutcomeNone is the default value for Outcome.
	// Getting an Outcome of type OutcomeNone means the element was never processed.
	OutcomeNone Outcome = 0

	// OutcomeRewritten means statements were spliced into the routine body.
	OutcomeRewritten Outcome = 1

	// OutcomeSkipped means the routine had no body and was left untouched.
	OutcomeSkipped Outcome = 2

	// OutcomeFailed means body location or splicing failed for the element.
	OutcomeFailed Outcome = 3
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "None"
	case OutcomeRewritten:
		return "Rewritten"
	case OutcomeSkipped:
		return "Skipped"
	case OutcomeFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// OutcomeCache records the terminal state of each routine processed during a
// round, keyed by rendered signature. It exists for reporting only: it is
// not a guard against double instrumentation.
type OutcomeCache map[string]Outcome

func NewOutcomeCache() OutcomeCache {
	return make(OutcomeCache)
}

func (c OutcomeCache) Record(signature string, outcome Outcome) error {
	if outcome == OutcomeNone {
		return fmt.Errorf("invalid outcome: %s", outcome.String())
	}
	if outcome > maximumOutcomeValue {
		return fmt.Errorf("unknown outcome: %d", outcome)
	}
	if signature == "" {
		return fmt.Errorf("empty signature")
	}

	c[signature] = outcome
	return nil
}

func (c OutcomeCache) Get(signature string) Outcome {
	return c[signature]
}

// Count returns how many recorded elements reached the given outcome.
func (c OutcomeCache) Count(outcome Outcome) int {
	n := 0
	for _, o := range c {
		if o == outcome {
			n++
		}
	}
	return n
}
