package contentflow

// Outcome classifies how a run ended.
type Outcome int

const (
	// OutcomeSuccess means the run completed with all pages and no trailing fatal error.
	OutcomeSuccess Outcome = iota

	// OutcomeFailed means a fatal error stopped the run.
	OutcomeFailed

	// OutcomeExhausted means the step bound was reached before completion.
	OutcomeExhausted
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Classify reports the outcome of a final state.
//
// Run never returns an error for exhaustion or worker failure, so callers
// use Classify (or IsComplete and Errors directly) to tell them apart.
func Classify(s State) Outcome {
	switch {
	case s.HasFatalError():
		return OutcomeFailed
	case !s.IsComplete:
		return OutcomeExhausted
	case s.PagesComplete():
		return OutcomeSuccess
	default:
		return OutcomeFailed
	}
}
