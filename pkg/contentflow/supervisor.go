package contentflow

// Supervisor decides which worker runs next.
//
// The decision is recomputed from the data present in the state on every
// call rather than from a stored plan. If the Reviewer clears a page, the
// next decision routes back to the drafter without any extra bookkeeping.
//
// A review feedback entry at the end of the error log is not a failure:
// only a trailing fatal entry trips the circuit breaker.
type Supervisor struct{}

// NewSupervisor creates a Supervisor.
func NewSupervisor() *Supervisor {
	return &Supervisor{}
}

// Route returns the next agent for state and whether the run is complete.
// When complete is true the returned agent is Finish.
//
// Rules, in priority order:
//  1. trailing fatal error: finish
//  2. all pages present: review fresh drafts, otherwise finish
//  3. no validated product data: ingestor
//  4. research incomplete: researcher
//  5. any page missing: drafter
//  6. otherwise: finish
func (s *Supervisor) Route(state State) (next Agent, complete bool) {
	if state.HasFatalError() {
		return Finish, true
	}

	if state.PagesComplete() {
		if state.LastAgent == AgentDrafter {
			return AgentReviewer, false
		}
		// Came from the reviewer with pages intact (passed), or pages were
		// already present with no review pending.
		return Finish, true
	}

	if !state.HasProductData() {
		return AgentIngestor, false
	}

	if !state.ResearchComplete() {
		return AgentResearcher, false
	}

	if !state.PagesComplete() {
		return AgentDrafter, false
	}

	return Finish, true
}

// Decide applies Route to state. Only NextAgent and IsComplete are modified.
func (s *Supervisor) Decide(state State) State {
	next, complete := s.Route(state)
	state.NextAgent = next
	if complete {
		state.IsComplete = true
	}
	return state
}
