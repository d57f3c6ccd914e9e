package contentflow

// Agent identifies a worker in the pipeline.
// The Supervisor routes by Agent and the Orchestrator looks workers up by it.
type Agent string

// Worker labels understood by the Supervisor.
const (
	AgentIngestor   Agent = "ingestor"
	AgentResearcher Agent = "researcher"
	AgentDrafter    Agent = "drafter"
	AgentReviewer   Agent = "reviewer"
)

// Finish is the reserved routing sentinel meaning "no more work".
// It is never a valid registry key.
const Finish Agent = "FINISH"

// Agents returns the closed set of worker labels in pipeline order.
func Agents() []Agent {
	return []Agent{AgentIngestor, AgentResearcher, AgentDrafter, AgentReviewer}
}

// Known reports whether a is one of the built-in worker labels.
// Finish and the empty label are not known agents.
func (a Agent) Known() bool {
	switch a {
	case AgentIngestor, AgentResearcher, AgentDrafter, AgentReviewer:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (a Agent) String() string {
	return string(a)
}
