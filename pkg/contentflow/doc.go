/*
Package contentflow provides the state-driven orchestration engine for the
product content pipeline.

# Overview

A run turns a raw product description or a structured product record into
three JSON pages: a product listing, an FAQ, and a competitor comparison.
There is no static graph. After every step a Supervisor inspects the
accumulated State and names the next worker; an Orchestrator dispatches it
and repeats until the Supervisor signals completion or the step bound is
reached.

The pipeline has four workers:
  - ingestor: validates or extracts the product record
  - researcher: invents a competitor and candidate user questions
  - drafter: assembles whichever pages are missing
  - reviewer: the quality gate; rejects drafts with feedback

# Basic Usage

	registry := contentflow.NewRegistry(map[contentflow.Agent]contentflow.Worker{
	    contentflow.AgentIngestor:   agents.NewIngestor(client),
	    contentflow.AgentResearcher: agents.NewResearcher(client),
	    contentflow.AgentDrafter:    agents.NewDrafter(client),
	    contentflow.AgentReviewer:   contentflow.NewReviewer(),
	})
	orch := contentflow.NewOrchestrator(contentflow.NewSupervisor(), registry)

	ctx := contentflow.NewContext(context.Background())
	final, err := orch.Run(ctx, contentflow.NewStateFromProduct(product))
	if err != nil {
	    log.Fatal(err) // misuse or cancellation only
	}

# Errors

State.Errors is an append-only log of ErrorEntry values. Two kinds exist:

  - KindFatal: a hard failure. If the most recent entry is fatal, the
    Supervisor finishes the run on its next decision.
  - KindReviewFeedback: the Reviewer's soft signal. It is kept in the log
    for the drafter to read and never stops the run.

Workers report recoverable problems by appending entries and returning a
nil error. A returned error or a panic is converted to a fatal entry by the
Orchestrator, so worker failures never escape Run.

# Outcomes

Run returns an error only for misuse or cancellation. Reaching the step
bound leaves IsComplete false. Use Classify to tell success, failure, and
exhaustion apart.

# Observability

Run options enable slog logging, OpenTelemetry metrics and spans, and a
per-step journal (see the journal package) for run reports.
*/
package contentflow
