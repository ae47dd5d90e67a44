package api

// OutcomeKind classifies what a single handled event did to the flow.
type OutcomeKind string

const (
	// OutcomeAdvance means the input was valid; the state moved to the
	// next step and was persisted with a fresh expiry.
	OutcomeAdvance OutcomeKind = "ADVANCE"

	// OutcomeCompleted means the flow reached its terminal step and the
	// commit stage created the permanent records; the state row is gone.
	OutcomeCompleted OutcomeKind = "COMPLETED"

	// OutcomeCancelled means the user cancelled the flow; the state row
	// is gone and nothing was committed.
	OutcomeCancelled OutcomeKind = "CANCELLED"

	// OutcomeRejected means the input failed validation; the persisted
	// state is byte-for-byte unchanged and the step re-prompts.
	OutcomeRejected OutcomeKind = "REJECTED"
)

// Outcome is the result of routing one inbound event.
type Outcome struct {
	Kind OutcomeKind

	// NextStateID is set for OutcomeAdvance.
	NextStateID string

	// Prompt is the message to show the user next: the next step's prompt
	// (Advance), the summary (Completed), the cancellation notice
	// (Cancelled) or the re-prompt with error annotation (Rejected).
	Prompt Prompt

	// Reason is set for OutcomeRejected: the localized validation failure.
	Reason string

	// AgreementID is set for OutcomeCompleted.
	AgreementID string
}
