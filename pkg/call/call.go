// Package call applies provider callback events to call records.
//
// The telephony provider delivers events asynchronously with no ordering
// or de-duplication guarantee: duplicates, out-of-order status changes,
// and events for unknown sessions are all part of the contract. The
// [Machine] therefore works as an idempotent merge function: an event
// carries a sparse set of fields, only the supplied fields are written,
// and an unknown session is a benign no-op so the webhook ingress can
// still acknowledge the provider and stop delivery retries.
package call

// Direction of a call, set once at creation.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Telephony statuses, normalized. StatusProcessed is the terminal
// enrichment-complete marker layered on top of the telephony lattice;
// it is written by the enrichment pipeline, never by provider events.
const (
	StatusInitiated  = "initiated"
	StatusRinging    = "ringing"
	StatusAnswered   = "answered"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusBusy       = "busy"
	StatusFailed     = "failed"
	StatusNoAnswer   = "no-answer"
	StatusCanceled   = "canceled"
	StatusProcessed  = "processed"
)
