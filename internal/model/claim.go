package model

import (
	"fmt"
	"time"
)

// ClaimStatus is the terminal routing decision for a claim.
type ClaimStatus string

const (
	// StatusReadyForApproval means every business rule passed and the claim
	// can proceed without human involvement.
	StatusReadyForApproval ClaimStatus = "ready_for_approval"
	// StatusReview means at least one rule failed or confidence was too low;
	// the claim has been queued for human review.
	StatusReview ClaimStatus = "review"
)

// DateState describes how much we trust the incident date on a claim.
// Missing (absent from input) and invalid (present but unparseable) are
// distinct states so the rule engine can report them differently.
type DateState string

const (
	DateMissing DateState = "missing"
	DateInvalid DateState = "invalid"
	DateValid   DateState = "valid"
)

// RawRecord is the tolerant upstream shape handed to the core by the
// extraction and AI collaborators. Every field is optional; amounts and
// confidences may arrive as strings, numbers, or not at all.
type RawRecord struct {
	ClaimID           string `json:"claim_id,omitempty"`
	Amount            any    `json:"claim_amount,omitempty"`
	IncidentDate      string `json:"incident_date,omitempty"`
	Confidence        any    `json:"confidence,omitempty"`
	Summary           string `json:"summary,omitempty"`
	DamageDescription string `json:"damage_description,omitempty"`
}

// ClaimRecord is the canonical in-memory representation of a claim. It is
// produced once by Normalize, gains validation errors from the rule engine,
// has its status set by the router, and is immutable after persistence.
type ClaimRecord struct {
	ClaimID string `json:"claim_id"`

	// Amount is nil when the upstream value was absent or unparseable.
	// Zero is a legitimate claim amount and must not stand in for missing.
	Amount *float64 `json:"claim_amount"`

	// IncidentDate is only meaningful when DateState == DateValid.
	IncidentDate time.Time `json:"incident_date,omitempty"`
	DateState    DateState `json:"date_state"`

	// Confidence is always in [0,1] after normalization.
	Confidence float64 `json:"confidence"`

	Summary           string `json:"summary,omitempty"`
	DamageDescription string `json:"damage_description,omitempty"`

	ValidationErrors []string    `json:"validation_errors"`
	Status           ClaimStatus `json:"status,omitempty"`

	normalized bool
}

// HasAmount reports whether a numeric amount survived coercion.
func (c *ClaimRecord) HasAmount() bool {
	return c.Amount != nil
}

// AmountValue returns the coerced amount, or 0 when missing. Callers must
// check HasAmount first; the rule engine never treats 0 as missing.
func (c *ClaimRecord) AmountValue() float64 {
	if c.Amount == nil {
		return 0
	}
	return *c.Amount
}

// Normalized reports whether this record already passed through Normalize.
func (c *ClaimRecord) Normalized() bool {
	return c.normalized
}

// GenerateClaimID returns the deterministic fallback identifier used when
// upstream extraction produced no claim_id.
func GenerateClaimID(now time.Time) string {
	return fmt.Sprintf("temp_%d", now.Unix())
}

// ReviewWorkflowStatus is the human-review workflow state of a queued entry.
// It is distinct from ClaimStatus: a claim routed to review starts Pending
// and is later Resolved by a reviewer.
type ReviewWorkflowStatus string

const (
	ReviewPending  ReviewWorkflowStatus = "Pending"
	ReviewResolved ReviewWorkflowStatus = "Resolved"
)

// ReviewEntry is the durable projection of a claim flagged for human review.
type ReviewEntry struct {
	ID           int64                `json:"id"`
	ClaimID      string               `json:"claim_id"`
	Amount       *float64             `json:"amount"`
	IncidentDate string               `json:"claim_date"`
	Errors       []string             `json:"errors"`
	Status       ReviewWorkflowStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
}

// ItemOutcome describes how one input fared in a batch run. Outcome is about
// pipeline completion: a claim routed to review still counts as success.
type ItemOutcome string

const (
	OutcomeSuccess ItemOutcome = "success"
	OutcomeFailed  ItemOutcome = "failed"
)

// ItemResult is the per-input line of a run summary.
type ItemResult struct {
	File       string      `json:"file"`
	Status     ItemOutcome `json:"status"`
	ClaimID    string      `json:"claim_id,omitempty"`
	OutputPath string      `json:"output,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// RunSummary aggregates a batch run. It is written once, at the end.
type RunSummary struct {
	RunID     string       `json:"run_id"`
	StartedAt time.Time    `json:"started_at"`
	Duration  int64        `json:"duration_ms"`
	Successes int          `json:"successes"`
	Failures  int          `json:"failures"`
	Items     []ItemResult `json:"items"`
}
