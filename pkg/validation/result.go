// Package validation checks workflow step graphs before persistence and
// activation: structural shape (trigger cardinality, connectivity, cycles,
// reference integrity) and per-step configuration completeness.
package validation

// Severity of a reported problem. Errors block validity, warnings never do.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ProblemType categorizes what kind of check produced a problem.
type ProblemType string

const (
	ProblemStructural    ProblemType = "structural"    // graph shape
	ProblemConfiguration ProblemType = "configuration" // per-step field completeness
)

// ValidationError is one reported problem. ID is stable across runs for the
// same workflow shape so callers can deduplicate and tests can pin results.
// NodeID is empty for whole-workflow problems.
type ValidationError struct {
	ID       string      `json:"id"`
	NodeID   string      `json:"nodeId,omitempty"`
	Type     ProblemType `json:"type"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
}

// Result aggregates every problem found in one pass. IsValid is true iff
// Errors is empty; Warnings are advisory only.
type Result struct {
	IsValid  bool              `json:"isValid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
}
