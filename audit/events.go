package audit

// Audit event actions. Each constant corresponds to one ext lifecycle
// hook and becomes the Action field of the audit event.
const (
	ActionDocumentSubmitted = "document.submitted"
	ActionDocumentApproved  = "document.approved"
	ActionDocumentCompleted = "document.completed"
	ActionDocumentRejected  = "document.rejected"
	ActionDecisionDenied    = "decision.denied"
)

// Audit event categories group related actions.
const (
	CategoryDocument = "chainsign.document"
	CategoryDecision = "chainsign.decision"
)

// Resource types used as the Resource field in audit events.
const (
	ResourceDocument = "document"
)

// AllActions returns every action this extension can emit.
func AllActions() []string {
	return []string{
		ActionDocumentSubmitted,
		ActionDocumentApproved,
		ActionDocumentCompleted,
		ActionDocumentRejected,
		ActionDecisionDenied,
	}
}
