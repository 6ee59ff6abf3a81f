// Package audit is a ChainSign extension that bridges document
// lifecycle events to an immutable audit trail backend.
//
// Every submission, approval, rejection, and denied decision attempt
// emits a structured audit event through the [Recorder] interface. The
// extension assigns severity levels (info for normal transitions,
// warning for denied attempts) and metadata (submitter, approver,
// cursor position, errors).
//
// # Usage
//
//	audit.New(audit.RecorderFunc(func(ctx context.Context, evt *audit.Event) error {
//	    return trail.Write(ctx, evt.Action, evt.ResourceID, evt.Metadata)
//	}))
//
// # Selective filtering
//
//	audit.New(recorder,
//	    audit.WithActions(
//	        audit.ActionDocumentRejected,
//	        audit.ActionDecisionDenied,
//	    ),
//	)
package audit
