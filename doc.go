// Package chainsign provides a sequential multi-party document-approval
// engine for Go. A document is submitted with an ordered list of required
// approvers; each approver must act strictly in turn, and a single
// rejection halts the workflow permanently.
//
// ChainSign is designed as a library, not a service. Import it, configure
// a store backend, and drive the four operations directly:
//
//	s := memory.New()
//	eng, err := engine.New(s,
//	    engine.WithSink(event.NewBus(s)),
//	)
//
//	doc, err := eng.Submit(ctx, "alice", engine.SubmitRequest{
//	    ContentRef: "sha256:44136fa3...",
//	    Name:       "Q3 budget",
//	    Category:   "finance",
//	    Approvers:  []chainsign.Identity{"bob", "carol"},
//	})
//
//	doc, err = eng.Approve(ctx, doc.ID, "bob")
//
// # Architecture
//
// ChainSign follows a composable store pattern where each subsystem
// (document, approver, event) defines its own store interface. A single
// backend implements all of them; memory, SQLite, PostgreSQL, and Redis
// backends ship with the module.
//
// Document IDs are process-wide sequential integers allocated by the
// store, strictly increasing and never reused. Event IDs use TypeID —
// type-prefixed, K-sortable, UUIDv7-based identifiers.
package chainsign
